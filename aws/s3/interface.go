package s3

import (
	"context"
	"errors"
	"io"
)

var ErrKeyNotFound = errors.New("key not found")

type BasicClient interface {
	Lister
	Getter
	Putter
	Deleter
	Copier
	Downloader
	Uploader
}

type Client interface {
	BasicClient
	Mover
}

type Lister interface {
	// List returns all keys that start with key, fetching every page.
	List(ctx context.Context, key string) (keys []string, err error)
}

type Getter interface {
	// Get returns ErrKeyNotFound if the given key doesn't exist.
	Get(ctx context.Context, key string) (data []byte, err error)
}

type Putter interface {
	Put(ctx context.Context, key string, data []byte) (err error)
}

type Deleter interface {
	Delete(ctx context.Context, key string) error
}

type Copier interface {
	// Copy copies srcBucket/srcKey to key in this client's bucket without downloading it.
	Copy(ctx context.Context, srcBucket, srcKey, key string) error
}

// Downloader streams an object into w, e.g. an *os.File.
type Downloader interface {
	Download(ctx context.Context, key string, w io.WriterAt) (n int64, err error)
}

// Uploader streams r into an object using multipart uploads for large bodies.
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader) error
}

type Mover interface {
	// Move returns ErrKeyNotFound if the src key doesn't exist.
	Move(ctx context.Context, src, dst string) error
}
