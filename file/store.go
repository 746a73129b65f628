// Package file reads and writes objects addressed by s3:// or file:// URIs.
package file

import (
	"context"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/relloyd/lakepipe/aws/s3"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/logger"
)

// PutMode says what Put does when the target already exists.
type PutMode int

const (
	// Overwrite replaces the existing content.
	Overwrite PutMode = iota
	// Append adds to the end of an existing local file.
	Append
)

// Store performs file operations across S3 and the local file system.
type Store struct {
	Log        logger.Logger
	OpenBucket func(bucket string) s3.Client
}

// Get returns the content at uri.
func (s *Store) Get(ctx context.Context, uri string) ([]byte, error) {
	l, err := ParseLocation(uri)
	if err != nil {
		return nil, err
	}
	if l.IsS3() {
		return s.OpenBucket(l.Bucket).Get(ctx, l.Key)
	}
	b, err := ioutil.ReadFile(l.Path)
	if err != nil {
		return nil, errkind.FromOS("get "+uri, err)
	}
	return b, nil
}

// Put writes data to uri, creating local directories as needed.
// Append is only supported for local files; S3 objects are always replaced.
func (s *Store) Put(ctx context.Context, uri string, data []byte, mode PutMode) error {
	l, err := ParseLocation(uri)
	if err != nil {
		return err
	}
	if l.IsS3() {
		if mode == Append {
			return errkind.Errorf(errkind.Configuration, "put "+uri, "append is not supported for S3 objects")
		}
		return s.OpenBucket(l.Bucket).Put(ctx, l.Key, data)
	}
	if err = os.MkdirAll(l.Dir(), 0755); err != nil {
		return errkind.FromOS("put "+uri, err)
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if mode == Append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(l.Path, flags, 0644)
	if err != nil {
		return errkind.FromOS("put "+uri, err)
	}
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return errkind.FromOS("put "+uri, err)
	}
	return errkind.FromOS("put "+uri, f.Close())
}

// Copy copies src to dst. Same-kind copies stay server-side or on disk; mixed copies read then write.
func (s *Store) Copy(ctx context.Context, src, dst string) error {
	sl, err := ParseLocation(src)
	if err != nil {
		return err
	}
	dl, err := ParseLocation(dst)
	if err != nil {
		return err
	}
	switch {
	case sl.IsS3() && dl.IsS3():
		return s.OpenBucket(dl.Bucket).Copy(ctx, sl.Bucket, sl.Key, dl.Key)
	case !sl.IsS3() && !dl.IsS3():
		return copyLocal(sl.Path, dl.Path)
	}
	data, err := s.Get(ctx, src)
	if err != nil {
		return err
	}
	return s.Put(ctx, dst, data, Overwrite)
}

// Move copies src to dst and then deletes src. Local moves are a rename.
// Moves within one bucket are delegated to the bucket's client.
func (s *Store) Move(ctx context.Context, src, dst string) error {
	sl, err := ParseLocation(src)
	if err != nil {
		return err
	}
	dl, err := ParseLocation(dst)
	if err != nil {
		return err
	}
	if !sl.IsS3() && !dl.IsS3() {
		if err = os.MkdirAll(dl.Dir(), 0755); err != nil {
			return errkind.FromOS("move "+src, err)
		}
		return errkind.FromOS("move "+src, os.Rename(sl.Path, dl.Path))
	}
	if sl.IsS3() && dl.IsS3() && sl.Bucket == dl.Bucket {
		return s.OpenBucket(sl.Bucket).Move(ctx, sl.Key, dl.Key)
	}
	if err = s.Copy(ctx, src, dst); err != nil {
		return err
	}
	return s.Delete(ctx, src)
}

// Delete removes uri. Deleting a missing local file is a NotFound error.
func (s *Store) Delete(ctx context.Context, uri string) error {
	l, err := ParseLocation(uri)
	if err != nil {
		return err
	}
	if l.IsS3() {
		return s.OpenBucket(l.Bucket).Delete(ctx, l.Key)
	}
	return errkind.FromOS("delete "+uri, os.Remove(l.Path))
}

// List returns the URIs of all objects or files under uri, sorted.
func (s *Store) List(ctx context.Context, uri string) ([]string, error) {
	l, err := ParseLocation(uri)
	if err != nil {
		return nil, err
	}
	retval := make([]string, 0)
	if l.IsS3() {
		keys, err := s.OpenBucket(l.Bucket).List(ctx, l.Key)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if strings.HasSuffix(k, "/") { // skip folder placeholders
				continue
			}
			retval = append(retval, Location{Scheme: l.Scheme, Bucket: l.Bucket, Key: k}.String())
		}
		sort.Strings(retval)
		return retval, nil
	}
	err = filepath.Walk(l.Path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			retval = append(retval, Location{Scheme: l.Scheme, Path: p}.String())
		}
		return nil
	})
	if err != nil {
		return nil, errkind.FromOS("list "+uri, err)
	}
	sort.Strings(retval)
	return retval, nil
}

func copyLocal(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errkind.FromOS("copy "+src, err)
	}
	defer in.Close()
	if err = os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errkind.FromOS("copy "+src, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return errkind.FromOS("copy "+src, err)
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return errkind.FromOS("copy "+src, err)
	}
	return errkind.FromOS("copy "+src, out.Close())
}
