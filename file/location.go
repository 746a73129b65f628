package file

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/relloyd/lakepipe/aws/s3"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/errkind"
)

// Location is a parsed s3://bucket/key or file://path URI.
type Location struct {
	Scheme string
	Bucket string // s3 only
	Key    string // s3 only
	Path   string // file only
}

// ParseLocation splits uri into its parts. Local paths may be relative, e.g. file://data/x.json,
// or start with ~ for the home directory.
func ParseLocation(uri string) (Location, error) {
	scheme, rest, found := cut(uri, "://")
	if !found {
		return Location{}, errkind.Errorf(errkind.Configuration, "parse location",
			"unknown file type for %q, must be prefixed with 'file://' or 's3://'", uri)
	}
	switch scheme {
	case constants.SchemeS3:
		o, err := s3.ParseURL(uri)
		if err != nil {
			return Location{}, err
		}
		return Location{Scheme: scheme, Bucket: o.Bucket, Key: o.Key}, nil
	case constants.SchemeFile:
		p, err := homedir.Expand(rest)
		if err != nil {
			return Location{}, errkind.New(errkind.Configuration, "parse location", err)
		}
		if p == "" {
			return Location{}, errkind.Errorf(errkind.Configuration, "parse location", "missing path in %q", uri)
		}
		return Location{Scheme: scheme, Path: filepath.FromSlash(p)}, nil
	}
	return Location{}, errkind.Errorf(errkind.Configuration, "parse location",
		"unknown file type for %q, must be prefixed with 'file://' or 's3://'", uri)
}

func (l Location) IsS3() bool {
	return l.Scheme == constants.SchemeS3
}

// String returns the location as a URI.
func (l Location) String() string {
	if l.IsS3() {
		return fmt.Sprintf("s3://%v/%v", l.Bucket, l.Key)
	}
	return "file://" + filepath.ToSlash(l.Path)
}

// Join appends elem to the key or path.
func (l Location) Join(elem ...string) Location {
	if l.IsS3() {
		key := path.Join(append([]string{l.Key}, elem...)...)
		if len(elem) > 0 && strings.HasSuffix(elem[len(elem)-1], "/") {
			key += "/"
		}
		l.Key = strings.TrimPrefix(key, "/")
		return l
	}
	l.Path = filepath.Join(append([]string{l.Path}, elem...)...)
	return l
}

// Dir returns the parent folder of a local path.
func (l Location) Dir() string {
	return filepath.Dir(l.Path)
}

func cut(s, sep string) (before, after string, found bool) {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}
