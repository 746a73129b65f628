package s3

import (
	"fmt"
	"strings"

	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/errkind"
)

// Object identifies a key in a bucket.
type Object struct {
	Bucket string `errorTxt:"bucket name" mandatory:"yes"`
	Key    string
}

// URL returns s3://bucket/key.
func (o Object) URL() string {
	return fmt.Sprintf("%v://%v/%v", constants.SchemeS3, o.Bucket, o.Key)
}

// ParseURL expects s3url to be of the form s3://<bucket>/<key>.
// It returns an Object populated with the components of s3url. The key is kept verbatim
// apart from leading slashes, so keys may hold characters such as '%', '?' and '#'.
// If there is a parsing error it returns an error of kind Configuration.
func ParseURL(s3url string) (retval Object, err error) {
	prefix := constants.SchemeS3 + "://"
	if !strings.HasPrefix(s3url, prefix) {
		return retval, errkind.Errorf(errkind.Configuration, "parse s3 url", "expected S3 URL scheme %q in %q", constants.SchemeS3, s3url)
	}
	retval.Bucket = strings.TrimPrefix(s3url, prefix)
	if i := strings.Index(retval.Bucket, "/"); i >= 0 {
		retval.Bucket, retval.Key = retval.Bucket[:i], strings.TrimLeft(retval.Bucket[i+1:], "/")
	}
	if retval.Bucket == "" {
		return retval, errkind.Errorf(errkind.Configuration, "parse s3 url", "failed to parse bucket name from %q", s3url)
	}
	return
}
