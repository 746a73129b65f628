package s3

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/relloyd/lakepipe/errkind"
)

// fakeS3 keeps objects in memory, keyed by bucket/key.
type fakeS3 struct {
	s3iface.S3API
	objects  map[string][]byte
	pageSize int
	copies   []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte), pageSize: 2}
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "missing", nil)
	}
	return &s3.GetObjectOutput{Body: ioutil.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := ioutil.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) CopyObjectWithContext(_ aws.Context, in *s3.CopyObjectInput, _ ...request.Option) (*s3.CopyObjectOutput, error) {
	f.copies = append(f.copies, *in.CopySource)
	src, err := url.PathUnescape(*in.CopySource)
	if err != nil {
		return nil, err
	}
	data, ok := f.objects[src]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "missing", nil)
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2WithContext(_ aws.Context, in *s3.ListObjectsV2Input, _ ...request.Option) (*s3.ListObjectsV2Output, error) {
	keys := make([]string, 0)
	for k := range f.objects {
		if strings.HasPrefix(k, *in.Bucket+"/"+*in.Prefix) {
			keys = append(keys, strings.TrimPrefix(k, *in.Bucket+"/"))
		}
	}
	sort.Strings(keys)
	start := 0
	if in.ContinuationToken != nil {
		for i, k := range keys {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := start + f.pageSize
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(keys[end])
	} else {
		end = len(keys)
	}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, &s3.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestBasicClientPutGetDelete(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	c := NewBasicClientWithAPI("landing", "pad", api)
	if err := c.Put(ctx, "A/2024/a.csv.gz", []byte("data")); err != nil {
		t.Fatal(err)
	}
	if _, ok := api.objects["landing/pad/A/2024/a.csv.gz"]; !ok {
		t.Fatal("expected object under prefix")
	}
	got, err := c.Get(ctx, "A/2024/a.csv.gz")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "data" {
		t.Fatalf("expected data; got %q", got)
	}
	if err = c.Delete(ctx, "A/2024/a.csv.gz"); err != nil {
		t.Fatal(err)
	}
	_, err = c.Get(ctx, "A/2024/a.csv.gz")
	if !errkind.Is(err, errkind.NotFound) {
		t.Fatalf("expected NotFound after delete; got %v", err)
	}
}

func TestBasicClientListAllPages(t *testing.T) {
	api := newFakeS3()
	for _, k := range []string{"in/A/1/a", "in/A/1/b", "in/A/1/c", "in/A/1/d", "in/A/1/e", "in/B/1/a"} {
		api.objects["landing/"+k] = []byte("x")
	}
	c := NewBasicClientWithAPI("landing", "", api)
	keys, err := c.List(context.Background(), "in/A/")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 5 {
		t.Fatalf("expected 5 keys across pages; got %v", keys)
	}
}

func TestNewClientFromSession(t *testing.T) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String("eu-west-1")})
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient("landing", "", sess)
	if got := c.(*client).bucket; got != "landing" {
		t.Fatalf("expected server-side moves in bucket landing; got %q", got)
	}
	if b := NewBasicClient("landing", "in", sess).(*basicClient); b.prefix != "in" || b.api == nil {
		t.Fatalf("unexpected client %+v", b)
	}
}

func TestClientMoveUsesCopy(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	api.objects["landing/in/my file.csv"] = []byte("x")
	c := NewClientWithAPI("landing", "", api)
	if err := c.Move(ctx, "in/my file.csv", "done/my file.csv"); err != nil {
		t.Fatal(err)
	}
	if _, ok := api.objects["landing/in/my file.csv"]; ok {
		t.Fatal("expected source to be deleted")
	}
	if len(api.copies) != 1 || api.copies[0] != "landing/in/my%20file.csv" {
		t.Fatalf("unexpected copy source %v", api.copies)
	}
}

func TestParseURL(t *testing.T) {
	o, err := ParseURL("s3://landing/in/A/2024/a.csv.gz")
	if err != nil {
		t.Fatal(err)
	}
	if o.Bucket != "landing" || o.Key != "in/A/2024/a.csv.gz" {
		t.Fatalf("unexpected object %+v", o)
	}
	if o.URL() != "s3://landing/in/A/2024/a.csv.gz" {
		t.Fatalf("unexpected url %v", o.URL())
	}
	o, err = ParseURL("s3://landing//in/50% off?#1.csv")
	if err != nil || o.Key != "in/50% off?#1.csv" {
		t.Fatalf("expected key kept verbatim; got %+v, %v", o, err)
	}
	for _, bad := range []string{"file:///tmp/x", "s3:///nokey", "landing/key", "s3://"} {
		if _, err = ParseURL(bad); !errkind.Is(err, errkind.Configuration) {
			t.Fatalf("expected Configuration error for %q; got %v", bad, err)
		}
	}
}
