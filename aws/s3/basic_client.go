package s3

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	awsclient "github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/relloyd/lakepipe/errkind"
)

// NewBasicClient returns a client for bucket using the supplied session.
func NewBasicClient(bucket, prefix string, sess awsclient.ConfigProvider) BasicClient {
	return NewBasicClientWithAPI(bucket, prefix, s3.New(sess))
}

// NewBasicClientWithAPI returns a client for bucket that sends requests through api.
func NewBasicClientWithAPI(bucket, prefix string, api s3iface.S3API) BasicClient {
	return &basicClient{
		bucket: bucket,
		prefix: prefix,
		api:    api,
	}
}

type basicClient struct {
	bucket string
	prefix string
	api    s3iface.S3API
}

func (s *basicClient) List(ctx context.Context, key string) (keys []string, err error) {
	keys = make([]string, 0, 1000)
	var token *string
	for {
		params := &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			ContinuationToken: token,
			MaxKeys:           aws.Int64(1000),
			Prefix:            aws.String(s.getKeyWithPrefix(key)),
		}
		resp, err := s.api.ListObjectsV2WithContext(ctx, params)
		if err != nil {
			return nil, errkind.FromAWS("s3 list "+s.bucket, err)
		}
		for _, v := range resp.Contents {
			keys = append(keys, aws.StringValue(v.Key))
		}
		if !aws.BoolValue(resp.IsTruncated) { // if this was the last page...
			break
		}
		token = resp.NextContinuationToken
	}
	return
}

func (s *basicClient) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := s.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getKeyWithPrefix(key)),
	})
	if err != nil {
		if awsErr, ok := err.(awserr.Error); ok && awsErr.Code() == s3.ErrCodeNoSuchKey {
			return nil, errkind.New(errkind.NotFound, "s3 get "+s.bucket+"/"+key, ErrKeyNotFound)
		}
		return nil, errkind.FromAWS("s3 get "+s.bucket+"/"+key, err)
	}
	defer res.Body.Close()
	return ioutil.ReadAll(res.Body)
}

func (s *basicClient) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getKeyWithPrefix(key)),
		Body:   bytes.NewReader(data),
	})
	return errkind.FromAWS("s3 put "+s.bucket+"/"+key, err)
}

func (s *basicClient) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getKeyWithPrefix(key)),
	})
	return errkind.FromAWS("s3 delete "+s.bucket+"/"+key, err)
}

func (s *basicClient) Copy(ctx context.Context, srcBucket, srcKey, key string) error {
	_, err := s.api.CopyObjectWithContext(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(s.getKeyWithPrefix(key)),
		CopySource: aws.String(copySource(srcBucket, srcKey)),
	})
	if err != nil {
		if awsErr, ok := err.(awserr.Error); ok && awsErr.Code() == s3.ErrCodeNoSuchKey {
			return errkind.New(errkind.NotFound, "s3 copy "+srcBucket+"/"+srcKey, ErrKeyNotFound)
		}
	}
	return errkind.FromAWS("s3 copy "+srcBucket+"/"+srcKey, err)
}

func (s *basicClient) Download(ctx context.Context, key string, w io.WriterAt) (int64, error) {
	d := s3manager.NewDownloaderWithClient(s.api)
	n, err := d.DownloadWithContext(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getKeyWithPrefix(key)),
	})
	return n, errkind.FromAWS("s3 download "+s.bucket+"/"+key, err)
}

func (s *basicClient) Upload(ctx context.Context, key string, r io.Reader) error {
	u := s3manager.NewUploaderWithClient(s.api)
	_, err := u.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.getKeyWithPrefix(key)),
		Body:   r,
	})
	return errkind.FromAWS("s3 upload "+s.bucket+"/"+key, err)
}

func (s *basicClient) getKeyWithPrefix(key string) string {
	if s.prefix != "" {
		return strings.TrimRight(s.prefix, "/") + "/" + key // ensure trailing slash after prefix.
	}
	return key
}

// copySource URL-encodes bucket/key for the x-amz-copy-source header, keeping the slashes.
func copySource(bucket, key string) string {
	parts := strings.Split(bucket+"/"+key, "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return strings.Join(parts, "/")
}
