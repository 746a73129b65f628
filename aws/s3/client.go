package s3

import (
	"context"

	awsclient "github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

func NewClient(bucket, prefix string, sess awsclient.ConfigProvider) Client {
	return NewClientFromBasic(NewBasicClient(bucket, prefix, sess))
}

func NewClientWithAPI(bucket, prefix string, api s3iface.S3API) Client {
	return NewClientFromBasic(NewBasicClientWithAPI(bucket, prefix, api))
}

func NewClientFromBasic(basicClient BasicClient) Client {
	return &client{
		BasicClient: basicClient,
		bucket:      bucketOf(basicClient),
	}
}

type client struct {
	BasicClient
	bucket string
}

// Move copies src to dst server-side and then deletes src.
// Clients not built on the SDK fall back to get, put and delete.
func (s *client) Move(ctx context.Context, src, dst string) error {
	if s.bucket != "" {
		if err := s.Copy(ctx, s.bucket, src, dst); err != nil {
			return err
		}
		return s.Delete(ctx, src)
	}
	data, err := s.Get(ctx, src)
	if err != nil {
		return err
	}
	if err = s.Put(ctx, dst, data); err != nil {
		return err
	}
	return s.Delete(ctx, src)
}

func bucketOf(c BasicClient) string {
	if b, ok := c.(*basicClient); ok && b.prefix == "" {
		return b.bucket
	}
	return ""
}
