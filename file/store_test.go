package file_test

import (
	"context"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/aws/s3"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/file"
	"github.com/relloyd/lakepipe/logger"
)

// memBucket is an in-memory s3.Client shared by all buckets, keyed by bucket/key.
type memBucket struct {
	name    string
	objects map[string][]byte
	moved   *[]string
}

func (m *memBucket) k(key string) string { return m.name + "/" + key }

func (m *memBucket) List(_ context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	for k := range m.objects {
		if strings.HasPrefix(k, m.k(prefix)) {
			keys = append(keys, strings.TrimPrefix(k, m.name+"/"))
		}
	}
	return keys, nil
}

func (m *memBucket) Get(_ context.Context, key string) ([]byte, error) {
	d, ok := m.objects[m.k(key)]
	if !ok {
		return nil, errkind.New(errkind.NotFound, "get", s3.ErrKeyNotFound)
	}
	return d, nil
}

func (m *memBucket) Put(_ context.Context, key string, data []byte) error {
	m.objects[m.k(key)] = data
	return nil
}

func (m *memBucket) Delete(_ context.Context, key string) error {
	delete(m.objects, m.k(key))
	return nil
}

func (m *memBucket) Copy(_ context.Context, srcBucket, srcKey, key string) error {
	d, ok := m.objects[srcBucket+"/"+srcKey]
	if !ok {
		return errkind.New(errkind.NotFound, "copy", s3.ErrKeyNotFound)
	}
	m.objects[m.k(key)] = d
	return nil
}

func (m *memBucket) Download(context.Context, string, io.WriterAt) (int64, error) {
	return 0, errors.New("not used")
}

func (m *memBucket) Upload(context.Context, string, io.Reader) error {
	return errors.New("not used")
}

func (m *memBucket) Move(ctx context.Context, src, dst string) error {
	*m.moved = append(*m.moved, m.k(src)+" > "+dst)
	if err := m.Copy(ctx, m.name, src, dst); err != nil {
		return err
	}
	return m.Delete(ctx, src)
}

var _ = Describe("Store", func() {
	var (
		ctx     context.Context
		store   *file.Store
		objects map[string][]byte
		moved   []string
		dir     string
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		objects = make(map[string][]byte)
		moved = nil
		store = &file.Store{
			Log: logger.NewLogger("lakepipe-test", "error", false),
			OpenBucket: func(bucket string) s3.Client {
				return &memBucket{name: bucket, objects: objects, moved: &moved}
			},
		}
		dir, err = ioutil.TempDir("", "lakepipe-file")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(dir)
	})

	local := func(name string) string {
		return "file://" + filepath.ToSlash(filepath.Join(dir, name))
	}

	Describe("Get", func() {
		It("returns NotFound with status 404 for a missing local file", func() {
			_, err := store.Get(ctx, local("missing.json"))
			Expect(err).To(HaveOccurred())
			Expect(errkind.Is(err, errkind.NotFound)).To(BeTrue())
			Expect(errkind.StatusCode(err)).To(Equal("404"))
		})

		It("returns Configuration with status 400 for an unknown scheme", func() {
			_, err := store.Get(ctx, "ftp://host/file")
			Expect(errkind.StatusCode(err)).To(Equal("400"))
			_, err = store.Get(ctx, "/no/scheme")
			Expect(errkind.Is(err, errkind.Configuration)).To(BeTrue())
		})

		It("reads S3 objects", func() {
			objects["landing/in/a.txt"] = []byte("hello")
			data, err := store.Get(ctx, "s3://landing/in/a.txt")
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("hello"))
		})
	})

	Describe("Put", func() {
		It("creates directories and overwrites by default", func() {
			uri := local("nested/dir/out.txt")
			Expect(store.Put(ctx, uri, []byte("one"), file.Overwrite)).To(Succeed())
			Expect(store.Put(ctx, uri, []byte("two"), file.Overwrite)).To(Succeed())
			data, err := store.Get(ctx, uri)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("two"))
		})

		It("appends to local files", func() {
			uri := local("log.txt")
			Expect(store.Put(ctx, uri, []byte("a"), file.Append)).To(Succeed())
			Expect(store.Put(ctx, uri, []byte("b"), file.Append)).To(Succeed())
			data, _ := store.Get(ctx, uri)
			Expect(string(data)).To(Equal("ab"))
		})

		It("refuses to append to S3", func() {
			err := store.Put(ctx, "s3://landing/x", []byte("a"), file.Append)
			Expect(errkind.Is(err, errkind.Configuration)).To(BeTrue())
		})
	})

	Describe("Copy and Move", func() {
		It("copies S3 to S3 server-side", func() {
			objects["landing/a"] = []byte("x")
			Expect(store.Copy(ctx, "s3://landing/a", "s3://lake/b")).To(Succeed())
			Expect(objects).To(HaveKey("lake/b"))
			Expect(objects).To(HaveKey("landing/a"))
		})

		It("copies across S3 and local", func() {
			objects["landing/a.csv"] = []byte("id\n1\n")
			Expect(store.Copy(ctx, "s3://landing/a.csv", local("a.csv"))).To(Succeed())
			Expect(store.Copy(ctx, local("a.csv"), "s3://lake/copied.csv")).To(Succeed())
			Expect(string(objects["lake/copied.csv"])).To(Equal("id\n1\n"))
		})

		It("moves local files with rename", func() {
			Expect(store.Put(ctx, local("src.txt"), []byte("x"), file.Overwrite)).To(Succeed())
			Expect(store.Move(ctx, local("src.txt"), local("sub/dst.txt"))).To(Succeed())
			_, err := store.Get(ctx, local("src.txt"))
			Expect(errkind.Is(err, errkind.NotFound)).To(BeTrue())
			data, err := store.Get(ctx, local("sub/dst.txt"))
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("x"))
		})

		It("moves within a bucket using the bucket client", func() {
			objects["landing/in/a.csv"] = []byte("x")
			Expect(store.Move(ctx, "s3://landing/in/a.csv", "s3://landing/done/a.csv")).To(Succeed())
			Expect(moved).To(Equal([]string{"landing/in/a.csv > done/a.csv"}))
			Expect(objects).To(HaveKey("landing/done/a.csv"))
			Expect(objects).ToNot(HaveKey("landing/in/a.csv"))
		})

		It("moves across buckets with copy and delete", func() {
			objects["landing/a.csv"] = []byte("x")
			Expect(store.Move(ctx, "s3://landing/a.csv", "s3://lake/a.csv")).To(Succeed())
			Expect(moved).To(BeEmpty())
			Expect(objects).To(HaveKey("lake/a.csv"))
			Expect(objects).ToNot(HaveKey("landing/a.csv"))
		})

		It("moves local to S3 and removes the source", func() {
			Expect(store.Put(ctx, local("up.txt"), []byte("x"), file.Overwrite)).To(Succeed())
			Expect(store.Move(ctx, local("up.txt"), "s3://lake/up.txt")).To(Succeed())
			Expect(objects).To(HaveKey("lake/up.txt"))
			_, err := os.Stat(filepath.Join(dir, "up.txt"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("reports a missing local file as NotFound", func() {
			err := store.Delete(ctx, local("gone.txt"))
			Expect(errkind.Is(err, errkind.NotFound)).To(BeTrue())
		})

		It("deletes S3 objects", func() {
			objects["landing/a"] = []byte("x")
			Expect(store.Delete(ctx, "s3://landing/a")).To(Succeed())
			Expect(objects).ToNot(HaveKey("landing/a"))
		})
	})

	Describe("List", func() {
		It("lists local files recursively", func() {
			Expect(store.Put(ctx, local("in/A/1/b.csv"), []byte("x"), file.Overwrite)).To(Succeed())
			Expect(store.Put(ctx, local("in/A/1/a.csv"), []byte("x"), file.Overwrite)).To(Succeed())
			uris, err := store.List(ctx, local("in/A"))
			Expect(err).ToNot(HaveOccurred())
			Expect(uris).To(Equal([]string{local("in/A/1/a.csv"), local("in/A/1/b.csv")}))
		})

		It("lists S3 objects under a prefix and skips folder markers", func() {
			objects["landing/in/A/1/"] = nil
			objects["landing/in/A/1/a.csv.gz"] = []byte("x")
			objects["landing/in/B/1/a.csv.gz"] = []byte("x")
			uris, err := store.List(ctx, "s3://landing/in/A/1/")
			Expect(err).ToNot(HaveOccurred())
			Expect(uris).To(Equal([]string{"s3://landing/in/A/1/a.csv.gz"}))
		})
	})
})

var _ = Describe("Location", func() {
	It("parses S3 and local URIs", func() {
		l, err := file.ParseLocation("s3://landing/in/a.csv")
		Expect(err).ToNot(HaveOccurred())
		Expect(l.Bucket).To(Equal("landing"))
		Expect(l.Key).To(Equal("in/a.csv"))
		Expect(l.String()).To(Equal("s3://landing/in/a.csv"))
		Expect(l.Join("A", "2024/").String()).To(Equal("s3://landing/in/a.csv/A/2024/"))

		l, err = file.ParseLocation("file://data/template.json")
		Expect(err).ToNot(HaveOccurred())
		Expect(l.Path).To(Equal(filepath.FromSlash("data/template.json")))
	})

	It("expands the home directory", func() {
		l, err := file.ParseLocation("file://~/x.yaml")
		Expect(err).ToNot(HaveOccurred())
		Expect(l.Path).ToNot(HavePrefix("~"))
	})

	It("keeps S3 keys verbatim", func() {
		l, err := file.ParseLocation("s3://landing//in/50% off#1.csv")
		Expect(err).ToNot(HaveOccurred())
		Expect(l.Bucket).To(Equal("landing"))
		Expect(l.Key).To(Equal("in/50% off#1.csv"))
	})

	It("rejects a bucketless S3 URI", func() {
		_, err := file.ParseLocation("s3:///key")
		Expect(errkind.Is(err, errkind.Configuration)).To(BeTrue())
	})
})
