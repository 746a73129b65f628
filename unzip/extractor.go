// Package unzip expands a ZIP archive held in S3 into gzip compressed member files laid out by table and partition.
package unzip

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/aws/s3"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/event"
	"github.com/relloyd/lakepipe/helper"
	"github.com/relloyd/lakepipe/logger"
	"github.com/rs/xid"
)

// Bucket is the part of an S3 client the extractor needs.
type Bucket interface {
	s3.Downloader
	s3.Uploader
}

// Extractor downloads an archive, gzips each member and uploads it next to its siblings.
type Extractor struct {
	Log        logger.Logger
	OpenBucket func(name string) Bucket
	WorkRoot   string
	Now        func() time.Time
}

// Request names the archive and the folder its members are written under.
type Request struct {
	Bucket       string `errorTxt:"archive bucket" mandatory:"yes"`
	Key          string `errorTxt:"archive key" mandatory:"yes"`
	TargetFolder string
}

// Handle resolves the archive from e, extracts it and records the results in process_parms.
func (x *Extractor) Handle(ctx context.Context, e event.Event) (event.Response, error) {
	ref, err := e.Object()
	if err != nil {
		return event.Response{}, err
	}
	pp := e.Params(event.KeyProcessParms)
	target, ok := pp.String(event.ParamS3ExtractFolder)
	if !ok { // if there is no explicit target use the archive's folder...
		target = ref.Folder()
	}
	m, err := x.Extract(ctx, Request{Bucket: ref.Bucket, Key: ref.Key, TargetFolder: target})
	if err != nil {
		if m != nil && len(m.S3ExtractedUrls) > 0 {
			x.Log.WithField("uploaded", m.S3ExtractedUrls).Warn("extraction stopped after partial upload")
		}
		return event.Response{}, err
	}
	pp.Set(event.ParamS3InputFolder, ref.Folder())
	pp.Set(event.ParamZipExtracted, m)
	return event.OK(e), nil
}

// Extract expands the archive named by req. On failure it returns the members uploaded so far with the error.
// The scratch folder is always removed.
func (x *Extractor) Extract(ctx context.Context, req Request) (*event.Manifest, error) {
	if err := helper.ValidateStructIsPopulated(req); err != nil {
		return nil, err
	}
	log := x.Log.WithField("archive", fmt.Sprintf("s3://%v/%v", req.Bucket, req.Key))
	workDir, err := x.makeWorkDir()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			log.Warn("error removing work folder ", workDir, ": ", err)
		}
	}()
	bucket := x.OpenBucket(req.Bucket)
	// Download the archive.
	zipPath := filepath.Join(workDir, path.Base(req.Key))
	if err = download(ctx, bucket, req.Key, zipPath); err != nil {
		return nil, err
	}
	log.Info("downloaded archive to ", zipPath)
	archive, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, errkind.New(errkind.Configuration, "open archive "+req.Key, err)
	}
	defer archive.Close()
	// Gzip and upload each member.
	m := event.NewManifest()
	for _, member := range archive.File {
		if member.FileInfo().IsDir() {
			continue
		}
		tf, err := ResolveTableFolder(member.Name)
		if err != nil {
			return m, err
		}
		key := path.Join(req.TargetFolder, tf.Folder(), path.Base(member.Name)+".gz")
		if err = x.extractMember(ctx, bucket, member, workDir, key); err != nil {
			return m, errors.Wrapf(err, "error extracting member %v", member.Name)
		}
		url := s3.Object{Bucket: req.Bucket, Key: key}.URL()
		m.Add(tf.Table, tf.Partition, url)
		log.Info("uploaded ", member.Name, " to ", url)
	}
	return m, nil
}

func (x *Extractor) makeWorkDir() (string, error) {
	now := time.Now
	if x.Now != nil {
		now = x.Now
	}
	root := x.WorkRoot
	if root == "" {
		root = constants.DefaultWorkFolder
	}
	dir := filepath.Join(root, fmt.Sprintf("%v-%v", now().Format(constants.TimeFormatWorkFolder), xid.New()))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errkind.New(errkind.Configuration, "create work folder", err)
	}
	return dir, nil
}

// extractMember streams member through gzip into the work folder, uploads the result and removes it.
func (x *Extractor) extractMember(ctx context.Context, bucket Bucket, member *zip.File, workDir, key string) error {
	gzPath := filepath.Join(workDir, path.Base(member.Name)+".gz")
	defer os.Remove(gzPath)
	if err := compress(member, gzPath); err != nil {
		return err
	}
	f, err := os.Open(gzPath)
	if err != nil {
		return errkind.FromOS("open "+gzPath, err)
	}
	defer f.Close()
	return bucket.Upload(ctx, key, f)
}

func compress(member *zip.File, gzPath string) error {
	src, err := member.Open()
	if err != nil {
		return errkind.New(errkind.Configuration, "read member "+member.Name, err)
	}
	defer src.Close()
	dst, err := os.Create(gzPath)
	if err != nil {
		return errkind.FromOS("create "+gzPath, err)
	}
	defer dst.Close()
	gz := gzip.NewWriter(dst)
	gz.Name = path.Base(member.Name)
	gz.ModTime = member.Modified
	if _, err = io.Copy(gz, src); err != nil {
		return errors.Wrapf(err, "error compressing %v", member.Name)
	}
	if err = gz.Close(); err != nil {
		return errors.Wrapf(err, "error compressing %v", member.Name)
	}
	return dst.Close()
}

func download(ctx context.Context, bucket Bucket, key string, localPath string) error {
	f, err := os.Create(localPath)
	if err != nil {
		return errkind.FromOS("create "+localPath, err)
	}
	defer f.Close()
	if _, err = bucket.Download(ctx, key, f); err != nil {
		return err
	}
	return f.Close()
}
