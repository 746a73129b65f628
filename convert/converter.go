// Package convert turns extracted CSV partitions into snappy Parquet files and registers them in the catalog.
package convert

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/catalog"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/event"
	"github.com/relloyd/lakepipe/file"
	"github.com/relloyd/lakepipe/helper"
	"github.com/relloyd/lakepipe/logger"
	"github.com/rs/xid"
	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type TableGetter interface {
	GetTable(ctx context.Context, database, name string) (*catalog.Table, error)
}

type PartitionRegistrar interface {
	CreateOrUpdatePartition(ctx context.Context, database, table string, values []string) (catalog.Outcome, error)
}

// FileStore is satisfied by *file.Store.
type FileStore interface {
	List(ctx context.Context, uri string) ([]string, error)
	Get(ctx context.Context, uri string) ([]byte, error)
	Put(ctx context.Context, uri string, data []byte, mode file.PutMode) error
}

// Converter converts the partitions of a Job.
type Converter struct {
	Log         logger.Logger
	Catalog     TableGetter
	Files       FileStore
	Registrar   PartitionRegistrar
	NewPartName func() string // defaults to part-<xid>.snappy.parquet
}

// Job names the tables and partitions to convert.
// Input and Output are s3:// or file:// folders holding <table>/<partition>/ subfolders.
type Job struct {
	Database   string   `errorTxt:"GlueDatabaseName" mandatory:"yes"`
	Input      string   `errorTxt:"input location" mandatory:"yes"`
	Output     string   `errorTxt:"output location" mandatory:"yes"`
	Tables     []string `errorTxt:"GlueTableNames" mandatory:"yes"`
	Partitions []string `errorTxt:"PartitionFolders" mandatory:"yes"`
}

// JobFromParams builds a Job from process_parms.
// The input folder is S3LandingPadInput, falling back to S3ExtractFolder and then S3InputFolder.
func JobFromParams(p event.ProcessParms) Job {
	input := p.S3LandingPadInput
	if input == "" {
		input = p.S3ExtractFolder
	}
	if input == "" {
		input = p.S3InputFolder
	}
	return Job{
		Database:   p.GlueDatabaseName,
		Input:      file.Location{Scheme: constants.SchemeS3, Bucket: p.S3LandingPadBucket, Key: strings.Trim(input, "/")}.String(),
		Output:     file.Location{Scheme: constants.SchemeS3, Bucket: p.S3DatalakeBucket, Key: strings.Trim(p.S3DatalakeOutput, "/")}.String(),
		Tables:     p.ZipExtracted.GlueTableNames,
		Partitions: p.ZipExtracted.PartitionFolders,
	}
}

// Output describes one Parquet file written by Run.
type Output struct {
	Table     string
	Partition string
	Location  string
	Rows      int
	Outcome   catalog.Outcome
}

// Handle converts the partitions named by the event's process_parms and records the written files
// in process_parms.Converted.
func (c *Converter) Handle(ctx context.Context, e event.Event) (event.Response, error) {
	pp := e.Params(event.KeyProcessParms)
	parms := event.ProcessParms{}
	if err := pp.Decode(&parms); err != nil {
		return event.Response{}, err
	}
	if err := helper.ValidateStructIsPopulated(parms); err != nil {
		return event.Response{}, err
	}
	outputs, err := c.Run(ctx, JobFromParams(parms))
	if err != nil {
		return event.Response{}, err
	}
	converted := make([]string, 0, len(outputs))
	for _, o := range outputs {
		converted = append(converted, o.Location)
	}
	pp.Set(event.ParamConverted, converted)
	return event.OK(e), nil
}

// Run converts every partition of every table in job. Table and partition names are de-duplicated.
// Partitions without input files or rows are skipped with a warning and are not registered.
func (c *Converter) Run(ctx context.Context, job Job) ([]Output, error) {
	if err := helper.ValidateStructIsPopulated(job); err != nil {
		return nil, err
	}
	in, err := file.ParseLocation(job.Input)
	if err != nil {
		return nil, err
	}
	out, err := file.ParseLocation(job.Output)
	if err != nil {
		return nil, err
	}
	retval := make([]Output, 0)
	for _, table := range helper.UniqueStrings(job.Tables) { // for each table...
		t, err := c.Catalog.GetTable(ctx, job.Database, table)
		if err != nil {
			return retval, err
		}
		sch, err := newParquetSchema(t.Columns)
		if err != nil {
			return retval, errors.Wrapf(err, "table %v.%v", job.Database, table)
		}
		log := c.Log.WithField("table", table)
		for _, partition := range helper.UniqueStrings(job.Partitions) { // for each partition...
			o, err := c.convertPartition(ctx, log, sch, in.Join(table, partition+"/"), out.Join(table, partition+"/"))
			if err != nil {
				return retval, errors.Wrapf(err, "convert %v/%v", table, partition)
			}
			if o == nil {
				continue
			}
			o.Table, o.Partition = table, partition
			if o.Outcome, err = c.Registrar.CreateOrUpdatePartition(ctx, job.Database, table, []string{partition}); err != nil {
				return retval, err
			}
			retval = append(retval, *o)
		}
	}
	return retval, nil
}

// convertPartition writes one Parquet file holding the rows of every file under in.
// It returns nil when there is nothing to convert.
func (c *Converter) convertPartition(ctx context.Context, log logger.Logger, sch parquetSchema, in, out file.Location) (*Output, error) {
	uris, err := c.Files.List(ctx, in.String())
	if errkind.Is(err, errkind.NotFound) || (err == nil && len(uris) == 0) {
		log.Warn("no input files found in ", in.String(), ", skipping partition")
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	pf := writerfile.NewWriterFile(buf)
	pw, err := writer.NewCSVWriter(sch.metadata(), pf, 1)
	if err != nil {
		return nil, errkind.New(errkind.Configuration, "create parquet writer", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	rows := 0
	for _, uri := range uris { // for each input file...
		n, err := c.writeFile(ctx, pw, sch, uri)
		if err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
		log.Debug("read ", n, " rows from ", uri)
		rows += n
	}
	if err = pw.WriteStop(); err != nil {
		return nil, errkind.New(errkind.Unknown, "write parquet", err)
	}
	_ = pf.Close()
	if rows == 0 {
		log.Warn("no rows found in ", in.String(), ", skipping partition")
		return nil, nil
	}
	name := c.partName()
	dst := out.Join(name).String()
	if err = c.Files.Put(ctx, dst, buf.Bytes(), file.Overwrite); err != nil {
		return nil, err
	}
	log.Info("wrote ", rows, " rows to ", dst)
	return &Output{Location: dst, Rows: rows}, nil
}

// writeFile reads one CSV file, gzip compressed when its name ends in .gz, and writes its rows to pw.
// Header names are matched to columns without regard to case. Columns missing from the header are null.
func (c *Converter) writeFile(ctx context.Context, pw *writer.CSVWriter, sch parquetSchema, uri string) (int, error) {
	data, err := c.Files.Get(ctx, uri)
	if err != nil {
		return 0, err
	}
	var r io.Reader = bytes.NewReader(data)
	if strings.HasSuffix(strings.ToLower(uri), ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return 0, errkind.New(errkind.Configuration, "decompress "+uri, err)
		}
		defer gz.Close()
		r = gz
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err == io.EOF {
		return 0, nil
	} else if err != nil {
		return 0, errkind.New(errkind.Configuration, "read "+uri, err)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	idx := make([]int, len(sch))
	for i, col := range sch {
		idx[i] = -1
		if p, ok := pos[strings.ToLower(col.name)]; ok {
			idx[i] = p
		}
	}
	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return rows, errkind.New(errkind.Configuration, "read "+uri, err)
		}
		values := make([]interface{}, len(sch))
		for i, col := range sch {
			if idx[i] < 0 || idx[i] >= len(rec) {
				continue
			}
			if values[i], err = col.cast(rec[idx[i]]); err != nil {
				return rows, errors.Wrapf(err, "%v line %v", uri, rows+2)
			}
		}
		if err = pw.Write(values); err != nil {
			return rows, errkind.New(errkind.Configuration, "write parquet row", err)
		}
		rows++
	}
	return rows, nil
}

func (c *Converter) partName() string {
	if c.NewPartName != nil {
		return c.NewPartName()
	}
	return "part-" + xid.New().String() + ".snappy.parquet"
}
