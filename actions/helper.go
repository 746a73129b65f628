package actions

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"time"

	"github.com/relloyd/lakepipe/catalog"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/file"
	"github.com/relloyd/lakepipe/logger"
)

// Files is satisfied by *file.Store.
type Files interface {
	Get(ctx context.Context, uri string) ([]byte, error)
	Put(ctx context.Context, uri string, data []byte, mode file.PutMode) error
	Copy(ctx context.Context, src, dst string) error
	Move(ctx context.Context, src, dst string) error
	Delete(ctx context.Context, uri string) error
	List(ctx context.Context, uri string) ([]string, error)
}

// Catalog is satisfied by *catalog.Client.
type Catalog interface {
	GetTable(ctx context.Context, database, name string) (*catalog.Table, error)
	ListTables(ctx context.Context, database, pattern string) ([]*catalog.Table, error)
	CreateOrUpdateTable(ctx context.Context, database, name string, columns []catalog.Column, template catalog.TableTemplate) (catalog.Outcome, error)
	CreateOrUpdatePartition(ctx context.Context, database, table string, values []string) (catalog.Outcome, error)
	ListPartitions(ctx context.Context, database, table, pattern string) ([]catalog.Partition, error)
	DeletePartitions(ctx context.Context, database, table, pattern string) ([]catalog.Partition, error)
	CreateOrUpdateDatePartitions(ctx context.Context, database string, tables []string, layout string, r catalog.DateRange) (int, error)
}

// Env is what the command line utilities read from and write to.
type Env struct {
	Log     logger.Logger
	Files   Files
	Catalog Catalog
	In      io.Reader // read when no input location is given
	Out     io.Writer // written when no output location is given
}

// Env returns an Env over the pipeline's clients and the process's stdin and stdout.
func (p *Pipeline) Env() *Env {
	return &Env{Log: p.Log, Files: p.Files, Catalog: p.Catalog, In: os.Stdin, Out: os.Stdout}
}

// read returns the content at uri, or all of e.In if uri is empty.
func (e *Env) read(ctx context.Context, uri string) ([]byte, error) {
	if uri == "" {
		b, err := ioutil.ReadAll(e.In)
		if err != nil {
			return nil, errkind.New(errkind.Configuration, "read input", err)
		}
		return b, nil
	}
	return e.Files.Get(ctx, uri)
}

// write saves data at uri, or writes it to e.Out if uri is empty.
func (e *Env) write(ctx context.Context, uri string, data []byte) error {
	if uri == "" {
		_, err := e.Out.Write(data)
		return err
	}
	if err := e.Files.Put(ctx, uri, data, file.Overwrite); err != nil {
		return err
	}
	e.Log.Info("wrote ", uri)
	return nil
}

// writeJSON writes i as indented JSON followed by a new line.
func (e *Env) writeJSON(ctx context.Context, uri string, i interface{}) error {
	j, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return err
	}
	return e.write(ctx, uri, append(j, '\n'))
}

// parseDate parses a YYYY-MM-DD flag value. Empty values give the zero time.
func parseDate(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, errkind.Errorf(errkind.Configuration, "parse "+name, "expected YYYY-MM-DD, got %q", v)
	}
	return t, nil
}
