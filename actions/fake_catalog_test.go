package actions

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/relloyd/lakepipe/catalog"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/file"
	"github.com/relloyd/lakepipe/logger"
)

type crupCall struct {
	Database string
	Name     string
	Columns  []catalog.Column
	Template string
}

// fakeCatalog records calls and serves canned tables and partitions.
type fakeCatalog struct {
	tables     map[string]*catalog.Table
	partitions []catalog.Partition
	crups      []crupCall
	partCrups  [][]string
	dateRanges []catalog.DateRange
	deleteErr  error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{tables: make(map[string]*catalog.Table)}
}

func (f *fakeCatalog) GetTable(ctx context.Context, database, name string) (*catalog.Table, error) {
	t, ok := f.tables[database+"."+name]
	if !ok {
		return nil, errkind.Errorf(errkind.NotFound, "get table", "table %v.%v not found", database, name)
	}
	return t, nil
}

func (f *fakeCatalog) ListTables(ctx context.Context, database, pattern string) ([]*catalog.Table, error) {
	retval := make([]*catalog.Table, 0)
	for _, t := range f.tables {
		if t.Database == database && strings.Contains(t.Name, pattern) {
			retval = append(retval, t)
		}
	}
	return retval, nil
}

func (f *fakeCatalog) CreateOrUpdateTable(ctx context.Context, database, name string, columns []catalog.Column, template catalog.TableTemplate) (catalog.Outcome, error) {
	f.crups = append(f.crups, crupCall{Database: database, Name: name, Columns: columns, Template: string(template)})
	return catalog.Created, nil
}

func (f *fakeCatalog) CreateOrUpdatePartition(ctx context.Context, database, table string, values []string) (catalog.Outcome, error) {
	f.partCrups = append(f.partCrups, values)
	return catalog.Updated, nil
}

func (f *fakeCatalog) ListPartitions(ctx context.Context, database, table, pattern string) ([]catalog.Partition, error) {
	return f.partitions, nil
}

func (f *fakeCatalog) DeletePartitions(ctx context.Context, database, table, pattern string) ([]catalog.Partition, error) {
	return f.partitions, f.deleteErr
}

func (f *fakeCatalog) CreateOrUpdateDatePartitions(ctx context.Context, database string, tables []string, layout string, r catalog.DateRange) (int, error) {
	f.dateRanges = append(f.dateRanges, r)
	return len(tables) * (int(r.End.Sub(r.Begin).Hours()/24) + 1), nil
}

// newTestEnv returns an Env over local files with in and out buffers.
func newTestEnv(cat Catalog, in string) (*Env, *bytes.Buffer) {
	log := logger.NewLogger("lakepipe-test", "error", false)
	out := &bytes.Buffer{}
	return &Env{
		Log:     log,
		Files:   &file.Store{Log: log},
		Catalog: cat,
		In:      strings.NewReader(in),
		Out:     out,
	}, out
}

func fileUri(path string) string {
	return fmt.Sprintf("file://%v", path)
}
