package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/glue"
	"github.com/relloyd/lakepipe/logger"
)

// fakeGlue is an in-memory catalog with pages of pageSize.
type fakeGlue struct {
	databases  map[string]*glue.Database
	tables     map[string]*glue.TableData
	partitions map[string]*glue.PartitionInput
	order      []string
	pageSize   int
	creates    int
	updates    int
	failDelete string
}

func newFakeGlue() *fakeGlue {
	return &fakeGlue{
		databases:  make(map[string]*glue.Database),
		tables:     make(map[string]*glue.TableData),
		partitions: make(map[string]*glue.PartitionInput),
		pageSize:   2,
	}
}

func tableKey(db, table string) string { return db + "." + table }

func partitionKey(db, table string, values []*string) string {
	return tableKey(db, table) + "/" + strings.Join(aws.StringValueSlice(values), ",")
}

func (f *fakeGlue) addTable(db, name, location string, cols ...*glue.Column) {
	f.tables[tableKey(db, name)] = &glue.TableData{
		Name:         aws.String(name),
		DatabaseName: aws.String(db),
		Parameters:   aws.StringMap(map[string]string{"classification": "parquet"}),
		StorageDescriptor: &glue.StorageDescriptor{
			Location:     aws.String(location),
			Columns:      cols,
			InputFormat:  aws.String("org.apache.hadoop.hive.ql.io.parquet.MapredParquetInputFormat"),
			OutputFormat: aws.String("org.apache.hadoop.hive.ql.io.parquet.MapredParquetOutputFormat"),
		},
	}
	f.order = append(f.order, tableKey(db, name))
}

func notFound() error {
	return awserr.New(glue.ErrCodeEntityNotFoundException, "not found", nil)
}

func (f *fakeGlue) GetDatabaseWithContext(_ aws.Context, in *glue.GetDatabaseInput, _ ...request.Option) (*glue.GetDatabaseOutput, error) {
	db, ok := f.databases[*in.Name]
	if !ok {
		return nil, notFound()
	}
	return &glue.GetDatabaseOutput{Database: db}, nil
}

func (f *fakeGlue) GetTableWithContext(_ aws.Context, in *glue.GetTableInput, _ ...request.Option) (*glue.GetTableOutput, error) {
	t, ok := f.tables[tableKey(*in.DatabaseName, *in.Name)]
	if !ok {
		return nil, notFound()
	}
	return &glue.GetTableOutput{Table: t}, nil
}

func (f *fakeGlue) GetTablesWithContext(_ aws.Context, in *glue.GetTablesInput, _ ...request.Option) (*glue.GetTablesOutput, error) {
	keys := make([]string, 0)
	for _, k := range f.order {
		if strings.HasPrefix(k, *in.DatabaseName+".") {
			keys = append(keys, k)
		}
	}
	start, end, next := page(len(keys), in.NextToken, f.pageSize)
	out := &glue.GetTablesOutput{NextToken: next}
	for _, k := range keys[start:end] {
		out.TableList = append(out.TableList, f.tables[k])
	}
	return out, nil
}

func (f *fakeGlue) CreateTableWithContext(_ aws.Context, in *glue.CreateTableInput, _ ...request.Option) (*glue.CreateTableOutput, error) {
	k := tableKey(*in.DatabaseName, *in.TableInput.Name)
	if _, ok := f.tables[k]; ok {
		return nil, awserr.New(glue.ErrCodeAlreadyExistsException, "exists", nil)
	}
	f.putTable(*in.DatabaseName, in.TableInput)
	f.order = append(f.order, k)
	f.creates++
	return &glue.CreateTableOutput{}, nil
}

func (f *fakeGlue) UpdateTableWithContext(_ aws.Context, in *glue.UpdateTableInput, _ ...request.Option) (*glue.UpdateTableOutput, error) {
	if _, ok := f.tables[tableKey(*in.DatabaseName, *in.TableInput.Name)]; !ok {
		return nil, notFound()
	}
	f.putTable(*in.DatabaseName, in.TableInput)
	f.updates++
	return &glue.UpdateTableOutput{}, nil
}

func (f *fakeGlue) putTable(db string, in *glue.TableInput) {
	f.tables[tableKey(db, *in.Name)] = &glue.TableData{
		Name:              in.Name,
		DatabaseName:      aws.String(db),
		Description:       in.Description,
		Parameters:        in.Parameters,
		StorageDescriptor: in.StorageDescriptor,
	}
}

func (f *fakeGlue) CreatePartitionWithContext(_ aws.Context, in *glue.CreatePartitionInput, _ ...request.Option) (*glue.CreatePartitionOutput, error) {
	if _, ok := f.tables[tableKey(*in.DatabaseName, *in.TableName)]; !ok {
		return nil, notFound()
	}
	k := partitionKey(*in.DatabaseName, *in.TableName, in.PartitionInput.Values)
	if _, ok := f.partitions[k]; ok {
		return nil, awserr.New(glue.ErrCodeAlreadyExistsException, "exists", nil)
	}
	f.partitions[k] = in.PartitionInput
	f.creates++
	return &glue.CreatePartitionOutput{}, nil
}

func (f *fakeGlue) UpdatePartitionWithContext(_ aws.Context, in *glue.UpdatePartitionInput, _ ...request.Option) (*glue.UpdatePartitionOutput, error) {
	k := partitionKey(*in.DatabaseName, *in.TableName, in.PartitionValueList)
	if _, ok := f.partitions[k]; !ok {
		return nil, notFound()
	}
	f.partitions[k] = in.PartitionInput
	f.updates++
	return &glue.UpdatePartitionOutput{}, nil
}

func (f *fakeGlue) GetPartitionsWithContext(_ aws.Context, in *glue.GetPartitionsInput, _ ...request.Option) (*glue.GetPartitionsOutput, error) {
	prefix := tableKey(*in.DatabaseName, *in.TableName) + "/"
	keys := make([]string, 0)
	for k := range f.partitions {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	start, end, next := page(len(keys), in.NextToken, f.pageSize)
	out := &glue.GetPartitionsOutput{NextToken: next}
	for _, k := range keys[start:end] {
		p := f.partitions[k]
		out.Partitions = append(out.Partitions, &glue.Partition{Values: p.Values, StorageDescriptor: p.StorageDescriptor})
	}
	return out, nil
}

func (f *fakeGlue) DeletePartitionWithContext(_ aws.Context, in *glue.DeletePartitionInput, _ ...request.Option) (*glue.DeletePartitionOutput, error) {
	k := partitionKey(*in.DatabaseName, *in.TableName, in.PartitionValues)
	if aws.StringValue(in.PartitionValues[0]) == f.failDelete {
		return nil, awserr.New("InternalServiceException", "boom", nil)
	}
	delete(f.partitions, k)
	return &glue.DeletePartitionOutput{}, nil
}

// page returns the bounds of the page starting at token, an index encoded as a string.
func page(n int, token *string, size int) (start, end int, next *string) {
	if token != nil {
		for i := 0; i < n; i++ {
			if strconv.Itoa(i) == *token {
				start = i
			}
		}
	}
	end = start + size
	if end >= n {
		return start, n, nil
	}
	return start, end, aws.String(strconv.Itoa(end))
}

func newTestClient(api *fakeGlue) *Client {
	return &Client{API: api, Log: logger.NewLogger("lakepipe-test", "error", false)}
}
