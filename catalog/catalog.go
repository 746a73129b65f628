// Package catalog reads and maintains tables and partitions in the Glue Data Catalog.
package catalog

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/glue"
	awsglue "github.com/relloyd/lakepipe/aws/glue"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/logger"
)

// Outcome reports whether a create-or-update call created or updated its target.
type Outcome string

const (
	Created Outcome = "Created"
	Updated Outcome = "Updated"
)

// Column is one column of a table schema.
type Column struct {
	Name       string            `json:"Name" yaml:"Name"`
	Type       string            `json:"Type" yaml:"Type"`
	Comment    string            `json:"Comment,omitempty" yaml:"Comment,omitempty"`
	Parameters map[string]string `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
}

// Table is the part of a Glue table the pipeline uses.
type Table struct {
	Database    string
	Name        string
	Description string
	Location    string
	Columns     []Column
	Parameters  map[string]string
}

// Partition is a registered partition of a table.
type Partition struct {
	Values   []string
	Location string
}

// Client wraps the Glue API.
type Client struct {
	API awsglue.CatalogAPI
	Log logger.Logger
}

// GetTable fetches database.name. A missing table is a NotFound error.
func (c *Client) GetTable(ctx context.Context, database, name string) (*Table, error) {
	out, err := c.getTable(ctx, database, name)
	if err != nil {
		return nil, err
	}
	return tableFromGlue(database, out), nil
}

func (c *Client) getTable(ctx context.Context, database, name string) (*glue.TableData, error) {
	out, err := c.API.GetTableWithContext(ctx, &glue.GetTableInput{
		DatabaseName: aws.String(database),
		Name:         aws.String(name),
	})
	if err != nil {
		return nil, errkind.FromAWS("get table "+database+"."+name, err)
	}
	if out.Table == nil {
		return nil, errkind.Errorf(errkind.NotFound, "get table "+database+"."+name, "empty response")
	}
	return out.Table, nil
}

func tableFromGlue(database string, t *glue.TableData) *Table {
	retval := &Table{
		Database:    database,
		Name:        aws.StringValue(t.Name),
		Description: aws.StringValue(t.Description),
		Parameters:  aws.StringValueMap(t.Parameters),
	}
	if t.StorageDescriptor != nil {
		retval.Location = aws.StringValue(t.StorageDescriptor.Location)
		retval.Columns = columnsFromGlue(t.StorageDescriptor.Columns)
	}
	return retval
}

func columnsFromGlue(cols []*glue.Column) []Column {
	retval := make([]Column, 0, len(cols))
	for _, c := range cols {
		col := Column{
			Name:    aws.StringValue(c.Name),
			Type:    aws.StringValue(c.Type),
			Comment: aws.StringValue(c.Comment),
		}
		if len(c.Parameters) > 0 {
			col.Parameters = aws.StringValueMap(c.Parameters)
		}
		retval = append(retval, col)
	}
	return retval
}

func columnsToGlue(cols []Column) []*glue.Column {
	retval := make([]*glue.Column, 0, len(cols))
	for _, c := range cols {
		col := &glue.Column{
			Name: aws.String(c.Name),
			Type: aws.String(c.Type),
		}
		if c.Comment != "" {
			col.Comment = aws.String(c.Comment)
		}
		if len(c.Parameters) > 0 {
			col.Parameters = aws.StringMap(c.Parameters)
		}
		retval = append(retval, col)
	}
	return retval
}

// joinLocation appends elem to an S3 location with exactly one slash between them.
func joinLocation(location, elem string) string {
	return strings.TrimRight(location, "/") + "/" + strings.Trim(elem, "/")
}
