package catalog

import (
	"context"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/glue"
	"github.com/ghodss/yaml"
	"github.com/relloyd/lakepipe/errkind"
	tabledefinition "github.com/relloyd/lakepipe/table-definition"
)

// ListTables returns every table in database whose name matches pattern. An empty pattern matches all.
func (c *Client) ListTables(ctx context.Context, database, pattern string) ([]*Table, error) {
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	retval := make([]*Table, 0)
	var token *string
	for {
		out, err := c.API.GetTablesWithContext(ctx, &glue.GetTablesInput{
			DatabaseName: aws.String(database),
			NextToken:    token,
		})
		if err != nil {
			return nil, errkind.FromAWS("list tables "+database, err)
		}
		for _, t := range out.TableList {
			if re.MatchString(aws.StringValue(t.Name)) {
				retval = append(retval, tableFromGlue(database, t))
			}
		}
		if aws.StringValue(out.NextToken) == "" { // if this was the last page...
			break
		}
		token = out.NextToken
	}
	return retval, nil
}

// TableTemplate is a JSON or YAML document of the form {"TableInput": {...}} holding the
// storage descriptor, serde and parameters shared by new tables.
type TableTemplate []byte

// tableInput parses a fresh copy of the template.
func (t TableTemplate) tableInput() (*glue.TableInput, error) {
	doc := struct {
		TableInput *glue.TableInput
	}{}
	if err := yaml.Unmarshal(t, &doc); err != nil {
		return nil, errkind.New(errkind.Configuration, "parse table template", err)
	}
	if doc.TableInput == nil {
		return nil, errkind.Errorf(errkind.Configuration, "parse table template", "template has no TableInput")
	}
	if doc.TableInput.StorageDescriptor == nil {
		doc.TableInput.StorageDescriptor = &glue.StorageDescriptor{}
	}
	return doc.TableInput, nil
}

// CreateOrUpdateTable defines database.name from template with the given columns.
// Source column types are mapped to Glue types and the location is the database
// LocationUri followed by the upper-cased table name.
func (c *Client) CreateOrUpdateTable(ctx context.Context, database, name string, columns []Column, template TableTemplate) (Outcome, error) {
	op := "create or update table " + database + "." + name
	input, err := template.tableInput()
	if err != nil {
		return "", err
	}
	db, err := c.API.GetDatabaseWithContext(ctx, &glue.GetDatabaseInput{Name: aws.String(database)})
	if err != nil {
		return "", errkind.FromAWS(op, err)
	}
	mapped := make([]Column, len(columns))
	for i, col := range columns {
		mapped[i] = col
		mapped[i].Type = tabledefinition.TdsToGlue.Map(col.Type)
	}
	input.Name = aws.String(name)
	input.StorageDescriptor.Columns = columnsToGlue(mapped)
	if db.Database != nil && aws.StringValue(db.Database.LocationUri) != "" {
		input.StorageDescriptor.Location = aws.String(joinLocation(aws.StringValue(db.Database.LocationUri), strings.ToUpper(name)) + "/")
	}
	_, err = c.API.CreateTableWithContext(ctx, &glue.CreateTableInput{
		DatabaseName: aws.String(database),
		TableInput:   input,
	})
	outcome := Created
	if errkind.Is(errkind.FromAWS(op, err), errkind.AlreadyExists) { // if the table exists...
		_, err = c.API.UpdateTableWithContext(ctx, &glue.UpdateTableInput{
			DatabaseName: aws.String(database),
			TableInput:   input,
		})
		outcome = Updated
	}
	if err != nil {
		return "", errkind.FromAWS(op, err)
	}
	c.Log.Info("table ", database, ".", name, " ", outcome)
	return outcome, nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		pattern = "."
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errkind.New(errkind.Configuration, "compile pattern", err)
	}
	return re, nil
}
