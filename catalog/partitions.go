package catalog

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/glue"
	"github.com/hashicorp/go-multierror"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/errkind"
)

// ListPartitions returns the partitions of database.table whose first value matches pattern.
func (c *Client) ListPartitions(ctx context.Context, database, table, pattern string) ([]Partition, error) {
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	retval := make([]Partition, 0)
	var token *string
	for {
		out, err := c.API.GetPartitionsWithContext(ctx, &glue.GetPartitionsInput{
			DatabaseName: aws.String(database),
			TableName:    aws.String(table),
			NextToken:    token,
		})
		if err != nil {
			return nil, errkind.FromAWS("list partitions "+database+"."+table, err)
		}
		for _, p := range out.Partitions {
			values := aws.StringValueSlice(p.Values)
			if len(values) == 0 || !re.MatchString(values[0]) {
				continue
			}
			part := Partition{Values: values}
			if p.StorageDescriptor != nil {
				part.Location = aws.StringValue(p.StorageDescriptor.Location)
			}
			retval = append(retval, part)
		}
		if aws.StringValue(out.NextToken) == "" { // if this was the last page...
			break
		}
		token = out.NextToken
	}
	return retval, nil
}

// DeletePartitions deletes the partitions of database.table whose first value matches pattern.
// It carries on past individual failures and returns the partitions it deleted with any errors combined.
func (c *Client) DeletePartitions(ctx context.Context, database, table, pattern string) ([]Partition, error) {
	parts, err := c.ListPartitions(ctx, database, table, pattern)
	if err != nil {
		return nil, err
	}
	var result *multierror.Error
	deleted := make([]Partition, 0, len(parts))
	for _, p := range parts {
		_, err = c.API.DeletePartitionWithContext(ctx, &glue.DeletePartitionInput{
			DatabaseName:    aws.String(database),
			TableName:       aws.String(table),
			PartitionValues: aws.StringSlice(p.Values),
		})
		if err != nil {
			result = multierror.Append(result, errkind.FromAWS("delete partition "+database+"."+table, err))
			continue
		}
		c.Log.Info("deleted partition ", p.Values, " of ", database, ".", table)
		deleted = append(deleted, p)
	}
	return deleted, result.ErrorOrNil()
}

// DateRange is an inclusive range of days.
type DateRange struct {
	Begin time.Time
	End   time.Time
}

// CreateOrUpdateDatePartitions registers one partition per day in r for each table, named with layout
// (default constants.TimeFormatDatePartition). An empty table list means every table in database.
// A zero Begin means today and a zero End means Begin.
func (c *Client) CreateOrUpdateDatePartitions(ctx context.Context, database string, tables []string, layout string, r DateRange) (int, error) {
	if layout == "" {
		layout = constants.TimeFormatDatePartition
	}
	if len(tables) == 0 { // if no tables were given default to all tables in the database...
		all, err := c.ListTables(ctx, database, "")
		if err != nil {
			return 0, err
		}
		for _, t := range all {
			tables = append(tables, t.Name)
		}
	}
	begin := r.Begin
	if begin.IsZero() {
		begin = time.Now()
	}
	begin = time.Date(begin.Year(), begin.Month(), begin.Day(), 0, 0, 0, 0, begin.Location())
	end := r.End
	if end.IsZero() {
		end = begin
	}
	if end.Before(begin) {
		return 0, errkind.Errorf(errkind.Configuration, "date partitions", "end date %v is before begin date %v",
			end.Format("2006-01-02"), begin.Format("2006-01-02"))
	}
	count := 0
	for day := begin; !day.After(end); day = day.AddDate(0, 0, 1) {
		for _, t := range tables {
			if _, err := c.CreateOrUpdatePartition(ctx, database, t, []string{day.Format(layout)}); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
