package catalog

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/glue"
	"github.com/relloyd/lakepipe/errkind"
)

// CreateOrUpdatePartition registers values as a partition of database.table.
// The partition copies the table's storage descriptor with its location extended by values[0]
// and carries the table's parameters. An existing partition is updated with the same input,
// so repeated calls leave the catalog in the same state.
func (c *Client) CreateOrUpdatePartition(ctx context.Context, database, table string, values []string) (Outcome, error) {
	op := fmt.Sprintf("register partition %v.%v %v", database, table, values)
	if len(values) == 0 || values[0] == "" {
		return "", errkind.Errorf(errkind.Configuration, op, "partition values are required")
	}
	t, err := c.getTable(ctx, database, table)
	if err != nil {
		return "", err
	}
	sd := &glue.StorageDescriptor{}
	if t.StorageDescriptor != nil {
		copied := *t.StorageDescriptor
		sd = &copied
	}
	sd.Location = aws.String(joinLocation(aws.StringValue(sd.Location), values[0]))
	input := &glue.PartitionInput{
		Values:            aws.StringSlice(values),
		StorageDescriptor: sd,
		Parameters:        t.Parameters,
	}
	_, err = c.API.CreatePartitionWithContext(ctx, &glue.CreatePartitionInput{
		DatabaseName:   aws.String(database),
		TableName:      aws.String(table),
		PartitionInput: input,
	})
	outcome := Created
	if errkind.Is(errkind.FromAWS(op, err), errkind.AlreadyExists) { // if the partition exists...
		_, err = c.API.UpdatePartitionWithContext(ctx, &glue.UpdatePartitionInput{
			DatabaseName:       aws.String(database),
			TableName:          aws.String(table),
			PartitionValueList: aws.StringSlice(values),
			PartitionInput:     input,
		})
		outcome = Updated
	}
	if err != nil {
		return "", errkind.FromAWS(op, err)
	}
	c.Log.Info("partition ", outcome, " for table ", database, ".", table, ": ", values, " at ", aws.StringValue(sd.Location))
	return outcome, nil
}
