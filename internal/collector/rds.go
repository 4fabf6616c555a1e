package collector

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/skopaio/skopa/pkg/inventory"
)

// CollectDBInstances lists the RDS database instances in the collector's
// region.
func (c *Collector) CollectDBInstances(ctx context.Context) ([]inventory.DBInstance, error) {
	output, err := c.clients.RDS.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{})
	if err != nil {
		return nil, fmt.Errorf("describe db instances: %w", err)
	}

	var rows []inventory.DBInstance
	for _, db := range output.DBInstances {
		rows = append(rows, c.convertDBInstance(db))
	}
	return rows, nil
}

func (c *Collector) convertDBInstance(db rdstypes.DBInstance) inventory.DBInstance {
	row := inventory.DBInstance{
		Region:           c.region,
		Identifier:       aws.ToString(db.DBInstanceIdentifier),
		InstanceClass:    aws.ToString(db.DBInstanceClass),
		Engine:           aws.ToString(db.Engine),
		EngineVersion:    aws.ToString(db.EngineVersion),
		Status:           aws.ToString(db.DBInstanceStatus),
		AvailabilityZone: aws.ToString(db.AvailabilityZone),
		StorageType:      aws.ToString(db.StorageType),
		AllocatedStorage: aws.ToInt32(db.AllocatedStorage),
		Name:             nameFromTagList(db.TagList),
	}
	if db.Endpoint != nil {
		row.Endpoint = aws.ToString(db.Endpoint.Address)
	}
	return row
}

// nameFromTagList searches an RDS tag list for the Name tag. RDS returns
// tags as a list of key/value pairs rather than a map.
func nameFromTagList(tags []rdstypes.Tag) string {
	for _, tag := range tags {
		if aws.ToString(tag.Key) == "Name" {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}
