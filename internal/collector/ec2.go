package collector

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/skopaio/skopa/pkg/inventory"
)

// CollectInstances lists the EC2 instances in the collector's region.
// Instances arrive nested inside reservations and are flattened to one row
// per instance.
func (c *Collector) CollectInstances(ctx context.Context) ([]inventory.Instance, error) {
	output, err := c.clients.EC2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{})
	if err != nil {
		return nil, fmt.Errorf("describe instances: %w", err)
	}

	var rows []inventory.Instance
	for _, reservation := range output.Reservations {
		for _, instance := range reservation.Instances {
			rows = append(rows, c.convertInstance(instance))
		}
	}
	return rows, nil
}

func (c *Collector) convertInstance(instance ec2types.Instance) inventory.Instance {
	tags := ec2TagMap(instance.Tags)

	row := inventory.Instance{
		Region:       c.region,
		InstanceID:   aws.ToString(instance.InstanceId),
		InstanceType: string(instance.InstanceType),
		LaunchTime:   naiveUTC(instance.LaunchTime),
		PublicIP:     aws.ToString(instance.PublicIpAddress),
		PrivateIP:    aws.ToString(instance.PrivateIpAddress),
		Name:         tags.Name(),
		Tags:         tags,
	}
	if instance.State != nil {
		row.State = string(instance.State.Name)
	}
	if instance.Placement != nil {
		row.AvailabilityZone = aws.ToString(instance.Placement.AvailabilityZone)
	}
	return row
}

func ec2TagMap(tags []ec2types.Tag) inventory.Tags {
	m := inventory.Tags{}
	for _, tag := range tags {
		m[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return m
}
