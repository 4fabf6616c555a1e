package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectDBInstances(t *testing.T) {
	t.Run("converts instances with full details", func(t *testing.T) {
		client := &mockRDSClient{
			DescribeDBInstancesFunc: func(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
				return &rds.DescribeDBInstancesOutput{
					DBInstances: []rdstypes.DBInstance{
						{
							DBInstanceIdentifier: aws.String("orders-db"),
							DBInstanceClass:      aws.String("db.r6g.large"),
							Engine:               aws.String("postgres"),
							EngineVersion:        aws.String("15.4"),
							DBInstanceStatus:     aws.String("available"),
							Endpoint:             &rdstypes.Endpoint{Address: aws.String("orders.abc.eu-west-1.rds.amazonaws.com")},
							AvailabilityZone:     aws.String("eu-west-1b"),
							StorageType:          aws.String("gp3"),
							AllocatedStorage:     aws.Int32(200),
							TagList: []rdstypes.Tag{
								{Key: aws.String("team"), Value: aws.String("payments")},
								{Key: aws.String("Name"), Value: aws.String("orders")},
							},
						},
					},
				}, nil
			},
		}
		c := New("eu-west-1", Clients{RDS: client})

		rows, err := c.CollectDBInstances(context.Background())

		require.NoError(t, err)
		require.Len(t, rows, 1)
		db := rows[0]
		assert.Equal(t, "eu-west-1", db.Region)
		assert.Equal(t, "orders-db", db.Identifier)
		assert.Equal(t, "db.r6g.large", db.InstanceClass)
		assert.Equal(t, "postgres", db.Engine)
		assert.Equal(t, "15.4", db.EngineVersion)
		assert.Equal(t, "available", db.Status)
		assert.Equal(t, "orders.abc.eu-west-1.rds.amazonaws.com", db.Endpoint)
		assert.Equal(t, "gp3", db.StorageType)
		assert.Equal(t, int32(200), db.AllocatedStorage)
		assert.Equal(t, "orders", db.Name)
	})

	t.Run("instance without endpoint or Name tag", func(t *testing.T) {
		client := &mockRDSClient{
			DescribeDBInstancesFunc: func(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
				return &rds.DescribeDBInstancesOutput{
					DBInstances: []rdstypes.DBInstance{
						{
							DBInstanceIdentifier: aws.String("creating-db"),
							DBInstanceStatus:     aws.String("creating"),
							TagList: []rdstypes.Tag{
								{Key: aws.String("env"), Value: aws.String("dev")},
							},
						},
					},
				}, nil
			},
		}
		c := New("us-east-1", Clients{RDS: client})

		rows, err := c.CollectDBInstances(context.Background())

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Empty(t, rows[0].Endpoint)
		assert.Empty(t, rows[0].Name)
	})

	t.Run("returns error when listing fails", func(t *testing.T) {
		client := &mockRDSClient{
			DescribeDBInstancesFunc: func(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
				return nil, errors.New("AccessDenied")
			},
		}
		c := New("us-east-1", Clients{RDS: client})

		rows, err := c.CollectDBInstances(context.Background())

		require.Error(t, err)
		assert.Nil(t, rows)
	})
}
