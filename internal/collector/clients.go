package collector

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticsearchservice"
	"github.com/aws/aws-sdk-go-v2/service/opensearch"
	"github.com/aws/aws-sdk-go-v2/service/rds"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
)

// Clients bundles the per-region service clients a Collector needs.
type Clients struct {
	EC2           EC2API
	RDS           RDSAPI
	OpenSearch    OpenSearchAPI
	Elasticsearch ElasticsearchAPI
}

// ClientFactory hands out clients bound to a region. Threading the factory
// through explicitly keeps region selection out of hidden global state.
type ClientFactory interface {
	// Regions returns a client for region discovery, bound to the
	// reference region.
	Regions(ctx context.Context) (RegionsAPI, error)

	// ForRegion returns service clients bound to the given region.
	ForRegion(ctx context.Context, region string) (Clients, error)
}

// SDKClientFactory builds real AWS SDK clients from the default credential
// chain. The base config is loaded once; per-region clients share it.
type SDKClientFactory struct {
	base            awssdk.Config
	referenceRegion string
}

// NewSDKClientFactory loads the default AWS config bound to the reference
// region used for region discovery.
func NewSDKClientFactory(ctx context.Context, referenceRegion string) (*SDKClientFactory, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(referenceRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SDKClientFactory{base: cfg, referenceRegion: referenceRegion}, nil
}

// Regions returns an EC2 client in the reference region.
func (f *SDKClientFactory) Regions(ctx context.Context) (RegionsAPI, error) {
	return ec2.NewFromConfig(f.base), nil
}

// ForRegion returns service clients for one region.
func (f *SDKClientFactory) ForRegion(ctx context.Context, region string) (Clients, error) {
	cfg := f.base.Copy()
	cfg.Region = region

	return Clients{
		EC2:           ec2.NewFromConfig(cfg),
		RDS:           rds.NewFromConfig(cfg),
		OpenSearch:    opensearch.NewFromConfig(cfg),
		Elasticsearch: elasticsearchservice.NewFromConfig(cfg),
	}, nil
}
