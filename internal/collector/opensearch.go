package collector

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticsearchservice"
	estypes "github.com/aws/aws-sdk-go-v2/service/elasticsearchservice/types"
	"github.com/aws/aws-sdk-go-v2/service/opensearch"
	ostypes "github.com/aws/aws-sdk-go-v2/service/opensearch/types"
	"github.com/rs/zerolog/log"

	"github.com/skopaio/skopa/pkg/inventory"
)

// clusterDetail is the cluster shape of a domain, engine-generation neutral.
type clusterDetail struct {
	InstanceType           string
	InstanceCount          int32
	DedicatedMasterEnabled bool
	ZoneAwarenessEnabled   bool
}

// domainDetail carries both field generations of a domain describe. The
// current OpenSearch API populates EngineVersion/ClusterConfig; the legacy
// Elasticsearch API populates ElasticsearchVersion/ElasticsearchClusterConfig.
// Row building falls back from the current names to the legacy ones.
type domainDetail struct {
	DomainName                 string
	ARN                        string
	Endpoint                   string
	EngineVersion              string
	ElasticsearchVersion       string
	ClusterConfig              *clusterDetail
	ElasticsearchClusterConfig *clusterDetail
	Created                    bool
	Deleted                    bool
}

func (d domainDetail) engineVersion() string {
	if d.EngineVersion != "" {
		return d.EngineVersion
	}
	return d.ElasticsearchVersion
}

func (d domainDetail) cluster() clusterDetail {
	if d.ClusterConfig != nil {
		return *d.ClusterConfig
	}
	if d.ElasticsearchClusterConfig != nil {
		return *d.ElasticsearchClusterConfig
	}
	return clusterDetail{}
}

// CollectDomains lists the OpenSearch domains in the collector's region and
// describes each one. A domain whose describe call fails is skipped; a domain
// whose tag listing fails is kept with no tags.
func (c *Collector) CollectDomains(ctx context.Context) ([]inventory.Domain, error) {
	list, err := c.clients.OpenSearch.ListDomainNames(ctx, &opensearch.ListDomainNamesInput{})
	if err != nil {
		return nil, fmt.Errorf("list domain names: %w", err)
	}

	var rows []inventory.Domain
	for _, info := range list.DomainNames {
		name := aws.ToString(info.DomainName)

		detail, err := c.describeDomain(ctx, name, info.EngineType)
		if err != nil {
			log.Warn().Err(err).
				Str("region", c.region).
				Str("domain", name).
				Msg("describe domain failed, skipping")
			continue
		}

		tags, err := c.domainTags(ctx, detail.ARN)
		if err != nil {
			log.Debug().Err(err).
				Str("region", c.region).
				Str("domain", name).
				Msg("list tags failed, continuing without tags")
			tags = inventory.Tags{}
		}

		rows = append(rows, buildDomainRow(c.region, detail, tags))
	}
	return rows, nil
}

// describeDomain fetches domain details through the API generation matching
// the domain's engine. Legacy Elasticsearch domains go through the legacy
// service, which is where the legacy field names come from.
func (c *Collector) describeDomain(ctx context.Context, name string, engine ostypes.EngineType) (domainDetail, error) {
	if engine == ostypes.EngineTypeElasticsearch && c.clients.Elasticsearch != nil {
		output, err := c.clients.Elasticsearch.DescribeElasticsearchDomain(ctx, &elasticsearchservice.DescribeElasticsearchDomainInput{
			DomainName: aws.String(name),
		})
		if err != nil {
			return domainDetail{}, fmt.Errorf("describe elasticsearch domain: %w", err)
		}
		if output.DomainStatus == nil {
			return domainDetail{}, fmt.Errorf("describe elasticsearch domain %s: empty status", name)
		}
		return detailFromElasticsearchStatus(*output.DomainStatus), nil
	}

	output, err := c.clients.OpenSearch.DescribeDomain(ctx, &opensearch.DescribeDomainInput{
		DomainName: aws.String(name),
	})
	if err != nil {
		return domainDetail{}, fmt.Errorf("describe domain: %w", err)
	}
	if output.DomainStatus == nil {
		return domainDetail{}, fmt.Errorf("describe domain %s: empty status", name)
	}
	return detailFromDomainStatus(*output.DomainStatus), nil
}

func (c *Collector) domainTags(ctx context.Context, arn string) (inventory.Tags, error) {
	output, err := c.clients.OpenSearch.ListTags(ctx, &opensearch.ListTagsInput{
		ARN: aws.String(arn),
	})
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	tags := inventory.Tags{}
	for _, tag := range output.TagList {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return tags, nil
}

func detailFromDomainStatus(status ostypes.DomainStatus) domainDetail {
	d := domainDetail{
		DomainName:    aws.ToString(status.DomainName),
		ARN:           aws.ToString(status.ARN),
		Endpoint:      aws.ToString(status.Endpoint),
		EngineVersion: aws.ToString(status.EngineVersion),
		Created:       aws.ToBool(status.Created),
		Deleted:       aws.ToBool(status.Deleted),
	}
	if cfg := status.ClusterConfig; cfg != nil {
		d.ClusterConfig = &clusterDetail{
			InstanceType:           string(cfg.InstanceType),
			InstanceCount:          aws.ToInt32(cfg.InstanceCount),
			DedicatedMasterEnabled: aws.ToBool(cfg.DedicatedMasterEnabled),
			ZoneAwarenessEnabled:   aws.ToBool(cfg.ZoneAwarenessEnabled),
		}
	}
	return d
}

func detailFromElasticsearchStatus(status estypes.ElasticsearchDomainStatus) domainDetail {
	d := domainDetail{
		DomainName:           aws.ToString(status.DomainName),
		ARN:                  aws.ToString(status.ARN),
		Endpoint:             aws.ToString(status.Endpoint),
		ElasticsearchVersion: aws.ToString(status.ElasticsearchVersion),
		Created:              aws.ToBool(status.Created),
		Deleted:              aws.ToBool(status.Deleted),
	}
	if cfg := status.ElasticsearchClusterConfig; cfg != nil {
		d.ElasticsearchClusterConfig = &clusterDetail{
			InstanceType:           string(cfg.InstanceType),
			InstanceCount:          aws.ToInt32(cfg.InstanceCount),
			DedicatedMasterEnabled: aws.ToBool(cfg.DedicatedMasterEnabled),
			ZoneAwarenessEnabled:   aws.ToBool(cfg.ZoneAwarenessEnabled),
		}
	}
	return d
}

func buildDomainRow(region string, d domainDetail, tags inventory.Tags) inventory.Domain {
	cluster := d.cluster()
	return inventory.Domain{
		Region:                 region,
		DomainName:             d.DomainName,
		EngineVersion:          d.engineVersion(),
		Endpoint:               d.Endpoint,
		ARN:                    d.ARN,
		InstanceType:           cluster.InstanceType,
		InstanceCount:          cluster.InstanceCount,
		DedicatedMasterEnabled: cluster.DedicatedMasterEnabled,
		ZoneAwarenessEnabled:   cluster.ZoneAwarenessEnabled,
		Created:                d.Created,
		Deleted:                d.Deleted,
		Name:                   tags.Name(),
		Tags:                   tags,
	}
}
