package collector

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// Opt-in statuses that make a region eligible for scanning.
const (
	optInNotRequired = "opt-in-not-required"
	optedIn          = "opted-in"
)

// DiscoverRegions lists all regions the account can use, in the order the API
// returns them. Regions that are not opted in are excluded. Failure here is
// fatal to a run: without the region list there is nothing to scan.
func DiscoverRegions(ctx context.Context, client RegionsAPI) ([]string, error) {
	output, err := client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		AllRegions: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("describe regions: %w", err)
	}

	var regions []string
	for _, r := range output.Regions {
		switch aws.ToString(r.OptInStatus) {
		case optInNotRequired, optedIn:
			regions = append(regions, aws.ToString(r.RegionName))
		}
	}
	return regions, nil
}
