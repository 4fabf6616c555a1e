// Package scanner drives region discovery and per-region collection.
package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skopaio/skopa/internal/collector"
	"github.com/skopaio/skopa/internal/telemetry"
	"github.com/skopaio/skopa/pkg/inventory"
)

// Options controls what a run scans and how.
type Options struct {
	// Regions pins the region list. Empty means discover via the API.
	Regions []string

	// Workers bounds parallel region collection. 0 or 1 is sequential.
	Workers int

	// Per-kind toggles.
	EC2        bool
	RDS        bool
	OpenSearch bool
}

// Scanner runs the full inventory: discover regions, collect every kind in
// every region, aggregate account-wide.
type Scanner struct {
	factory collector.ClientFactory
	metrics *telemetry.Metrics
	opts    Options
}

// New creates a scanner.
func New(factory collector.ClientFactory, metrics *telemetry.Metrics, opts Options) *Scanner {
	return &Scanner{factory: factory, metrics: metrics, opts: opts}
}

// regionResult buffers one region's rows so parallel collection can merge
// them back in region order.
type regionResult struct {
	instances   []inventory.Instance
	dbInstances []inventory.DBInstance
	domains     []inventory.Domain
	outcomes    []inventory.RegionOutcome
}

// Run executes the scan and returns the aggregated report. Region discovery
// failure is fatal; everything past it degrades per region and per kind.
func (s *Scanner) Run(ctx context.Context) (*inventory.Report, error) {
	regions := s.opts.Regions
	if len(regions) == 0 {
		client, err := s.factory.Regions(ctx)
		if err != nil {
			return nil, fmt.Errorf("create regions client: %w", err)
		}
		regions, err = collector.DiscoverRegions(ctx, client)
		if err != nil {
			return nil, fmt.Errorf("discover regions: %w", err)
		}
	}
	log.Info().Int("regions", len(regions)).Msg("scanning regions")

	results := make([]regionResult, len(regions))
	if s.opts.Workers > 1 {
		s.collectParallel(ctx, regions, results)
	} else {
		for i, region := range regions {
			results[i] = s.collectRegion(ctx, region)
		}
	}

	report := &inventory.Report{Regions: regions}
	instanceTables := make([][]inventory.Instance, len(results))
	dbTables := make([][]inventory.DBInstance, len(results))
	domainTables := make([][]inventory.Domain, len(results))
	for i, r := range results {
		instanceTables[i] = r.instances
		dbTables[i] = r.dbInstances
		domainTables[i] = r.domains
		report.Outcomes = append(report.Outcomes, r.outcomes...)
	}
	report.Instances = inventory.Concat(instanceTables)
	report.DBInstances = inventory.Concat(dbTables)
	report.Domains = inventory.Concat(domainTables)

	log.Info().
		Int("ec2_instances", len(report.Instances)).
		Int("rds_instances", len(report.DBInstances)).
		Int("opensearch_domains", len(report.Domains)).
		Int("failed_listings", len(report.Failed())).
		Msg("scan complete")
	return report, nil
}

// collectParallel fans regions out over a bounded worker pool. Each region
// writes only its own slot, so the merged output matches the sequential path.
func (s *Scanner) collectParallel(ctx context.Context, regions []string, results []regionResult) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.opts.Workers)

	for i, region := range regions {
		wg.Add(1)
		go func(i int, region string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = s.collectRegion(ctx, region)
		}(i, region)
	}
	wg.Wait()
}

func (s *Scanner) collectRegion(ctx context.Context, region string) regionResult {
	start := time.Now()
	log.Info().Str("region", region).Msg("collecting region")

	var result regionResult

	clients, err := s.factory.ForRegion(ctx, region)
	if err != nil {
		// No clients means no kind can be listed in this region.
		log.Warn().Err(err).Str("region", region).Msg("client setup failed, region contributes no rows")
		for _, kind := range s.enabledKinds() {
			result.outcomes = append(result.outcomes, s.failedOutcome(ctx, region, kind, err))
		}
		return result
	}
	c := collector.New(region, clients)

	if s.opts.EC2 {
		rows, err := c.CollectInstances(ctx)
		if err != nil {
			log.Warn().Err(err).Str("region", region).Msg("ec2 listing failed")
			result.outcomes = append(result.outcomes, s.failedOutcome(ctx, region, inventory.KindEC2, err))
		} else {
			log.Info().Str("region", region).Int("count", len(rows)).Msg("ec2 instances fetched")
			result.instances = rows
			result.outcomes = append(result.outcomes, s.okOutcome(ctx, region, inventory.KindEC2, len(rows)))
		}
	}

	if s.opts.RDS {
		rows, err := c.CollectDBInstances(ctx)
		if err != nil {
			log.Warn().Err(err).Str("region", region).Msg("rds listing failed")
			result.outcomes = append(result.outcomes, s.failedOutcome(ctx, region, inventory.KindRDS, err))
		} else {
			log.Info().Str("region", region).Int("count", len(rows)).Msg("rds instances fetched")
			result.dbInstances = rows
			result.outcomes = append(result.outcomes, s.okOutcome(ctx, region, inventory.KindRDS, len(rows)))
		}
	}

	if s.opts.OpenSearch {
		rows, err := c.CollectDomains(ctx)
		if err != nil {
			log.Warn().Err(err).Str("region", region).Msg("opensearch listing failed")
			result.outcomes = append(result.outcomes, s.failedOutcome(ctx, region, inventory.KindOpenSearch, err))
		} else {
			log.Info().Str("region", region).Int("count", len(rows)).Msg("opensearch domains fetched")
			result.domains = rows
			result.outcomes = append(result.outcomes, s.okOutcome(ctx, region, inventory.KindOpenSearch, len(rows)))
		}
	}

	s.metrics.RecordRegion(ctx, region, time.Since(start).Seconds())
	return result
}

func (s *Scanner) okOutcome(ctx context.Context, region string, kind inventory.Kind, count int) inventory.RegionOutcome {
	s.metrics.RecordResources(ctx, region, string(kind), count)
	return inventory.RegionOutcome{Region: region, Kind: kind, Status: inventory.StatusOK}
}

func (s *Scanner) failedOutcome(ctx context.Context, region string, kind inventory.Kind, err error) inventory.RegionOutcome {
	s.metrics.RecordError(ctx, region, string(kind))
	return inventory.RegionOutcome{Region: region, Kind: kind, Status: inventory.StatusFailed, Err: err}
}

func (s *Scanner) enabledKinds() []inventory.Kind {
	var kinds []inventory.Kind
	if s.opts.EC2 {
		kinds = append(kinds, inventory.KindEC2)
	}
	if s.opts.RDS {
		kinds = append(kinds, inventory.KindRDS)
	}
	if s.opts.OpenSearch {
		kinds = append(kinds, inventory.KindOpenSearch)
	}
	return kinds
}
