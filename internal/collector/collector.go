// Package collector turns per-region AWS listing calls into inventory rows.
//
// Listing calls consume a single page of results.
// TODO: paginate the listing calls once inventories exceed one API page.
package collector

import "time"

// Collector queries one region for all three resource kinds.
type Collector struct {
	region  string
	clients Clients
}

// New creates a collector bound to a region.
func New(region string, clients Clients) *Collector {
	return &Collector{region: region, clients: clients}
}

// Region returns the region this collector queries.
func (c *Collector) Region() string {
	return c.region
}

// naiveUTC strips the zone from an optional timestamp. Spreadsheet cells
// carry no timezone, so all times are normalized to UTC wall-clock.
func naiveUTC(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}
