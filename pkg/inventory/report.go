package inventory

// Kind identifies one of the collected resource kinds.
type Kind string

const (
	KindEC2        Kind = "ec2"
	KindRDS        Kind = "rds"
	KindOpenSearch Kind = "opensearch"
)

// Status tells how a (region, kind) listing ended. A failed listing
// contributes zero rows; the exported artifact does not distinguish the two,
// but callers and tests can.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// RegionOutcome records the listing status for one kind in one region.
type RegionOutcome struct {
	Region string
	Kind   Kind
	Status Status
	Err    error
}

// Report is the account-wide result of one run: one table per kind plus the
// per-(region, kind) listing outcomes.
type Report struct {
	Regions     []string
	Instances   []Instance
	DBInstances []DBInstance
	Domains     []Domain
	Outcomes    []RegionOutcome
}

// Failed returns the outcomes whose listing call failed.
func (r *Report) Failed() []RegionOutcome {
	var failed []RegionOutcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Concat flattens per-region tables into one account-wide table, preserving
// row order within each input table. An empty input yields an empty table.
func Concat[R any](tables [][]R) []R {
	var all []R
	for _, t := range tables {
		all = append(all, t...)
	}
	return all
}
