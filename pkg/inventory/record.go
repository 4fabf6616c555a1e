// Package inventory defines the record model for Skopa.
package inventory

import (
	"sort"
	"strings"
	"time"
)

// Tags holds the raw key/value tags of a resource. Keys are unique.
type Tags map[string]string

// Name returns the value of the "Name" tag, or "" when absent.
func (t Tags) Name() string {
	return t["Name"]
}

// String renders tags as "k=v" pairs in key order, for spreadsheet cells.
func (t Tags) String() string {
	if len(t) == 0 {
		return ""
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + t[k]
	}
	return strings.Join(pairs, ", ")
}

// Instance is one discovered EC2 instance.
type Instance struct {
	Region           string    `json:"region"`
	InstanceID       string    `json:"instance_id"`
	InstanceType     string    `json:"instance_type"`
	State            string    `json:"state"`
	LaunchTime       time.Time `json:"launch_time"` // timezone-naive UTC
	PublicIP         string    `json:"public_ip"`
	PrivateIP        string    `json:"private_ip"`
	AvailabilityZone string    `json:"availability_zone"`
	Name             string    `json:"name"`
	Tags             Tags      `json:"tags"`
}

// DBInstance is one discovered RDS database instance.
type DBInstance struct {
	Region           string `json:"region"`
	Identifier       string `json:"identifier"`
	InstanceClass    string `json:"instance_class"`
	Engine           string `json:"engine"`
	EngineVersion    string `json:"engine_version"`
	Status           string `json:"status"`
	Endpoint         string `json:"endpoint"`
	AvailabilityZone string `json:"availability_zone"`
	StorageType      string `json:"storage_type"`
	AllocatedStorage int32  `json:"allocated_storage_gb"`
	Name             string `json:"name"`
}

// Domain is one discovered OpenSearch (or legacy Elasticsearch) domain.
type Domain struct {
	Region                 string `json:"region"`
	DomainName             string `json:"domain_name"`
	EngineVersion          string `json:"engine_version"`
	Endpoint               string `json:"endpoint"`
	ARN                    string `json:"arn"`
	InstanceType           string `json:"instance_type"`
	InstanceCount          int32  `json:"instance_count"`
	DedicatedMasterEnabled bool   `json:"dedicated_master_enabled"`
	ZoneAwarenessEnabled   bool   `json:"zone_awareness_enabled"`
	Created                bool   `json:"created"`
	Deleted                bool   `json:"deleted"`
	Name                   string `json:"name"`
	Tags                   Tags   `json:"tags"`
}
