// Package exporter writes an inventory report to a spreadsheet.
package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/skopaio/skopa/pkg/inventory"
)

// Sheet names in the output workbook, one per resource kind.
const (
	SheetEC2        = "EC2_Instances"
	SheetRDS        = "RDS_Instances"
	SheetOpenSearch = "OpenSearch_Domains"
)

// DefaultPath is the output file name when none is configured.
const DefaultPath = "aws_resources_all_regions.xlsx"

const timeLayout = "2006-01-02 15:04:05"

var (
	instanceHeader = []interface{}{
		"Region", "InstanceId", "InstanceType", "State", "LaunchTime",
		"PublicIP", "PrivateIP", "AvailabilityZone", "Name", "Tags",
	}
	dbInstanceHeader = []interface{}{
		"Region", "DBInstanceIdentifier", "DBInstanceClass", "Engine",
		"EngineVersion", "DBInstanceStatus", "Endpoint", "AvailabilityZone",
		"StorageType", "AllocatedStorage (GB)", "Name",
	}
	domainHeader = []interface{}{
		"Region", "DomainName", "EngineVersion", "Endpoint", "ARN",
		"InstanceType", "InstanceCount", "DedicatedMasterEnabled",
		"ZoneAwarenessEnabled", "Created", "Deleted", "Name", "Tags",
	}
)

// XLSX writes reports to a single workbook with one sheet per kind.
type XLSX struct {
	path string
}

// NewXLSX creates an exporter writing to path.
func NewXLSX(path string) *XLSX {
	if path == "" {
		path = DefaultPath
	}
	return &XLSX{path: path}
}

// Path returns the output file path.
func (x *XLSX) Path() string {
	return x.path
}

// Export writes the three tables. A write failure is fatal to the run.
func (x *XLSX) Export(report *inventory.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// The workbook opens with one default sheet; rename it rather than
	// leaving an empty Sheet1 behind.
	if err := f.SetSheetName("Sheet1", SheetEC2); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	if err := writeSheet(f, SheetEC2, instanceHeader, instanceRows(report.Instances)); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetRDS); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetRDS, err)
	}
	if err := writeSheet(f, SheetRDS, dbInstanceHeader, dbInstanceRows(report.DBInstances)); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetOpenSearch); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetOpenSearch, err)
	}
	if err := writeSheet(f, SheetOpenSearch, domainHeader, domainRows(report.Domains)); err != nil {
		return err
	}

	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("write %s: %w", x.path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header of %s: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name for %s row %d: %w", sheet, i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func instanceRows(instances []inventory.Instance) [][]interface{} {
	rows := make([][]interface{}, len(instances))
	for i, in := range instances {
		launch := ""
		if !in.LaunchTime.IsZero() {
			launch = in.LaunchTime.Format(timeLayout)
		}
		rows[i] = []interface{}{
			in.Region, in.InstanceID, in.InstanceType, in.State, launch,
			in.PublicIP, in.PrivateIP, in.AvailabilityZone, in.Name,
			in.Tags.String(),
		}
	}
	return rows
}

func dbInstanceRows(dbs []inventory.DBInstance) [][]interface{} {
	rows := make([][]interface{}, len(dbs))
	for i, db := range dbs {
		rows[i] = []interface{}{
			db.Region, db.Identifier, db.InstanceClass, db.Engine,
			db.EngineVersion, db.Status, db.Endpoint, db.AvailabilityZone,
			db.StorageType, int(db.AllocatedStorage), db.Name,
		}
	}
	return rows
}

func domainRows(domains []inventory.Domain) [][]interface{} {
	rows := make([][]interface{}, len(domains))
	for i, d := range domains {
		rows[i] = []interface{}{
			d.Region, d.DomainName, d.EngineVersion, d.Endpoint, d.ARN,
			d.InstanceType, int(d.InstanceCount), d.DedicatedMasterEnabled,
			d.ZoneAwarenessEnabled, d.Created, d.Deleted, d.Name,
			d.Tags.String(),
		}
	}
	return rows
}
