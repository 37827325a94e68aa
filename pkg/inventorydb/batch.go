package inventorydb

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
)

type column struct {
	name    string
	sqlType string
}

var columns = []column{
	{"run_id", "VARCHAR(36) NOT NULL"},
	{"host", "VARCHAR(255)"},
	{"operation", "VARCHAR(16) NOT NULL"},
	{"collected_at", "TIMESTAMP NOT NULL"},
	{"device_name", "TEXT"},
	{"description", "TEXT"},
	{"device_class", "VARCHAR(255)"},
	{"class_guid", "VARCHAR(64)"},
	{"driver_version", "VARCHAR(64)"},
	{"driver_date", "VARCHAR(32)"},
	{"provider", "TEXT"},
	{"hardware_id", "TEXT"},
	{"device_id", "TEXT"},
	{"inf_name", "VARCHAR(255)"},
	{"catalog_file", "VARCHAR(255)"},
	{"manufacturer", "TEXT"},
	{"source_file", "TEXT"},
	{"folder", "TEXT"},
}

// Batch is the inventory of one run.
type Batch struct {
	RunID       uuid.UUID
	Host        string
	Operation   string
	CollectedAt time.Time
	Records     []driver.Record
	// Folders maps a lower-cased package identity to its backup folder
	Folders map[string]string
}

func NewBatch(operation, host string, records []driver.Record) Batch {
	return Batch{
		RunID:       uuid.New(),
		Host:        host,
		Operation:   operation,
		CollectedAt: time.Now().UTC(),
		Records:     records,
	}
}

func (b Batch) folder(r driver.Record) string {
	if b.Folders == nil {
		return ""
	}
	return b.Folders[strings.ToLower(r.InfIdentity)]
}

// row returns the values in columns order.
func (b Batch) row(r driver.Record) []interface{} {
	return []interface{}{
		b.RunID.String(),
		b.Host,
		b.Operation,
		b.CollectedAt,
		r.DeviceName,
		r.Description,
		r.DeviceClass,
		r.ClassGUID,
		r.DriverVersion,
		r.NormalizedDate(),
		r.ProviderName,
		r.HardwareID,
		r.DeviceID,
		r.InfIdentity,
		r.CatalogFile,
		r.Manufacturer,
		r.SourceFile,
		b.folder(r),
	}
}
