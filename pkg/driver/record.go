package driver

import (
	"strings"

	"github.com/cloudradar-monitoring/drvbackup/pkg/common"
)

// Record is one device to driver association. Empty fields mean the value is unknown.
type Record struct {
	DeviceName    string
	Description   string
	DeviceClass   string
	ClassGUID     string
	DriverVersion string
	DriverDate    string
	ProviderName  string
	HardwareID    string
	DeviceID      string
	InfIdentity   string
	CatalogFile   string
	Manufacturer  string

	// SourceFile is the INF a record was parsed from, empty for records of the running system
	SourceFile string
}

// NormalizedDate returns the driver date in YYYY-MM-DD form when possible, "Unknown" when absent.
func (r Record) NormalizedDate() string {
	if r.DriverDate == "" {
		return common.Unknown
	}
	return NormalizeDate(r.DriverDate)
}

// PackageIdentity returns the normalized package identity and whether it may be exported.
func (r Record) PackageIdentity() (string, bool) {
	return NormalizeIdentity(r.InfIdentity)
}

// IsMicrosoft reports whether the driver was published by Microsoft.
func IsMicrosoft(r Record) bool {
	return strings.Contains(strings.ToLower(r.ProviderName), "microsoft")
}

// ThirdParty drops Microsoft drivers and keeps the order of the rest.
func ThirdParty(records []Record) []Record {
	result := make([]Record, 0, len(records))
	for _, r := range records {
		if !IsMicrosoft(r) {
			result = append(result, r)
		}
	}
	return result
}
