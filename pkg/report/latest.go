package report

import (
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
)

// Latest holds the newest parseable driver version per hardware id.
type Latest map[string]*version.Version

func hardwareKey(r driver.Record) string {
	return strings.ToUpper(r.HardwareID)
}

// LatestVersions finds the newest driver version for every hardware id.
// Versions go-version cannot parse are ignored.
func LatestVersions(records []driver.Record) Latest {
	latest := Latest{}
	for _, r := range records {
		if r.HardwareID == "" {
			continue
		}

		v, err := version.NewVersion(r.DriverVersion)
		if err != nil {
			continue
		}

		key := hardwareKey(r)
		if cur, ok := latest[key]; !ok || v.GreaterThan(cur) {
			latest[key] = v
		}
	}
	return latest
}

// IsLatest reports whether r carries the newest version of its hardware id.
// ok is false when the version of r cannot be compared.
func (l Latest) IsLatest(r driver.Record) (latest bool, ok bool) {
	newest, found := l[hardwareKey(r)]
	if !found || r.HardwareID == "" {
		return false, false
	}

	v, err := version.NewVersion(r.DriverVersion)
	if err != nil {
		return false, false
	}
	return v.Equal(newest), true
}

// Column renders IsLatest for the scan summary: "yes", "no" or empty when unknown.
func (l Latest) Column(r driver.Record) string {
	latest, ok := l.IsLatest(r)
	switch {
	case !ok:
		return ""
	case latest:
		return "yes"
	default:
		return "no"
	}
}
