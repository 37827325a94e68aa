package report

import (
	"io"
	"strings"

	"github.com/cloudradar-monitoring/drvbackup/pkg/common"
	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
	"github.com/cloudradar-monitoring/drvbackup/pkg/grouping"
)

const (
	DriverInfoFile    = "driver_info.csv"
	BackupSummaryFile = "all_drivers.csv"
	ScanSummaryFile   = "scan_summary.csv"
)

var (
	DriverInfoHeader = []string{
		"Device Name", "Driver Version", "Driver Date", "Hardware ID", "Device ID",
		"INF Name", "Description", "Provider", "Device Class", "Class GUID",
	}
	BackupSummaryHeader = append(append([]string{}, DriverInfoHeader...), "Folder Name")
	ScanSummaryHeader   = []string{
		"Source File", "Device Name", "Hardware ID", "Manufacturer", "Provider",
		"Driver Version", "Driver Date", "Device Class", "Class GUID", "Catalog File", "Latest",
	}
)

// EscapeCSV quotes a field when it contains a comma, a double quote or a line break.
// Quotes inside a quoted field are doubled.
func EscapeCSV(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.Replace(s, `"`, `""`, -1) + `"`
}

type csvWriter struct {
	w   io.Writer
	err error
}

// row writes one line, empty fields are rendered as Unknown.
func (c *csvWriter) row(fields ...string) {
	if c.err != nil {
		return
	}

	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeCSV(common.OrUnknown(f))
	}
	_, c.err = io.WriteString(c.w, strings.Join(escaped, ",")+"\n")
}

func driverInfoFields(r driver.Record) []string {
	date := r.NormalizedDate()
	return []string{
		r.DeviceName, r.DriverVersion, date, r.HardwareID, r.DeviceID,
		r.InfIdentity, r.Description, r.ProviderName, r.DeviceClass, r.ClassGUID,
	}
}

// WriteDriverInfo writes the per package CSV listing every device of the package.
func WriteDriverInfo(w io.Writer, records []driver.Record) error {
	c := &csvWriter{w: w}
	c.row(DriverInfoHeader...)
	for _, r := range records {
		c.row(driverInfoFields(r)...)
	}
	return c.err
}

// WriteBackupSummary writes the CSV of all exported packages with the folder of each record.
func WriteBackupSummary(w io.Writer, packages []grouping.Package) error {
	c := &csvWriter{w: w}
	c.row(BackupSummaryHeader...)
	for _, p := range packages {
		folder := p.RelPath()
		for _, r := range p.Records {
			c.row(append(driverInfoFields(r), folder)...)
		}
	}
	return c.err
}

// WriteScanSummary writes the CSV of records parsed from INF files. Latest tells
// whether a record carries the newest driver version seen for its hardware id.
func WriteScanSummary(w io.Writer, records []driver.Record) error {
	latest := LatestVersions(records)

	c := &csvWriter{w: w}
	c.row(ScanSummaryHeader...)
	for _, r := range records {
		c.row(
			r.SourceFile, r.DeviceName, r.HardwareID, r.Manufacturer, r.ProviderName,
			r.DriverVersion, r.NormalizedDate(), r.DeviceClass, r.ClassGUID, r.CatalogFile,
			latest.Column(r),
		)
	}
	return c.err
}
