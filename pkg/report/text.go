package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudradar-monitoring/drvbackup/pkg/common"
	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
	"github.com/cloudradar-monitoring/drvbackup/pkg/grouping"
)

const (
	BackupTextFile = "driver_backup_summary.txt"
	ScanTextFile   = "scan_summary.txt"

	BackupTitle = "Driver Export Summary"
	ScanTitle   = "Driver Scan Summary"
)

// Counter is a "label: value" line of the report banner.
type Counter struct {
	Label string
	Value int
}

// Header is the banner on top of every text report.
type Header struct {
	Title     string
	Generated time.Time
	// Host is omitted when empty
	Host     string
	Counters []Counter
}

type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) header(h Header) {
	t.printf("%s\n", h.Title)
	t.printf("Generated: %s\n", h.Generated.UTC().Format("2006-01-02 15:04:05 UTC"))
	if h.Host != "" {
		t.printf("Host: %s\n", h.Host)
	}
	for _, c := range h.Counters {
		t.printf("%s: %d\n", c.Label, c.Value)
	}
	t.printf("\n")
}

func (t *textWriter) heading(title string) {
	t.printf("%s\n%s\n\n", title, strings.Repeat("=", len(title)))
}

// WriteBackupText writes the narrative summary of a backup. Packages are listed
// per section and numbered by one counter running over all sections.
func WriteBackupText(w io.Writer, h Header, packages []grouping.Package) error {
	t := &textWriter{w: w}
	t.header(h)
	t.heading("Drivers by Device Class and Package:")

	counter := 1
	for start := 0; start < len(packages); {
		end := start + 1
		for end < len(packages) && packages[end].Section == packages[start].Section {
			end++
		}

		t.printf("=== %s (%d packages) ===\n\n", packages[start].Section, end-start)
		for _, p := range packages[start:end] {
			first := p.Primary()
			t.printf("%d. %s (%d devices in package):\n", counter, p.Identity, len(p.Records))
			t.printf("   Folder: %s\n", p.RelPath())
			t.printf("   Provider: %s\n", common.OrUnknown(first.ProviderName))
			t.printf("   Version: %s\n", common.OrUnknown(first.DriverVersion))
			t.printf("   Date: %s\n", first.NormalizedDate())
			t.printf("\n   Devices in this package:\n")
			for i, r := range p.Records {
				t.printf("   %d. %s\n", i+1, common.OrUnknown(r.DeviceName))
				t.printf("      Hardware ID: %s\n", common.OrUnknown(r.HardwareID))
				t.printf("      Device ID: %s\n", common.OrUnknown(r.DeviceID))
				t.printf("      Description: %s\n", common.OrUnknown(r.Description))
			}
			t.printf("\n")
			counter++
		}
		t.printf("\n")

		start = end
	}

	return t.err
}

// WriteScanText writes the narrative summary of parsed INF files grouped by s.
// Nested strategies number groups, flat strategies number records; either way
// the counter is never reset between sections.
func WriteScanText(w io.Writer, h Header, s grouping.Strategy, groups []grouping.Aggregate) error {
	titles := make([]string, 0, len(s.Dimensions))
	for _, d := range s.Dimensions {
		titles = append(titles, d.Title)
	}

	t := &textWriter{w: w}
	t.header(h)
	t.heading("Drivers by " + strings.Join(titles, " and ") + ":")

	counter := 1
	for _, section := range grouping.Sections(groups) {
		if s.Nested() {
			t.printf("=== %s (%d %s) ===\n\n", section.Name, len(section.Groups), s.Dimensions[1].Plural)
			for _, g := range section.Groups {
				t.printf("%d. %s (%d devices):\n", counter, g.Name(), len(g.Records))
				for i, r := range g.Records {
					t.printf("   %d. %s\n", i+1, common.OrUnknown(r.DeviceName))
					t.scanRecord("      ", r)
				}
				t.printf("\n")
				counter++
			}
		} else {
			t.printf("=== %s (%d drivers) ===\n\n", section.Name, section.Count())
			for _, g := range section.Groups {
				for _, r := range g.Records {
					t.printf("%d. %s\n", counter, common.OrUnknown(r.DeviceName))
					t.scanRecord("   ", r)
					t.printf("\n")
					counter++
				}
			}
		}
		t.printf("\n")
	}

	return t.err
}

func (t *textWriter) scanRecord(indent string, r driver.Record) {
	t.printf("%sHardware ID: %s\n", indent, common.OrUnknown(r.HardwareID))
	t.printf("%sManufacturer: %s\n", indent, common.OrUnknown(r.Manufacturer))
	t.printf("%sProvider: %s\n", indent, common.OrUnknown(r.ProviderName))
	t.printf("%sVersion: %s\n", indent, common.OrUnknown(r.DriverVersion))
	t.printf("%sDate: %s\n", indent, r.NormalizedDate())
	t.printf("%sINF: %s\n", indent, common.OrUnknown(r.InfIdentity))
	if r.SourceFile != "" {
		t.printf("%sSource: %s\n", indent, r.SourceFile)
	}
}
