package drvbackup

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/cloudradar-monitoring/drvbackup/pkg/grouping"
)

type backupTableRow struct {
	section  string
	packages int
	devices  int
	exported int
	failed   int
}

func renderBackupTable(w io.Writer, res *BackupResult) {
	var rows []*backupTableRow
	index := map[string]*backupTableRow{}
	devices := 0

	for _, pr := range res.Packages {
		row, ok := index[pr.Package.Section]
		if !ok {
			row = &backupTableRow{section: pr.Package.Section}
			index[pr.Package.Section] = row
			rows = append(rows, row)
		}

		row.packages++
		row.devices += len(pr.Package.Records)
		devices += len(pr.Package.Records)
		if pr.Exported() {
			row.exported++
		} else {
			row.failed++
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{res.Strategy.Dimensions[0].Title, "Packages", "Devices", "Exported", "Failed"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.section, row.packages, row.devices, row.exported, row.failed})
	}
	t.AppendFooter(table.Row{"Total", res.Attempted, devices, res.Succeeded, res.Failed})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func renderScanTable(w io.Writer, s grouping.Strategy, groups []grouping.Aggregate) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{s.Dimensions[0].Title}
	if s.Nested() {
		header = append(header, "Groups")
	}
	t.AppendHeader(append(header, "Drivers"))

	for _, section := range grouping.Sections(groups) {
		row := table.Row{section.Name}
		if s.Nested() {
			row = append(row, len(section.Groups))
		}
		t.AppendRow(append(row, section.Count()))
	}

	footer := table.Row{"Total"}
	if s.Nested() {
		footer = append(footer, len(groups))
	}
	t.AppendFooter(append(footer, grouping.Count(groups)))

	t.SetStyle(table.StyleLight)
	t.Render()
}
