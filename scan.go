package drvbackup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/cloudradar-monitoring/drvbackup/pkg/common"
	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
	"github.com/cloudradar-monitoring/drvbackup/pkg/grouping"
	"github.com/cloudradar-monitoring/drvbackup/pkg/inf"
	"github.com/cloudradar-monitoring/drvbackup/pkg/report"
	"github.com/cloudradar-monitoring/drvbackup/pkg/source"
)

type ScanOptions struct {
	// OutputDir receives scan_summary.csv and scan_summary.txt, the config output_dir when empty
	OutputDir string
	GroupBy   string
}

type ScanResult struct {
	Dir       string
	OutputDir string
	Host      string
	Strategy  grouping.Strategy

	Files  []string
	Parsed []*inf.ParsedFile
	// ParseErrors lists the files that could not be read
	ParseErrors common.ErrorCollector

	Records []driver.Record
	Groups  []grouping.Aggregate

	UploadErr error
}

// Scan parses every INF file below dir, groups the found drivers and writes the
// scan summaries. Files that cannot be parsed are skipped and reported.
func (d *Drvbackup) Scan(ctx context.Context, dir string, opts ScanOptions) (*ScanResult, error) {
	res, err := d.scan(ctx, dir, opts.GroupBy, d.Stdout)
	if err != nil {
		return nil, err
	}

	res.OutputDir = common.OrDefault(opts.OutputDir, d.Config.OutputDir)
	if err = d.writeScanReports(res); err != nil {
		return res, err
	}

	res.UploadErr = d.uploadInventory(ctx, OperationScan, res.Host, res.Records, nil)
	if res.UploadErr != nil {
		log.WithError(res.UploadErr).Error("[DATABASE] inventory upload failed")
		d.printf("Inventory upload failed: %s\n", res.UploadErr.Error())
	}

	d.printf("\n")
	renderScanTable(d.Stdout, res.Strategy, res.Groups)
	d.printf("Parsed %d of %d INF files, %d drivers\n", len(res.Parsed), len(res.Files), len(res.Records))
	d.printf("Reports written to %s\n", res.OutputDir)

	return res, nil
}

// scan parses the INF files below dir. Progress goes to progress.
func (d *Drvbackup) scan(ctx context.Context, dir, groupBy string, progress io.Writer) (*ScanResult, error) {
	strategy, err := grouping.StrategyByName(common.OrDefault(groupBy, d.Config.GroupBy))
	if err != nil {
		return nil, err
	}

	src := source.NewINFDirectory(dir, d.Config.HardwareIDPrefixes)
	files, err := src.Files()
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(progress, "Scanning %d INF files in %s\n", len(files), dir)

	records, err := src.Drivers(ctx)
	if err != nil {
		return nil, err
	}

	for i := range records {
		records[i].SourceFile = relativeSource(dir, records[i].SourceFile)
	}

	res := &ScanResult{
		Dir:         dir,
		Host:        d.hostname(),
		Strategy:    strategy,
		Files:       files,
		Parsed:      src.Parsed,
		ParseErrors: src.Errors,
		Records:     records,
		Groups:      grouping.Group(records, strategy),
	}

	if res.ParseErrors.HasErrors() {
		log.WithError(res.ParseErrors.Combine()).Warnf("[SCAN] %d INF files could not be parsed", res.ParseErrors.Len())
		if d.Verbose {
			for _, err := range res.ParseErrors.Errors() {
				fmt.Fprintf(progress, "  skipped: %s\n", err.Error())
			}
		}
	}

	return res, nil
}

func relativeSource(root, path string) string {
	if path == "" {
		return ""
	}
	if fi, err := os.Stat(root); err == nil && !fi.IsDir() {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (d *Drvbackup) scanHeader(res *ScanResult) report.Header {
	return report.Header{
		Title:     report.ScanTitle,
		Generated: d.now(),
		Host:      res.Host,
		Counters: []report.Counter{
			{Label: "INF files found", Value: len(res.Files)},
			{Label: "INF files parsed", Value: len(res.Parsed)},
			{Label: "Drivers found", Value: len(res.Records)},
			{Label: "Groups", Value: len(res.Groups)},
		},
	}
}

func (d *Drvbackup) writeScanReports(res *ScanResult) error {
	if err := os.MkdirAll(res.OutputDir, 0755); err != nil {
		return errors.Wrapf(ErrOutputNotWritable, "%s: %s", res.OutputDir, err.Error())
	}

	err := writeReport(filepath.Join(res.OutputDir, report.ScanSummaryFile), func(w io.Writer) error {
		return report.WriteScanSummary(w, res.Records)
	})
	if err != nil {
		return err
	}

	header := d.scanHeader(res)
	return writeReport(filepath.Join(res.OutputDir, report.ScanTextFile), func(w io.Writer) error {
		return report.WriteScanText(w, header, res.Strategy, res.Groups)
	})
}
