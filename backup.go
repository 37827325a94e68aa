package drvbackup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/cloudradar-monitoring/drvbackup/pkg/common"
	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
	"github.com/cloudradar-monitoring/drvbackup/pkg/export"
	"github.com/cloudradar-monitoring/drvbackup/pkg/grouping"
	"github.com/cloudradar-monitoring/drvbackup/pkg/report"
	"github.com/cloudradar-monitoring/drvbackup/pkg/runlock"
)

const (
	OperationBackup = "backup"
	OperationScan   = "scan"

	backupDirLayout = "drivers_20060102_150405"
)

var ErrOutputNotWritable = errors.New("output directory is not writable")

type BackupOptions struct {
	// OutputDir and GroupBy override the config when set
	OutputDir string
	GroupBy   string
	DryRun    bool
}

// PackageResult is the outcome of exporting one driver package.
type PackageResult struct {
	Package grouping.Package
	Result  export.Result
	Err     error
	Advice  export.Advice
}

func (r PackageResult) Exported() bool {
	return r.Err == nil
}

type BackupResult struct {
	// Dir is the drivers_YYYYMMDD_HHMMSS folder, not created in a dry run
	Dir      string
	DryRun   bool
	Host     string
	Strategy grouping.Strategy

	// Found counts the records of the driver source, Records those left after filtering
	Found   int
	Records []driver.Record
	Skipped []driver.Record

	Packages  []PackageResult
	Attempted int
	Succeeded int
	Failed    int

	// UploadErr is set when the inventory upload failed, the backup itself is not affected
	UploadErr error
}

// ExportedPackages returns the packages whose export succeeded, dry run exports included.
func (r *BackupResult) ExportedPackages() []grouping.Package {
	var packages []grouping.Package
	for _, p := range r.Packages {
		if p.Exported() {
			packages = append(packages, p.Package)
		}
	}
	return packages
}

func (d *Drvbackup) printf(format string, args ...interface{}) {
	fmt.Fprintf(d.Stdout, format, args...)
}

// Backup reads the installed drivers, exports every third-party package into a
// new timestamped folder below the output directory and writes the summaries.
// A failed export is counted and reported, it never stops the run.
func (d *Drvbackup) Backup(ctx context.Context, opts BackupOptions) (*BackupResult, error) {
	strategy, err := grouping.StrategyByName(common.OrDefault(opts.GroupBy, d.Config.GroupBy))
	if err != nil {
		return nil, err
	}

	root, err := filepath.Abs(common.OrDefault(opts.OutputDir, d.Config.OutputDir))
	if err != nil {
		return nil, errors.Wrap(err, "while resolving the output directory")
	}

	if !opts.DryRun {
		if err := d.checkPrivileges(); err != nil {
			return nil, err
		}
		if err := prepareOutputRoot(root); err != nil {
			return nil, err
		}

		lock, err := runlock.Acquire(root)
		if err != nil {
			return nil, err
		}
		defer lock.Release()
	}

	exporter, err := d.newExporter(opts.DryRun)
	if err != nil {
		return nil, err
	}

	src, err := d.newSource(d.Config.Source, d.Config.sourceTimeout())
	if err != nil {
		return nil, err
	}

	records, err := src.Drivers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "while reading the installed drivers")
	}

	res := &BackupResult{
		DryRun:   opts.DryRun,
		Host:     d.hostname(),
		Strategy: strategy,
		Found:    len(records),
	}
	if !d.Config.IncludeMicrosoft {
		records = driver.ThirdParty(records)
	}
	res.Records = records

	started := d.now()
	res.Dir = filepath.Join(root, started.Format(backupDirLayout))

	groups := grouping.Group(records, strategy)
	packages, skipped := grouping.PlanExports(groups)
	res.Skipped = skipped

	log.Infof("[BACKUP] %d drivers found, %d after filtering, %d packages to export", res.Found, len(records), len(packages))
	d.printf("Found %d drivers, %d to back up in %d packages\n", res.Found, len(records), len(packages))
	if opts.DryRun {
		d.printf("Dry run: nothing will be written to %s\n", res.Dir)
	}
	if d.Verbose {
		d.printPlan(strategy, groups, packages, skipped)
	}
	d.printf("\n")

	for i, p := range packages {
		pr := d.exportPackage(ctx, exporter, res.Dir, p, opts.DryRun)
		res.Packages = append(res.Packages, pr)
		res.Attempted++
		if pr.Exported() {
			res.Succeeded++
			d.printf("[%d/%d] %s: OK\n", i+1, len(packages), p.RelPath())
			continue
		}

		res.Failed++
		d.printf("[%d/%d] %s: FAILED (%s)\n", i+1, len(packages), p.RelPath(), pr.Err.Error())
		if pr.Advice != export.AdviceUnknown {
			d.printf("      %s\n", pr.Advice)
		}
	}

	if !opts.DryRun {
		if err := d.writeBackupReports(res, started); err != nil {
			return res, err
		}

		res.UploadErr = d.uploadInventory(ctx, OperationBackup, res.Host, records, backupFolders(res))
		if res.UploadErr != nil {
			log.WithError(res.UploadErr).Error("[DATABASE] inventory upload failed")
			d.printf("Inventory upload failed: %s\n", res.UploadErr.Error())
		}
	}

	d.printf("\n")
	renderBackupTable(d.Stdout, res)
	d.printf("Attempted: %d, succeeded: %d, failed: %d\n", res.Attempted, res.Succeeded, res.Failed)
	if !opts.DryRun {
		d.printf("Backup location: %s\n", res.Dir)
	}

	return res, nil
}

// prepareOutputRoot creates root and proves it accepts new files.
func prepareOutputRoot(root string) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return errors.Wrapf(ErrOutputNotWritable, "%s: %s", root, err.Error())
	}

	probe, err := os.CreateTemp(root, ".drvbackup-probe-*")
	if err != nil {
		return errors.Wrapf(ErrOutputNotWritable, "%s: %s", root, err.Error())
	}
	probe.Close()
	return os.Remove(probe.Name())
}

func (d *Drvbackup) exportPackage(ctx context.Context, exporter export.Exporter, backupDir string, p grouping.Package, dryRun bool) PackageResult {
	pr := PackageResult{Package: p}
	dir := filepath.Join(backupDir, filepath.FromSlash(p.RelPath()))

	err := export.CheckDestination(p.RelPath())
	if err == nil {
		err = export.CheckDestination(dir)
	}
	if err == nil {
		err = export.CheckContained(backupDir, dir)
	}
	if err != nil {
		pr.Err = err
		pr.Advice = export.Diagnose(pr.Result, err)
		log.WithError(err).Warnf("[EXPORT] skipping %s", p.Identity)
		return pr
	}

	if !dryRun {
		if err := os.MkdirAll(dir, 0755); err != nil {
			pr.Err = errors.Wrapf(err, "while creating %s", dir)
			return pr
		}
	}

	pr.Result, pr.Err = exporter.Export(ctx, p.Identity, dir)
	if pr.Err != nil {
		pr.Advice = export.Diagnose(pr.Result, pr.Err)
		log.WithError(pr.Err).WithField("exit_code", pr.Result.ExitCode).Warnf("[EXPORT] %s failed", p.Identity)
		return pr
	}
	log.Debugf("[EXPORT] %s exported to %s in %s", p.Identity, dir, pr.Result.Duration)

	if !dryRun {
		err = writeReport(filepath.Join(dir, report.DriverInfoFile), func(w io.Writer) error {
			return report.WriteDriverInfo(w, p.Records)
		})
		if err != nil {
			log.WithError(err).Warnf("[EXPORT] %s", p.Identity)
		}
	}

	return pr
}

func (d *Drvbackup) writeBackupReports(res *BackupResult, started time.Time) error {
	if err := os.MkdirAll(res.Dir, 0755); err != nil {
		return errors.Wrapf(err, "while creating %s", res.Dir)
	}

	exported := res.ExportedPackages()

	err := writeReport(filepath.Join(res.Dir, report.BackupSummaryFile), func(w io.Writer) error {
		return report.WriteBackupSummary(w, exported)
	})
	if err != nil {
		return err
	}

	header := report.Header{
		Title:     report.BackupTitle,
		Generated: started,
		Host:      res.Host,
		Counters: []report.Counter{
			{Label: "Total drivers found", Value: res.Found},
			{Label: "Drivers backed up", Value: grouping.ExportCount(exported)},
			{Label: "Packages exported", Value: res.Succeeded},
			{Label: "Packages failed", Value: res.Failed},
			{Label: "Drivers skipped", Value: len(res.Skipped)},
		},
	}
	return writeReport(filepath.Join(res.Dir, report.BackupTextFile), func(w io.Writer) error {
		return report.WriteBackupText(w, header, exported)
	})
}

// backupFolders maps the identity of every exported package to its folder.
func backupFolders(res *BackupResult) map[string]string {
	folders := map[string]string{}
	for _, p := range res.ExportedPackages() {
		folders[p.Identity] = p.RelPath()
	}
	return folders
}

func writeReport(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "while creating %s", path)
	}

	if err = write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "while writing %s", path)
	}
	return f.Close()
}

func (d *Drvbackup) printPlan(strategy grouping.Strategy, groups []grouping.Aggregate, packages []grouping.Package, skipped []driver.Record) {
	for _, section := range grouping.Sections(groups) {
		d.printf("\n[%s] %s: %d drivers\n", strategy.Dimensions[0].Title, section.Name, section.Count())
		for _, p := range packages {
			if p.Section != section.Name {
				continue
			}
			first := p.Primary()
			d.printf("  %s -> %s\n", p.Identity, p.RelPath())
			d.printf("    Provider: %s, Version: %s, Date: %s\n", common.OrUnknown(first.ProviderName), common.OrUnknown(first.DriverVersion), first.NormalizedDate())
			for _, r := range p.Records {
				d.printf("    - %s (%s)\n", common.OrUnknown(r.DeviceName), common.OrUnknown(r.HardwareID))
			}
		}
	}

	if len(skipped) > 0 {
		d.printf("\nSkipped %d drivers without an exportable package:\n", len(skipped))
		for _, r := range skipped {
			d.printf("  - %s (%s)\n", common.OrUnknown(r.DeviceName), common.OrUnknown(r.InfIdentity))
		}
	}
}
