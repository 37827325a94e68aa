package drvbackup

import (
	"io"
	"os"
	"time"

	"github.com/cloudradar-monitoring/drvbackup/pkg/export"
	"github.com/cloudradar-monitoring/drvbackup/pkg/source"
)

type Drvbackup struct {
	Config         *Config
	ConfigLocation string

	// Stdout receives the progress and results meant for the user
	Stdout  io.Writer
	Verbose bool

	newSource       func(kind string, timeout time.Duration) (source.Source, error)
	newExporter     func(dryRun bool) (export.Exporter, error)
	checkPrivileges func() error
	hostname        func() string
	now             func() time.Time

	logFileHook *logrusFileHook

	version string
}

func New(cfg *Config, cfgPath string, version string) *Drvbackup {
	d := &Drvbackup{
		Config:          cfg,
		ConfigLocation:  cfgPath,
		Stdout:          os.Stdout,
		newSource:       source.New,
		checkPrivileges: CheckPrivileges,
		hostname:        Hostname,
		now:             time.Now,
		version:         version,
	}
	d.newExporter = d.configuredExporter

	d.SetLogLevel(d.Config.LogLevel)

	return d
}

func (d *Drvbackup) Version() string {
	if d.version == "" {
		return "{undefined}"
	}
	return d.version
}

func (d *Drvbackup) configuredExporter(dryRun bool) (export.Exporter, error) {
	if dryRun {
		return &export.DryRun{}, nil
	}

	cmd, err := export.ParseCommand(d.Config.ExportCommand)
	if err != nil {
		return nil, err
	}
	cmd.Timeout = d.Config.exportTimeout()
	if d.Verbose {
		cmd.Output = d.Stdout
	}
	return cmd, nil
}

func (d *Drvbackup) Shutdown() error {
	if d.logFileHook != nil {
		return d.logFileHook.Close()
	}
	return nil
}
