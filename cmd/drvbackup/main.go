package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cloudradar-monitoring/drvbackup"
	"github.com/cloudradar-monitoring/drvbackup/pkg/grouping"
)

var (
	// set on build:
	// go build -o drvbackup -ldflags="-X main.version=$(git describe --always --long --dirty --tag)" github.com/cloudradar-monitoring/drvbackup/cmd/drvbackup
	version string
)

const (
	exitError         = 1
	exitExportsFailed = 2
)

type options struct {
	cfgPath     string
	logLevel    string
	verbose     bool
	printConfig bool

	outputDir string
	groupBy   string
	dryRun    bool
	format    string
}

// app is set up by the root command before any subcommand runs.
type app struct {
	opts options
	drv  *drvbackup.Drvbackup
}

func main() {
	handleToastFeedback(drvbackup.DefaultCfgPath)

	a := &app{}
	root := a.rootCommand()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := 0
	if err := root.ExecuteContext(ctx); err != nil {
		code = exitCode(err)
	}
	stop()

	if a.drv != nil {
		if err := a.drv.Shutdown(); err != nil {
			log.WithError(err).Error("Failed to close the log file")
		}
		if a.drv.Config.PauseOnExit {
			waitForEnter()
		}
	}

	os.Exit(code)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "drvbackup",
		Short:         "Back up and inventory installed device drivers",
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVarP(&a.opts.cfgPath, "config", "c", drvbackup.DefaultCfgPath, "config file path")
	root.PersistentFlags().StringVarP(&a.opts.logLevel, "log-level", "v", "", "log level, overrides the level in config file (values \"error\",\"info\",\"debug\")")
	root.PersistentFlags().BoolVar(&a.opts.verbose, "verbose", false, "print every planned package and the output of the export tool")
	root.PersistentFlags().BoolVar(&a.opts.printConfig, "print-config", false, "print the active config and exit")

	root.AddCommand(a.backupCommand(), a.scanCommand(), a.inspectCommand())
	return root
}

func versionString() string {
	v := version
	if v == "" {
		v = "{undefined}"
	}
	return fmt.Sprintf("drvbackup v%s released under MIT license. https://github.com/cloudradar-monitoring/drvbackup/", v)
}

func groupByUsage() string {
	return "grouping strategy: " + strings.Join(grouping.StrategyNames(), ", ") + " (default from config)"
}

func (a *app) backupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export every third-party driver package of this system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.drv.Backup(cmd.Context(), drvbackup.BackupOptions{
				OutputDir: a.opts.outputDir,
				GroupBy:   a.opts.groupBy,
				DryRun:    a.opts.dryRun,
			})
			if err != nil {
				return err
			}

			a.notifyBackupFinished(res)
			if res.Failed > 0 {
				return &exportsFailedError{failed: res.Failed, attempted: res.Attempted}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&a.opts.outputDir, "output", "o", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&a.opts.dryRun, "dry-run", false, "plan the backup without exporting or writing anything")
	cmd.Flags().StringVar(&a.opts.groupBy, "group-by", "", groupByUsage())
	return cmd
}

func (a *app) scanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Inventory the INF files below a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.drv.Scan(cmd.Context(), args[0], drvbackup.ScanOptions{
				OutputDir: a.opts.outputDir,
				GroupBy:   a.opts.groupBy,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&a.opts.outputDir, "output", "o", "", "directory for the scan reports (default from config)")
	cmd.Flags().StringVar(&a.opts.groupBy, "group-by", "", groupByUsage())
	return cmd
}

func (a *app) inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the drivers declared by an .inf file or a .zip/.cab driver archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.drv.Inspect(cmd.Context(), args[0], drvbackup.InspectOptions{
				OutputDir: a.opts.outputDir,
				GroupBy:   a.opts.groupBy,
				Format:    a.opts.format,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&a.opts.outputDir, "output", "o", "", "also write the scan reports into this directory")
	cmd.Flags().StringVar(&a.opts.groupBy, "group-by", "", groupByUsage())
	cmd.Flags().StringVar(&a.opts.format, "format", drvbackup.FormatText, "output format: text or yaml")
	return cmd
}

func (a *app) setup() error {
	cfg, err := drvbackup.HandleAllConfigSetup(a.opts.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to handle drvbackup configuration: %s", err.Error())
	}

	a.drv = drvbackup.New(cfg, a.opts.cfgPath, version)
	a.drv.Verbose = a.opts.verbose

	if a.opts.printConfig {
		fmt.Println(cfg.DumpToml())
		os.Exit(0)
	}

	// log level set in flag has a precedence
	handleFlagLogLevel(a.drv, a.opts.logLevel)
	a.drv.ConfigureLogger()

	log.Debugf("[SYSTEM] drvbackup %s using config %s", a.drv.Version(), a.opts.cfgPath)
	return nil
}

func handleFlagLogLevel(drv *drvbackup.Drvbackup, logLevel string) {
	lvl := drvbackup.LogLevel(logLevel)
	if lvl.IsValid() {
		drv.Config.LogLevel = lvl
	} else if logLevel != "" {
		log.Warnf("Invalid log level: \"%s\". Set to default: \"%s\"", logLevel, drv.Config.LogLevel)
	}
}

func (a *app) notifyBackupFinished(res *drvbackup.BackupResult) {
	if !a.drv.Config.NotifyOnFinish || res.DryRun {
		return
	}

	msg := fmt.Sprintf("%d of %d packages exported to %s", res.Succeeded, res.Attempted, res.Dir)
	var err error
	if res.Failed > 0 {
		err = sendErrorNotification("Driver backup finished with errors", msg)
	} else {
		err = sendSuccessNotification("Driver backup finished", msg)
	}
	if err != nil {
		log.WithError(err).Debug("[SYSTEM] notification not shown")
	}
}

type exportsFailedError struct {
	failed, attempted int
}

func (e *exportsFailedError) Error() string {
	return fmt.Sprintf("%d of %d package exports failed", e.failed, e.attempted)
}

func exitCode(err error) int {
	if e, ok := err.(*exportsFailedError); ok {
		fmt.Fprintln(os.Stderr, e.Error())
		return exitExportsFailed
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
	return exitError
}

func waitForEnter() {
	fmt.Print("Press Enter to exit...")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}
