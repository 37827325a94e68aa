package drvbackup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/troian/toml"
	"gopkg.in/validator.v2"

	"github.com/cloudradar-monitoring/drvbackup/pkg/archive"
	"github.com/cloudradar-monitoring/drvbackup/pkg/export"
	"github.com/cloudradar-monitoring/drvbackup/pkg/grouping"
	"github.com/cloudradar-monitoring/drvbackup/pkg/inf"
	"github.com/cloudradar-monitoring/drvbackup/pkg/inventorydb"
	"github.com/cloudradar-monitoring/drvbackup/pkg/source"
)

var (
	DefaultCfgPath    string
	defaultLogPath    string
	defaultOutputPath string
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogFile   string   `toml:"log" comment:"Leave empty to log to the console only"`
	LogSyslog string   `toml:"log_syslog" comment:"Set to 'local' for local syslog or udp://host[:port] for a remote one, not available on windows"`
	LogLevel  LogLevel `toml:"log_level" comment:"\"debug\", \"info\", \"error\" verbose level; can be overridden with -v flag"`

	OutputDir     string  `toml:"output_dir" comment:"Every backup creates a drivers_YYYYMMDD_HHMMSS folder below this directory" validate:"nonzero"`
	GroupBy       string  `toml:"group_by" comment:"class-package, guid-version, version or class"`
	Source        string  `toml:"source" comment:"Where the installed drivers are read from: wmi or setupapi"`
	SourceTimeout float64 `toml:"source_timeout" comment:"Seconds to wait for the driver source" validate:"min=1"`

	IncludeMicrosoft bool `toml:"include_microsoft" comment:"Also back up drivers published by Microsoft"`

	ExportCommand  string  `toml:"export_command" comment:"{inf} and {dir} are replaced with the package and its destination folder" validate:"nonzero"`
	ExportTimeout  float64 `toml:"export_timeout" comment:"Seconds a single package export may take" validate:"min=1"`
	ExtractCommand string  `toml:"extract_command" comment:"Used by inspect for .cab files; {archive} and {dir} are replaced"`

	HardwareIDPrefixes []string `toml:"hardware_id_prefixes" comment:"Hardware ids of parsed INF files must start with one of these bus prefixes or carry a vendor/device id"`

	NotifyOnFinish bool `toml:"notify_on_finish" comment:"Show a notification when a backup finishes (windows only)"`
	PauseOnExit    bool `toml:"pause_on_exit" comment:"Wait for Enter before the program exits"`

	Database inventorydb.Config `toml:"database" comment:"Optionally upload every inventoried driver to a database"`
}

func NewConfig() *Config {
	return &Config{
		LogFile:            defaultLogPath,
		LogLevel:           LogLevelInfo,
		OutputDir:          defaultOutputPath,
		GroupBy:            grouping.DefaultStrategy,
		Source:             source.KindWMI,
		SourceTimeout:      source.DefaultTimeout.Seconds(),
		ExportCommand:      export.DefaultCommandLine,
		ExportTimeout:      export.DefaultTimeout.Seconds(),
		ExtractCommand:     archive.DefaultCommandLine,
		HardwareIDPrefixes: append([]string(nil), inf.DefaultBusPrefixes...),
		PauseOnExit:        pauseOnExitDefault,
		Database: inventorydb.Config{
			Driver: inventorydb.DriverSQLite,
			Table:  inventorydb.DefaultTable,
		},
	}
}

func secToDuration(secs float64) time.Duration {
	return time.Duration(int64(float64(time.Second) * secs))
}

func (cfg *Config) sourceTimeout() time.Duration {
	return secToDuration(cfg.SourceTimeout)
}

func (cfg *Config) exportTimeout() time.Duration {
	return secToDuration(cfg.ExportTimeout)
}

func (cfg *Config) DumpToml() string {
	buff := &bytes.Buffer{}

	err := toml.NewEncoder(buff).Encode(cfg)
	if err != nil {
		log.Errorf("DumpToml error: %s", err.Error())
		return ""
	}

	return buff.String()
}

// TryUpdateConfigFromFile applies the values of the file on top of cfg.
func TryUpdateConfigFromFile(cfg *Config, configFilePath string) error {
	_, err := os.Stat(configFilePath)
	if err != nil {
		return err
	}

	_, err = toml.DecodeFile(configFilePath, cfg)
	if err != nil {
		return errors.Wrapf(err, "while parsing %s", configFilePath)
	}
	return nil
}

func GenerateDefaultConfigFile(cfg *Config, configFilePath string) error {
	dir := filepath.Dir(configFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create the config dir '%s'", dir)
	}

	f, err := os.OpenFile(configFilePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.Wrapf(err, "failed to create the default config file '%s'", configFilePath)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "# This is the config file for drvbackup\n\n")
	if err != nil {
		return err
	}

	return toml.NewEncoder(f).Encode(cfg)
}

func (cfg *Config) validate() error {
	if err := validator.Validate(cfg); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "%s", err.Error())
	}

	if !cfg.LogLevel.IsValid() {
		return errors.Wrapf(ErrInvalidConfig, "log_level: unknown level '%s'", cfg.LogLevel)
	}
	if _, err := grouping.StrategyByName(cfg.GroupBy); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "group_by: %s", err.Error())
	}
	if _, err := export.ParseCommand(cfg.ExportCommand); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "export_command: %s", err.Error())
	}
	if _, err := source.New(cfg.Source, cfg.sourceTimeout()); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "source: %s", err.Error())
	}
	if cfg.ExtractCommand != "" {
		if _, err := archive.ParseCommand(cfg.ExtractCommand); err != nil {
			return errors.Wrapf(ErrInvalidConfig, "extract_command: %s", err.Error())
		}
	}
	if cfg.Database.Enabled() {
		if err := cfg.Database.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidConfig, "database: %s", err.Error())
		}
	}

	return nil
}

// HandleAllConfigSetup prepares the Config object.
// It creates the default config file when it's missing, then reads and validates it.
func HandleAllConfigSetup(configFilePath string) (*Config, error) {
	cfg := NewConfig()

	_, err := os.Stat(configFilePath)
	if os.IsNotExist(err) {
		err = GenerateDefaultConfigFile(cfg, configFilePath)
		if err != nil {
			return nil, err
		}
		log.Infof("[CONFIG] default config written to %s", configFilePath)
	}

	err = TryUpdateConfigFromFile(cfg, configFilePath)
	if err != nil {
		return nil, err
	}

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
