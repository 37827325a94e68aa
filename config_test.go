package drvbackup

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/troian/toml"

	"github.com/cloudradar-monitoring/drvbackup/pkg/export"
	"github.com/cloudradar-monitoring/drvbackup/pkg/grouping"
	"github.com/cloudradar-monitoring/drvbackup/pkg/inf"
	"github.com/cloudradar-monitoring/drvbackup/pkg/inventorydb"
	"github.com/cloudradar-monitoring/drvbackup/pkg/source"
)

func writeTempConfig(t *testing.T, content string) string {
	tmpFile, err := ioutil.TempFile("", "drvbackup-config")
	require.NoError(t, err)
	tmpFile.Close()

	err = ioutil.WriteFile(tmpFile.Name(), []byte(content), 0644)
	require.NoError(t, err)
	return tmpFile.Name()
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, grouping.DefaultStrategy, cfg.GroupBy)
	assert.Equal(t, source.KindWMI, cfg.Source)
	assert.Equal(t, export.DefaultCommandLine, cfg.ExportCommand)
	assert.Equal(t, inf.DefaultBusPrefixes, cfg.HardwareIDPrefixes)
	assert.False(t, cfg.IncludeMicrosoft)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, inventorydb.DefaultTable, cfg.Database.Table)
	assert.NoError(t, cfg.validate())

	// the defaults must not share the prefix list
	cfg.HardwareIDPrefixes[0] = "changed"
	assert.NotEqual(t, "changed", inf.DefaultBusPrefixes[0])
}

func TestSecToDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, secToDuration(1.5))

	cfg := &Config{SourceTimeout: 30, ExportTimeout: 0.25}
	assert.Equal(t, 30*time.Second, cfg.sourceTimeout())
	assert.Equal(t, 250*time.Millisecond, cfg.exportTimeout())
}

func TestTryUpdateConfigFromFile(t *testing.T) {
	config := NewConfig()

	const sampleConfig = `
output_dir = "/backups"
group_by = "guid-version"
include_microsoft = true
export_timeout = 12.5
hardware_id_prefixes = ['pci\', 'usb\']

[database]
  driver = "postgres"
  dsn = "postgres://drv@127.0.0.1/inventory"
  table = "inv"
`
	path := writeTempConfig(t, sampleConfig)
	defer os.Remove(path)

	err := TryUpdateConfigFromFile(config, path)
	require.NoError(t, err)

	assert.Equal(t, "/backups", config.OutputDir)
	assert.Equal(t, grouping.StrategyGUIDVersion, config.GroupBy)
	assert.True(t, config.IncludeMicrosoft)
	assert.Equal(t, 12.5, config.ExportTimeout)
	assert.Equal(t, []string{`pci\`, `usb\`}, config.HardwareIDPrefixes)
	assert.Equal(t, inventorydb.Config{Driver: "postgres", DSN: "postgres://drv@127.0.0.1/inventory", Table: "inv"}, config.Database)

	// untouched keys keep their defaults
	assert.Equal(t, export.DefaultCommandLine, config.ExportCommand)

	err = TryUpdateConfigFromFile(config, path+".missing")
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateDefaultConfigFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "drvbackup-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	cfg := NewConfig()
	cfg.LogLevel = LogLevelDebug
	cfg.OutputDir = "/srv/drivers"

	path := filepath.Join(dir, "nested", "drvbackup.conf")
	err = GenerateDefaultConfigFile(cfg, path)
	require.NoError(t, err)

	loaded := &Config{}
	_, err = toml.DecodeFile(path, loaded)
	require.NoError(t, err)

	if !assert.ObjectsAreEqual(*cfg, *loaded) {
		t.Errorf("expected %+v, got %+v", *cfg, *loaded)
	}

	// an existing file is never overwritten
	err = GenerateDefaultConfigFile(NewConfig(), path)
	assert.Error(t, err)
}

func TestDumpToml(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.DSN = "inventory.db"

	dumped := cfg.DumpToml()
	assert.Contains(t, dumped, "output_dir")
	assert.Contains(t, dumped, "[database]")

	loaded := &Config{}
	_, err := toml.DecodeReader(strings.NewReader(dumped), loaded)
	require.NoError(t, err)
	assert.Equal(t, cfg.Database, loaded.Database)
}

func TestHandleAllConfigSetup(t *testing.T) {
	t.Run("config-file-does-exist", func(t *testing.T) {
		const sampleConfig = `
log_level = "debug"
output_dir = "/backups"
group_by = "class"
source = "setupapi"
`
		path := writeTempConfig(t, sampleConfig)
		defer os.Remove(path)

		config, err := HandleAllConfigSetup(path)
		require.NoError(t, err)

		assert.Equal(t, LogLevelDebug, config.LogLevel)
		assert.Equal(t, "/backups", config.OutputDir)
		assert.Equal(t, grouping.StrategyClass, config.GroupBy)
		assert.Equal(t, source.KindSetupAPI, config.Source)
	})

	t.Run("config-file-does-not-exist", func(t *testing.T) {
		tmpFile, err := ioutil.TempFile("", "drvbackup-config")
		require.NoError(t, err)
		tmpFile.Close()
		configFilePath := tmpFile.Name()
		require.NoError(t, os.Remove(configFilePath))
		defer os.Remove(configFilePath)

		_, err = HandleAllConfigSetup(configFilePath)
		require.NoError(t, err)

		_, err = os.Stat(configFilePath)
		require.NoError(t, err)

		loaded := &Config{}
		_, err = toml.DecodeFile(configFilePath, loaded)
		require.NoError(t, err)

		if !assert.ObjectsAreEqual(*NewConfig(), *loaded) {
			t.Errorf("expected %+v, got %+v", *NewConfig(), *loaded)
		}
	})

	invalid := []struct {
		name   string
		config string
	}{
		{"unknown-group-by", `group_by = "vendor"`},
		{"unknown-log-level", `log_level = "trace"`},
		{"unknown-source", `source = "registry"`},
		{"empty-output-dir", `output_dir = ""`},
		{"empty-export-command", `export_command = ""`},
		{"short-export-timeout", `export_timeout = 0.5`},
		{"invalid-table", "[database]\n  dsn = \"inventory.db\"\n  table = \"inv; DROP TABLE x\""},
		{"invalid-driver", "[database]\n  driver = \"oracle\"\n  dsn = \"x\""},
	}

	for _, c := range invalid {
		t.Run(c.name, func(t *testing.T) {
			path := writeTempConfig(t, c.config)
			defer os.Remove(path)

			_, err := HandleAllConfigSetup(path)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}

	t.Run("malformed-file", func(t *testing.T) {
		path := writeTempConfig(t, `output_dir = [`)
		defer os.Remove(path)

		_, err := HandleAllConfigSetup(path)
		assert.Error(t, err)
	})
}
