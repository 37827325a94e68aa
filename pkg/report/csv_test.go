package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
	"github.com/cloudradar-monitoring/drvbackup/pkg/grouping"
)

func TestEscapeCSV(t *testing.T) {
	assert.Equal(t, `PCI\VEN_1234&DEV_5678`, EscapeCSV(`PCI\VEN_1234&DEV_5678`))
	assert.Equal(t, `"Intel, Inc."`, EscapeCSV("Intel, Inc."))
	assert.Equal(t, `"12"" Display"`, EscapeCSV(`12" Display`))
	assert.Equal(t, "\"two\nlines\"", EscapeCSV("two\nlines"))
	assert.Equal(t, "", EscapeCSV(""))
}

func TestWriteDriverInfo(t *testing.T) {
	records := []driver.Record{
		{
			DeviceName:    "ACME Disk",
			DriverVersion: "1.2.3",
			DriverDate:    "20230115000000.******+000",
			HardwareID:    `PCI\VEN_1234&DEV_5678`,
			DeviceID:      `PCI\VEN_1234&DEV_5678\4&1A2B`,
			InfIdentity:   "oem12.inf",
			Description:   `Disk, "fast"`,
			ProviderName:  "ACME",
			DeviceClass:   "DiskDrive",
			ClassGUID:     "{4d36e967-e325-11ce-bfc1-08002be10318}",
		},
		{DeviceName: "Bare"},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteDriverInfo(buf, records))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Equal(t, 3, len(lines))
	assert.Equal(t, "Device Name,Driver Version,Driver Date,Hardware ID,Device ID,INF Name,Description,Provider,Device Class,Class GUID", lines[0])
	assert.Equal(t, `ACME Disk,1.2.3,2023-01-15,PCI\VEN_1234&DEV_5678,PCI\VEN_1234&DEV_5678\4&1A2B,oem12.inf,"Disk, ""fast""",ACME,DiskDrive,{4d36e967-e325-11ce-bfc1-08002be10318}`, lines[1])
	assert.Equal(t, "Bare,Unknown,Unknown,Unknown,Unknown,Unknown,Unknown,Unknown,Unknown,Unknown", lines[2])
}

func TestWriteBackupSummary(t *testing.T) {
	records := []driver.Record{
		{DeviceName: "Disk", DeviceClass: "DiskDrive", DriverVersion: "1.0", InfIdentity: "oem12.inf", HardwareID: `PCI\VEN_1234&DEV_5678`},
		{DeviceName: "Disk Twin", DeviceClass: "DiskDrive", DriverVersion: "1.0", InfIdentity: "oem12.inf", HardwareID: `PCI\VEN_1234&DEV_5679`},
	}
	s, _ := grouping.StrategyByName("")
	packages, _ := grouping.PlanExports(grouping.Group(records, s))

	buf := &bytes.Buffer{}
	require.NoError(t, WriteBackupSummary(buf, packages))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Equal(t, 3, len(lines))
	assert.True(t, strings.HasSuffix(lines[0], ",Class GUID,Folder Name"))
	assert.Equal(t, `Disk,1.0,Unknown,PCI\VEN_1234&DEV_5678,Unknown,oem12.inf,Unknown,Unknown,DiskDrive,Unknown,DiskDrive/Disk_1.0 Package`, lines[1])
	assert.Equal(t, `Disk Twin,1.0,Unknown,PCI\VEN_1234&DEV_5679,Unknown,oem12.inf,Unknown,Unknown,DiskDrive,Unknown,DiskDrive/Disk_1.0 Package`, lines[2])
}

func TestWriteScanSummary(t *testing.T) {
	records := []driver.Record{
		{SourceFile: "a/oem1.inf", DeviceName: "NIC", HardwareID: `PCI\VEN_8086&DEV_1`, DriverVersion: "1.9.0", DriverDate: "01/15/2023"},
		{SourceFile: "b/oem2.inf", DeviceName: "NIC", HardwareID: `pci\ven_8086&dev_1`, DriverVersion: "1.10.0"},
		{SourceFile: "c/oem3.inf", DeviceName: "Odd", HardwareID: `USB\VID_1&PID_2`, DriverVersion: "not-a-version"},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteScanSummary(buf, records))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Equal(t, 4, len(lines))
	assert.Equal(t, "Source File,Device Name,Hardware ID,Manufacturer,Provider,Driver Version,Driver Date,Device Class,Class GUID,Catalog File,Latest", lines[0])
	assert.Equal(t, `a/oem1.inf,NIC,PCI\VEN_8086&DEV_1,Unknown,Unknown,1.9.0,01/15/2023,Unknown,Unknown,Unknown,no`, lines[1])
	assert.True(t, strings.HasSuffix(lines[2], ",yes"))
	assert.True(t, strings.HasSuffix(lines[3], ",Unknown"))
}

func TestHardwareIDRoundTrip(t *testing.T) {
	const hwid = `PCI\VEN_1234&DEV_5678`
	records := []driver.Record{{DeviceName: "Dev", DeviceClass: "Net", InfIdentity: "oem1.inf", HardwareID: hwid}}

	for _, name := range grouping.StrategyNames() {
		s, _ := grouping.StrategyByName(name)
		groups := grouping.Group(records, s)
		require.Equal(t, 1, len(groups))
		assert.Equal(t, hwid, groups[0].Records[0].HardwareID)

		buf := &bytes.Buffer{}
		require.NoError(t, WriteDriverInfo(buf, groups[0].Records))
		fields := strings.Split(strings.Split(buf.String(), "\n")[1], ",")
		assert.Equal(t, hwid, fields[3], name)
	}
}

func TestLatestVersions(t *testing.T) {
	records := []driver.Record{
		{HardwareID: `USB\VID_1`, DriverVersion: "2.0"},
		{HardwareID: `USB\VID_1`, DriverVersion: "10.0"},
		{HardwareID: `USB\VID_1`, DriverVersion: "10.0.0"},
		{HardwareID: "", DriverVersion: "99"},
	}
	latest := LatestVersions(records)

	assert.Equal(t, 1, len(latest))
	assert.Equal(t, "no", latest.Column(records[0]))
	assert.Equal(t, "yes", latest.Column(records[1]))
	assert.Equal(t, "yes", latest.Column(records[2]))
	assert.Equal(t, "", latest.Column(records[3]))
}
