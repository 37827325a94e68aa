package inf

import (
	"github.com/pkg/errors"

	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
)

var (
	ErrFileTooLarge = errors.New("inf: file exceeds maximum size limit")
	ErrNotINF       = errors.New("inf: not an INF file")
)

// VersionBlock holds the [Version] section of a file. Later duplicate keys win.
// Values are kept verbatim, Provider may still be a %token% reference.
type VersionBlock struct {
	DriverVersion string
	DriverDate    string
	Class         string
	ClassGUID     string
	Provider      string
	CatalogFile   string
}

// DeviceLine is a description=install,hardware_id[,compatible...] line of a device section.
type DeviceLine struct {
	Description    string
	InstallSection string
	HardwareID     string
	CompatibleIDs  []string
	Line           int
}

// ParsedFile is everything extracted from a single INF file.
type ParsedFile struct {
	Name           string
	Encoding       Encoding
	Version        VersionBlock
	Strings        *StringTable
	Manufacturers  []ManufacturerEntry
	DeviceSections map[string][]DeviceLine
	Records        []driver.Record
}
