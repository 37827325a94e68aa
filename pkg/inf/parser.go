package inf

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
)

// MaxFileSize is the largest INF file the parser reads (16MB).
const MaxFileSize = 16 * 1024 * 1024

// Parser turns INF files into driver records.
type Parser struct {
	hwids HardwareIDFilter
}

// NewParser creates a parser accepting hardware ids with the given bus prefixes,
// DefaultBusPrefixes when none are given.
func NewParser(busPrefixes []string) *Parser {
	return &Parser{hwids: NewHardwareIDFilter(busPrefixes)}
}

// ParseFile reads and parses an INF file from disk.
func (p *Parser) ParseFile(path string) (*ParsedFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading %s", path)
	}
	if !fi.Mode().IsRegular() {
		return nil, errors.Wrapf(ErrNotINF, "%s is not a regular file", path)
	}
	if fi.Size() > MaxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s has %d bytes", path, fi.Size())
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading %s", path)
	}

	return p.ParseBytes(data, path), nil
}

// ParseBytes parses the raw content of an INF file. name identifies the file
// in the produced records; its base name becomes the package identity.
func (p *Parser) ParseBytes(data []byte, name string) *ParsedFile {
	text, enc := Decode(data)

	pf := &ParsedFile{
		Name:           name,
		Encoding:       enc,
		Strings:        NewStringTable(),
		DeviceSections: map[string][]DeviceLine{},
	}

	var sections []string
	seen := map[string]bool{}
	var candidates []Line

	for _, line := range ScanSections(text) {
		if !seen[line.Section] {
			seen[line.Section] = true
			sections = append(sections, line.Section)
		}

		switch {
		case line.Section == sectionVersion:
			pf.Version.apply(line.Text)
		case line.Section == sectionManufacturer:
			if entry, ok := parseManufacturer(line.Text); ok {
				pf.Manufacturers = append(pf.Manufacturers, entry)
			}
		case isStringsSection(line.Section):
			pf.Strings.add(line.Section, line.Text)
		case line.Section != "":
			candidates = append(candidates, line)
		}
	}

	for i := range pf.Manufacturers {
		pf.Manufacturers[i].Name = pf.Strings.Resolve(pf.Manufacturers[i].Name)
	}

	membership := ClassifySections(pf.Manufacturers, sections)

	var ordered []sectionLine
	for _, line := range candidates {
		manufacturer, ok := membership[line.Section]
		if !ok {
			continue
		}
		dl, ok := parseDeviceLine(line)
		if !ok {
			continue
		}
		pf.DeviceSections[line.Section] = append(pf.DeviceSections[line.Section], dl)
		ordered = append(ordered, sectionLine{device: dl, manufacturer: manufacturer})
	}

	pf.Records = p.buildRecords(pf, ordered)
	return pf
}

type sectionLine struct {
	device       DeviceLine
	manufacturer string
}

func (p *Parser) buildRecords(pf *ParsedFile, lines []sectionLine) []driver.Record {
	identity := strings.ToLower(filepath.Base(pf.Name))
	provider := pf.Strings.Resolve(pf.Version.Provider)
	class := pf.Strings.Resolve(pf.Version.Class)

	records := make([]driver.Record, 0, len(lines))
	for _, l := range lines {
		if !p.hwids.Accept(l.device.HardwareID) {
			continue
		}

		description := pf.Strings.Resolve(l.device.Description)
		records = append(records, driver.Record{
			DeviceName:    description,
			Description:   description,
			DeviceClass:   class,
			ClassGUID:     pf.Version.ClassGUID,
			DriverVersion: pf.Version.DriverVersion,
			DriverDate:    pf.Version.DriverDate,
			ProviderName:  provider,
			HardwareID:    l.device.HardwareID,
			InfIdentity:   identity,
			CatalogFile:   pf.Version.CatalogFile,
			Manufacturer:  l.manufacturer,
			SourceFile:    pf.Name,
		})
	}
	return records
}

func (v *VersionBlock) apply(line string) {
	key, value, ok := splitKeyValue(line)
	if !ok {
		return
	}

	key = strings.ToLower(key)
	switch {
	case key == "driverver":
		fields := strings.SplitN(value, ",", 2)
		v.DriverDate = strings.TrimSpace(fields[0])
		v.DriverVersion = ""
		if len(fields) == 2 {
			v.DriverVersion = strings.TrimSpace(fields[1])
		}
	case key == "class":
		v.Class = unquote(value)
	case key == "classguid":
		v.ClassGUID = unquote(value)
	case key == "provider":
		v.Provider = unquote(value)
	case strings.HasPrefix(key, "catalogfile"):
		v.CatalogFile = unquote(value)
	}
}

func parseManufacturer(line string) (ManufacturerEntry, bool) {
	name, target, ok := splitKeyValue(line)
	if !ok || target == "" {
		return ManufacturerEntry{}, false
	}
	return ManufacturerEntry{Name: unquote(name), Target: target}, true
}

func parseDeviceLine(line Line) (DeviceLine, bool) {
	description, value, ok := splitKeyValue(line.Text)
	if !ok {
		return DeviceLine{}, false
	}

	fields := splitFields(value)
	if len(fields) < 2 || fields[1] == "" {
		return DeviceLine{}, false
	}

	dl := DeviceLine{
		Description:    unquote(description),
		InstallSection: fields[0],
		HardwareID:     unquote(fields[1]),
		Line:           line.Number,
	}
	for _, id := range fields[2:] {
		if id != "" {
			dl.CompatibleIDs = append(dl.CompatibleIDs, unquote(id))
		}
	}
	return dl, true
}
