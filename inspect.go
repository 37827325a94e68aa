package drvbackup

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cloudradar-monitoring/drvbackup/pkg/archive"
	"github.com/cloudradar-monitoring/drvbackup/pkg/common"
	"github.com/cloudradar-monitoring/drvbackup/pkg/inf"
	"github.com/cloudradar-monitoring/drvbackup/pkg/report"
)

const (
	FormatText = "text"
	FormatYAML = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

type InspectOptions struct {
	// OutputDir receives the scan summaries when set, nothing is written otherwise
	OutputDir string
	GroupBy   string
	Format    string
}

// Inspect unpacks a driver archive (.zip, .cab) or takes a single .inf file and
// prints what the INF files inside declare.
func (d *Drvbackup) Inspect(ctx context.Context, path string, opts InspectOptions) (*ScanResult, error) {
	format := strings.ToLower(common.OrDefault(opts.Format, FormatText))
	if format != FormatText && format != FormatYAML {
		return nil, errors.Wrapf(ErrUnknownFormat, "'%s', expected %s or %s", opts.Format, FormatText, FormatYAML)
	}

	extractor, err := archive.ForFile(path, d.cabExtractor())
	if err != nil {
		return nil, err
	}

	tmp, err := ioutil.TempDir("", "drvbackup-inspect")
	if err != nil {
		return nil, errors.Wrap(err, "while creating a temporary directory")
	}
	defer os.RemoveAll(tmp)

	if err = extractor.Extract(ctx, path, tmp); err != nil {
		return nil, errors.Wrapf(err, "while extracting %s", path)
	}

	// YAML output stays machine readable
	progress := d.Stdout
	if format == FormatYAML {
		progress = ioutil.Discard
	}

	res, err := d.scan(ctx, tmp, opts.GroupBy, progress)
	if err != nil {
		return nil, err
	}

	if log.IsLevelEnabled(log.DebugLevel) {
		for _, pf := range res.Parsed {
			log.Debugf("[INSPECT] %s", spew.Sdump(pf))
		}
	}

	if format == FormatYAML {
		err = d.printYAML(res, tmp)
	} else {
		err = report.WriteScanText(d.Stdout, d.scanHeader(res), res.Strategy, res.Groups)
	}
	if err != nil {
		return res, err
	}

	if opts.OutputDir != "" {
		res.OutputDir = opts.OutputDir
		if err = d.writeScanReports(res); err != nil {
			return res, err
		}
		fmt.Fprintf(progress, "Reports written to %s\n", res.OutputDir)
	}

	return res, nil
}

func (d *Drvbackup) cabExtractor() archive.Extractor {
	if d.Config.ExtractCommand == "" {
		return nil
	}

	cmd, err := archive.ParseCommand(d.Config.ExtractCommand)
	if err != nil {
		log.WithError(err).Warn("[INSPECT] ignoring extract_command")
		return nil
	}
	return cmd
}

type inspectDocument struct {
	File          string                `yaml:"file"`
	Encoding      inf.Encoding          `yaml:"encoding"`
	Version       inspectVersion        `yaml:"version"`
	Manufacturers []inspectManufacturer `yaml:"manufacturers,omitempty"`
	Sections      []inspectSection      `yaml:"device_sections,omitempty"`
	Strings       int                   `yaml:"strings"`
}

type inspectVersion struct {
	Class         string `yaml:"class,omitempty"`
	ClassGUID     string `yaml:"class_guid,omitempty"`
	Provider      string `yaml:"provider,omitempty"`
	DriverVersion string `yaml:"driver_version,omitempty"`
	DriverDate    string `yaml:"driver_date,omitempty"`
	CatalogFile   string `yaml:"catalog_file,omitempty"`
}

type inspectManufacturer struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
}

type inspectSection struct {
	Name    string          `yaml:"name"`
	Devices []inspectDevice `yaml:"devices"`
}

type inspectDevice struct {
	Line        int    `yaml:"line"`
	Description string `yaml:"description"`
	Install     string `yaml:"install_section"`
	HardwareID  string `yaml:"hardware_id"`
}

func newInspectDocument(pf *inf.ParsedFile, root string) inspectDocument {
	doc := inspectDocument{
		File:     relativeSource(root, pf.Name),
		Encoding: pf.Encoding,
		Version: inspectVersion{
			Class:         pf.Version.Class,
			ClassGUID:     pf.Version.ClassGUID,
			Provider:      pf.Strings.Resolve(pf.Version.Provider),
			DriverVersion: pf.Version.DriverVersion,
			DriverDate:    pf.Version.DriverDate,
			CatalogFile:   pf.Version.CatalogFile,
		},
		Strings: pf.Strings.Len(),
	}

	for _, m := range pf.Manufacturers {
		doc.Manufacturers = append(doc.Manufacturers, inspectManufacturer{Name: pf.Strings.Resolve(m.Name), Target: m.Target})
	}

	names := make([]string, 0, len(pf.DeviceSections))
	for name := range pf.DeviceSections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		section := inspectSection{Name: name}
		for _, l := range pf.DeviceSections[name] {
			section.Devices = append(section.Devices, inspectDevice{
				Line:        l.Line,
				Description: pf.Strings.Resolve(l.Description),
				Install:     l.InstallSection,
				HardwareID:  l.HardwareID,
			})
		}
		doc.Sections = append(doc.Sections, section)
	}

	return doc
}

func (d *Drvbackup) printYAML(res *ScanResult, root string) error {
	docs := make([]inspectDocument, 0, len(res.Parsed))
	for _, pf := range res.Parsed {
		docs = append(docs, newInspectDocument(pf, root))
	}

	enc := yaml.NewEncoder(d.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return errors.Wrap(err, "while encoding YAML")
	}
	return enc.Close()
}
