package source

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/cloudradar-monitoring/drvbackup/pkg/common"
	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
	"github.com/cloudradar-monitoring/drvbackup/pkg/inf"
)

const infExtension = ".inf"

// DiscoverINFs returns every file with an .inf extension (any case) below root, sorted by path.
// A root that is itself an INF file is returned as the only entry.
func DiscoverINFs(root string) ([]string, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading %s", root)
	}
	if !fi.IsDir() {
		if isINF(root) {
			return []string{root}, nil
		}
		return nil, errors.Wrapf(inf.ErrNotINF, "%s", root)
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Debugf("[SOURCE] skipping %s: %s", path, err.Error())
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Mode().IsRegular() && isINF(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "while walking %s", root)
	}

	sort.Strings(files)
	return files, nil
}

func isINF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), infExtension)
}

// INFDirectory parses every INF file below Root. Files that cannot be read are
// skipped and remembered in Errors.
type INFDirectory struct {
	Root   string
	Parser *inf.Parser

	Errors common.ErrorCollector
	Parsed []*inf.ParsedFile
}

func NewINFDirectory(root string, busPrefixes []string) *INFDirectory {
	return &INFDirectory{
		Root:   root,
		Parser: inf.NewParser(busPrefixes),
	}
}

// Files returns the INF files found below Root.
func (d *INFDirectory) Files() ([]string, error) {
	files, err := DiscoverINFs(d.Root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Wrapf(ErrNoINFFiles, "in %s", d.Root)
	}
	return files, nil
}

func (d *INFDirectory) Drivers(ctx context.Context) ([]driver.Record, error) {
	files, err := d.Files()
	if err != nil {
		return nil, err
	}

	d.Parsed = make([]*inf.ParsedFile, 0, len(files))
	var records []driver.Record
	for _, path := range files {
		pf, err := d.Parser.ParseFile(path)
		if err != nil {
			log.Debugf("[SOURCE] %s", err.Error())
			d.Errors.Add(err)
			continue
		}

		d.Parsed = append(d.Parsed, pf)
		records = append(records, pf.Records...)
	}

	log.Debugf("[SOURCE] parsed %d of %d INF files, %d driver records", len(d.Parsed), len(files), len(records))
	return records, nil
}
