package grouping

import (
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cloudradar-monitoring/drvbackup/pkg/common"
	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
)

// Package is a single export action covering every device record installed
// from one driver package.
type Package struct {
	Identity string
	// Section is the first key component of the group the package was first seen in
	Section string
	// Folder is the package folder label inside the section folder
	Folder  string
	Records []driver.Record
}

// SectionFolder returns the label of the folder holding the package folder.
func (p Package) SectionFolder() string {
	return Label(p.Section)
}

// RelPath returns the package folder relative to the backup root with '/' separators.
func (p Package) RelPath() string {
	return path.Join(p.SectionFolder(), p.Folder)
}

// Primary returns the record the package folder is named after.
func (p Package) Primary() driver.Record {
	if len(p.Records) == 0 {
		return driver.Record{}
	}
	return p.Records[0]
}

// PlanExports turns groups into export actions, one per distinct package identity.
// Records whose identity may not be exported are returned as skipped.
// Packages follow the group order; records of a package keep their group order.
func PlanExports(groups []Aggregate) (packages []Package, skipped []driver.Record) {
	index := map[string]int{}
	usedFolders := map[string]bool{}

	for _, g := range groups {
		section := ""
		if len(g.Key) > 0 {
			section = g.Key[0]
		}

		for _, r := range g.Records {
			id, ok := r.PackageIdentity()
			if !ok {
				skipped = append(skipped, r)
				continue
			}

			if i, seen := index[id]; seen {
				packages[i].Records = append(packages[i].Records, r)
				continue
			}

			p := Package{Identity: id, Section: section, Records: []driver.Record{r}}
			p.Folder = packageFolder(r, id, Label(section), usedFolders)
			index[id] = len(packages)
			packages = append(packages, p)
		}
	}

	return packages, skipped
}

// packageFolder names a package folder "<device>_<version> Package" and appends
// the package identity when another package of the section already took the name.
// The suffix is kept whole, the device part is cut to make room for it.
func packageFolder(r driver.Record, identity, section string, used map[string]bool) string {
	name := common.OrDefault(r.DeviceName, "Unknown_Device")
	version := common.OrDefault(r.DriverVersion, "Unknown_Version")

	base := Label(name, version+" Package")
	id := truncateLabel(Label(strings.TrimSuffix(identity, ".inf")), MaxLabelLength/2)

	folder := base
	for n := 1; used[strings.ToLower(path.Join(section, folder))]; n++ {
		suffix := " " + id
		if n > 1 {
			suffix += "_" + strconv.Itoa(n)
		}
		folder = truncateLabel(base, MaxLabelLength-utf8.RuneCountInString(suffix)) + suffix
	}

	used[strings.ToLower(path.Join(section, folder))] = true
	return folder
}

// ExportCount returns the number of records covered by packages.
func ExportCount(packages []Package) int {
	n := 0
	for _, p := range packages {
		n += len(p.Records)
	}
	return n
}
