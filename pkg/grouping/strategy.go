package grouping

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
)

const (
	StrategyClassPackage = "class-package"
	StrategyGUIDVersion  = "guid-version"
	StrategyVersion      = "version"
	StrategyClass        = "class"

	DefaultStrategy = StrategyClassPackage
)

var ErrUnknownStrategy = errors.New("grouping: unknown strategy")

// Dimension is a single grouping key. Records with an empty value go to the Unknown bucket.
type Dimension struct {
	Name string
	// Title and Plural name the dimension in text reports
	Title   string
	Plural  string
	Unknown string
	Extract func(r driver.Record) string
}

// Value returns the bucket of r along this dimension.
func (d Dimension) Value(r driver.Record) string {
	v := strings.TrimSpace(d.Extract(r))
	if v == "" {
		return d.Unknown
	}
	return v
}

var (
	ClassDimension = Dimension{
		Name:    "class",
		Title:   "Device Class",
		Plural:  "classes",
		Unknown: "Unknown_Class",
		Extract: func(r driver.Record) string { return r.DeviceClass },
	}
	PackageDimension = Dimension{
		Name:    "package",
		Title:   "Package",
		Plural:  "packages",
		Unknown: "Unknown_Package",
		Extract: func(r driver.Record) string {
			id, _ := r.PackageIdentity()
			return id
		},
	}
	ClassGUIDDimension = Dimension{
		Name:    "class_guid",
		Title:   "Class GUID",
		Plural:  "class GUIDs",
		Unknown: "Unknown_ClassGUID",
		Extract: func(r driver.Record) string { return strings.ToLower(r.ClassGUID) },
	}
	VersionDimension = Dimension{
		Name:    "version",
		Title:   "Driver Version",
		Plural:  "versions",
		Unknown: "Unknown_Version",
		Extract: func(r driver.Record) string { return r.DriverVersion },
	}
)

// Strategy is an ordered list of dimensions, the first one selects the report section.
type Strategy struct {
	Name       string
	Dimensions []Dimension
}

var strategies = []Strategy{
	{Name: StrategyClassPackage, Dimensions: []Dimension{ClassDimension, PackageDimension}},
	{Name: StrategyGUIDVersion, Dimensions: []Dimension{ClassGUIDDimension, VersionDimension}},
	{Name: StrategyVersion, Dimensions: []Dimension{VersionDimension}},
	{Name: StrategyClass, Dimensions: []Dimension{ClassDimension}},
}

// StrategyByName resolves a configured strategy name, the empty name selects DefaultStrategy.
func StrategyByName(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultStrategy
	}

	for _, s := range strategies {
		if s.Name == name {
			return s, nil
		}
	}

	return Strategy{}, errors.Wrapf(ErrUnknownStrategy, "'%s', expected one of %s", name, strings.Join(StrategyNames(), ", "))
}

func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.Name)
	}
	return names
}

// Key returns the bucket of r along every dimension of the strategy.
func (s Strategy) Key(r driver.Record) []string {
	key := make([]string, len(s.Dimensions))
	for i, d := range s.Dimensions {
		key[i] = d.Value(r)
	}
	return key
}

// Nested reports whether groups have a second level below the section.
func (s Strategy) Nested() bool {
	return len(s.Dimensions) > 1
}
