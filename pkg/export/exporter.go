package export

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrToolUnavailable = errors.New("export: export tool could not be started")
	ErrExportFailed    = errors.New("export: export tool reported a failure")
	ErrUnsafePath      = errors.New("export: unsafe destination path")
	ErrInvalidIdentity = errors.New("export: not an exportable package identity")
)

// Result is what the export tool reported for one package.
type Result struct {
	// ExitCode is -1 when the tool did not run to completion
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Exporter copies a published driver package out of the driver store into dir.
type Exporter interface {
	Export(ctx context.Context, identity, dir string) (Result, error)
}

// CheckDestination rejects destinations the export tool could misinterpret:
// parent directory references and environment variable expansions.
func CheckDestination(dir string) error {
	if strings.Contains(dir, "..") || strings.Contains(dir, "%") {
		return errors.Wrapf(ErrUnsafePath, "%s", dir)
	}
	return nil
}

// CheckContained rejects dir unless it lies below root once both are cleaned.
func CheckContained(root, dir string) error {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(dir))
	if err != nil || rel == "." || rel == ".." || filepath.IsAbs(rel) ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.Wrapf(ErrUnsafePath, "%s is outside %s", dir, root)
	}
	return nil
}

// Call is an export recorded by DryRun.
type Call struct {
	Identity string
	Dir      string
}

// DryRun reports every export as successful without running anything.
type DryRun struct {
	Calls []Call
}

func (d *DryRun) Export(ctx context.Context, identity, dir string) (Result, error) {
	d.Calls = append(d.Calls, Call{Identity: identity, Dir: dir})
	return Result{}, nil
}
