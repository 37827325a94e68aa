package source

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
)

const (
	KindWMI      = "wmi"
	KindSetupAPI = "setupapi"

	DefaultTimeout = 60 * time.Second
)

var (
	ErrNotSupported  = errors.New("source: not supported on this platform")
	ErrUnknownSource = errors.New("source: unknown driver source")
	ErrNoINFFiles    = errors.New("source: no INF files found")
)

// Source supplies the driver records of one inventory run.
// Fields a source cannot provide are left empty.
type Source interface {
	Drivers(ctx context.Context) ([]driver.Record, error)
}

// WMI reads the signed driver list (Win32_PnPSignedDriver) of the running system.
type WMI struct {
	Timeout time.Duration
}

// SetupAPI enumerates present devices and the driver installed for each of them.
type SetupAPI struct{}

// New returns the live-system source named kind.
func New(kind string, timeout time.Duration) (Source, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindWMI:
		return &WMI{Timeout: timeout}, nil
	case KindSetupAPI:
		return &SetupAPI{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownSource, "'%s', expected %s or %s", kind, KindWMI, KindSetupAPI)
	}
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
