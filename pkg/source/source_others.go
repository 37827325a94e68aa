// +build !windows

package source

import (
	"context"

	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
)

func (w *WMI) Drivers(ctx context.Context) ([]driver.Record, error) {
	return nil, ErrNotSupported
}

func (s *SetupAPI) Drivers(ctx context.Context) ([]driver.Record, error) {
	return nil, ErrNotSupported
}
