// +build windows

package source

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
	"github.com/cloudradar-monitoring/drvbackup/pkg/wmi"
)

// every column may be NULL
type win32_PnPSignedDriver struct {
	DeviceName         *string
	Description        *string
	DeviceClass        *string
	ClassGuid          *string
	DriverVersion      *string
	DriverDate         *string
	DriverProviderName *string
	HardWareID         *string
	DeviceID           *string
	InfName            *string
	Manufacturer       *string
}

func (w *WMI) Drivers(ctx context.Context) ([]driver.Record, error) {
	var dst []win32_PnPSignedDriver
	q := wmiutil.CreateQuery(&dst, "")

	log.Debugf("[SOURCE] querying WMI: %s", q)
	if err := wmiutil.QueryWithTimeout(ctx, w.Timeout, q, &dst); err != nil {
		return nil, err
	}

	records := make([]driver.Record, 0, len(dst))
	for _, d := range dst {
		records = append(records, driver.Record{
			DeviceName:    optionalString(d.DeviceName),
			Description:   optionalString(d.Description),
			DeviceClass:   optionalString(d.DeviceClass),
			ClassGUID:     optionalString(d.ClassGuid),
			DriverVersion: optionalString(d.DriverVersion),
			DriverDate:    optionalString(d.DriverDate),
			ProviderName:  optionalString(d.DriverProviderName),
			HardwareID:    optionalString(d.HardWareID),
			DeviceID:      optionalString(d.DeviceID),
			InfIdentity:   optionalString(d.InfName),
			Manufacturer:  optionalString(d.Manufacturer),
		})
	}

	log.Debugf("[SOURCE] WMI returned %d signed drivers", len(records))
	return records, nil
}
