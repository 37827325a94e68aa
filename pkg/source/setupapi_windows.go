// +build windows

package source

import (
	"context"
	"path/filepath"

	"github.com/gentlemanautomaton/windevice"
	"github.com/gentlemanautomaton/windevice/deviceclass"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows/registry"

	"github.com/cloudradar-monitoring/drvbackup/pkg/common"
	"github.com/cloudradar-monitoring/drvbackup/pkg/driver"
)

const driverClassKey = `SYSTEM\CurrentControlSet\Control\Class\`

func (s *SetupAPI) Drivers(ctx context.Context) ([]driver.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := windevice.DeviceQuery{
		Flags: deviceclass.Present | deviceclass.AllClasses,
	}

	var errs common.ErrorCollector
	records := make([]driver.Record, 0)
	err := query.Each(func(device windevice.Device) {
		r := driver.Record{}
		r.Description, _ = device.Description()
		r.DeviceName, _ = device.FriendlyName()
		if r.DeviceName == "" {
			r.DeviceName = r.Description
		}
		r.DeviceClass, _ = device.Class()
		r.ClassGUID, _ = device.ClassGUID()
		r.Manufacturer, _ = device.Manufacturer()

		if ids, err := device.HardwareID(); err == nil && len(ids) > 0 {
			r.HardwareID = string(ids[0])
		}
		if id, err := device.DeviceInstanceID(); err == nil {
			r.DeviceID = string(id)
		}

		installed := false
		err := device.InstalledDriver().Each(func(drv windevice.Driver) {
			installed = true
			r.ProviderName = drv.ProviderName()
			r.DriverVersion = drv.Version().String()
			if date := drv.Date(); !date.IsZero() {
				r.DriverDate = date.Format("20060102")
			}
		})
		if err != nil {
			errs.AddNewf("could not get installed driver of %s: %s", r.DeviceID, err.Error())
			return
		}
		if !installed {
			return
		}

		regName, err := device.DriverRegName()
		if err == nil {
			r.InfIdentity, err = infPath(regName)
		}
		if err != nil {
			errs.AddNewf("could not get INF of %s: %s", r.DeviceID, err.Error())
		}

		records = append(records, r)
	})
	if err != nil {
		return nil, err
	}

	if errs.HasErrors() {
		log.Debugf("[SOURCE] SetupAPI: %s", errs.String())
	}
	log.Debugf("[SOURCE] SetupAPI returned %d devices with installed drivers", len(records))

	return records, nil
}

// infPath reads the published INF name from the driver key of a device.
func infPath(regName string) (string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, driverClassKey+regName, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := k.Close(); err != nil {
			log.Warnf("[SOURCE] could not close registry key handler: %s", err.Error())
		}
	}()

	path, _, err := k.GetStringValue("InfPath")
	if err != nil {
		return "", err
	}
	return filepath.Base(path), nil
}
