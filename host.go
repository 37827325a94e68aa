package drvbackup

import (
	"os"

	"github.com/shirou/gopsutil/host"
	log "github.com/sirupsen/logrus"
)

// Hostname names the machine in reports and inventory uploads.
func Hostname() string {
	info, err := host.Info()
	if err == nil && info.Hostname != "" {
		return info.Hostname
	}
	if err != nil {
		log.WithError(err).Debug("[SYSTEM] failed to read host info")
	}

	name, err := os.Hostname()
	if err != nil {
		log.WithError(err).Warn("[SYSTEM] failed to read hostname")
		return ""
	}
	return name
}
