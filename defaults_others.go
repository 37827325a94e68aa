// +build !windows,!darwin

package drvbackup

const pauseOnExitDefault = false

func init() {
	DefaultCfgPath = "/etc/drvbackup/drvbackup.conf"
	defaultLogPath = "/var/log/drvbackup/drvbackup.log"
	defaultOutputPath = "/var/lib/drvbackup"
}
