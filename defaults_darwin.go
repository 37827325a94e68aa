// +build darwin

package drvbackup

import (
	"os"
)

const pauseOnExitDefault = false

func init() {
	DefaultCfgPath = os.Getenv("HOME") + "/.drvbackup/drvbackup.conf"
	defaultLogPath = os.Getenv("HOME") + "/.drvbackup/drvbackup.log"
	defaultOutputPath = os.Getenv("HOME") + "/drvbackup"
}
