// +build windows

package drvbackup

import (
	"os"
	"path/filepath"
)

// the tool is usually started from explorer, keep the console open
const pauseOnExitDefault = true

func init() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}

	exPath := filepath.Dir(ex)

	DefaultCfgPath = filepath.Join(exPath, "./drvbackup.conf")
	defaultLogPath = filepath.Join(exPath, "./drvbackup.log")
	defaultOutputPath = filepath.Join(exPath, "./driver_backups")
}
