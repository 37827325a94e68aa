// +build windows nacl plan9

package drvbackup

import "github.com/pkg/errors"

func addSyslogHook(syslogURL string) error {
	return errors.New("syslog is not available on this platform")
}
