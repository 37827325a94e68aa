// +build windows

package drvbackup

import (
	"golang.org/x/sys/windows"
)

// CheckPrivileges fails unless the process token is elevated.
func CheckPrivileges() error {
	if !windows.GetCurrentProcessToken().IsElevated() {
		return ErrNotElevated
	}
	return nil
}
