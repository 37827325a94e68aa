// +build !windows

package drvbackup

import "os"

// CheckPrivileges fails unless running as root.
func CheckPrivileges() error {
	if os.Geteuid() != 0 {
		return ErrNotElevated
	}
	return nil
}
