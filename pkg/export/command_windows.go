// +build windows

package export

import (
	"os/exec"
	"syscall"
)

func osSpecificCommandConfig(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
