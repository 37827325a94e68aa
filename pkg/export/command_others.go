// +build !windows

package export

import (
	"os/exec"
	"syscall"
)

func osSpecificCommandConfig(cmd *exec.Cmd) {
	// run the tool in its own process group
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: 0}
}
