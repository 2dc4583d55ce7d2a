//go:build windows

package transport

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

func elevate(cmd entities.Command) (string, []string) {
	if windows.GetCurrentProcessToken().IsElevated() {
		return cmd.Name, cmd.Args
	}
	return "powershell", runAsArgs(cmd)
}

func hideWindow(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
