//go:build !windows

package transport

import (
	"os"
	"os/exec"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

func elevate(cmd entities.Command) (string, []string) {
	if os.Geteuid() == 0 {
		return cmd.Name, cmd.Args
	}
	return "sudo", sudoArgs(cmd)
}

func hideWindow(c *exec.Cmd) {}
