//go:build !unix

package speech

import "os/exec"

func configureProcess(*exec.Cmd) {}

func terminate(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
