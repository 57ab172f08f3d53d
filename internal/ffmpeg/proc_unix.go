//go:build unix

package ffmpeg

import (
	"os/exec"
	"syscall"
)

// detach moves the child into its own process group so Ctrl+C in the
// terminal is delivered to the parent only
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
