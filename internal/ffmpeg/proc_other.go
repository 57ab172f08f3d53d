//go:build !unix

package ffmpeg

import "os/exec"

func detach(cmd *exec.Cmd) {}
