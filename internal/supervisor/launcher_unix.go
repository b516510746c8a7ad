//go:build unix

package supervisor

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/tang-vu/devboot/internal/errors"
)

// findShell locates the host shell interpreter: the user's $SHELL, then
// bash, then sh.
func findShell() (string, error) {
	if shell := os.Getenv("SHELL"); shell != "" {
		if path, err := exec.LookPath(shell); err == nil {
			return path, nil
		}
	}
	if shell, err := exec.LookPath("bash"); err == nil {
		return shell, nil
	}
	if shell, err := exec.LookPath("sh"); err == nil {
		return shell, nil
	}
	return "", errors.ErrShellNotFound
}

// sysProcAttr puts the child in its own process group so killTree can
// signal the shell and every descendant it forked in one call.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// killTree kills the child's entire process group. Shell-spawned
// interpreters commonly fork children of their own; signaling the group
// (negative pid) takes the whole tree down. A direct kill is the fallback
// if the group signal fails.
func killTree(lc *liveChild) {
	if lc == nil || lc.cmd.Process == nil {
		return
	}
	pid := lc.cmd.Process.Pid
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil {
		_ = lc.cmd.Process.Kill()
	}
}
