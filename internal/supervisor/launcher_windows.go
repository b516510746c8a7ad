//go:build windows

package supervisor

import (
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/tang-vu/devboot/internal/errors"
)

// gitBashPaths are the standard Git for Windows install locations. The
// original target audience runs project commands under Git Bash, so these
// are probed before falling back to whatever bash PATH resolves.
var gitBashPaths = []string{
	`C:\Program Files\Git\bin\bash.exe`,
	`C:\Program Files (x86)\Git\bin\bash.exe`,
	`C:\Git\bin\bash.exe`,
}

// findShell locates Git Bash, falling back to bash on PATH.
func findShell() (string, error) {
	for _, p := range gitBashPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if shell, err := exec.LookPath("bash"); err == nil {
		return shell, nil
	}
	return "", errors.ErrShellNotFound
}

// sysProcAttr suppresses the console window a shell child would otherwise
// pop up.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}

// killTree kills the child and its entire descendant tree via taskkill,
// since shell-spawned interpreters commonly fork children of their own.
// A direct kill is the fallback.
func killTree(lc *liveChild) {
	if lc == nil || lc.cmd.Process == nil {
		return
	}
	pid := lc.cmd.Process.Pid
	kill := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid))
	kill.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
	if err := kill.Run(); err != nil {
		_ = lc.cmd.Process.Kill()
	}
}
