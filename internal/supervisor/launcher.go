package supervisor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/tang-vu/devboot/internal/errors"
)

// liveChild bundles the exclusive ownership of a spawned OS process: the
// exec handle, its writable stdin, and the readable output pipes. The
// supervisor reaps the child through a single waiter goroutine that closes
// done once Wait returns; exitCode and waitErr are valid only after done
// is closed.
type liveChild struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	done     chan struct{}
	exitCode int
	waitErr  error // non-exit failure from the OS-level wait call
}

// Launcher builds and spawns the OS-level child process for a CommandSpec.
// It does not parse or interpret the commands; it delegates the whole
// script to a host shell interpreter.
type Launcher struct {
	shell    string
	shellErr error
}

// NewLauncher creates a Launcher using the discovered host shell. If no
// shell resolves, discovery is not retried; every Launch fails with
// ErrShellNotFound.
func NewLauncher() *Launcher {
	shell, err := findShell()
	return &Launcher{shell: shell, shellErr: err}
}

// Shell returns the shell interpreter path the launcher invokes.
func (l *Launcher) Shell() string {
	return l.shell
}

// Launch spawns a child running the spec's commands. The child gets its own
// pipes for stdin, stdout, and stderr (nothing inherited), UTF-8 forced
// through the environment for interpreters that default to a platform
// locale, and the platform attributes needed for group kill or console
// suppression. A failure to create the process is returned as a
// LaunchError and is never retried here.
func (l *Launcher) Launch(spec CommandSpec) (*liveChild, error) {
	if l.shellErr != nil {
		return nil, l.shellErr
	}
	cmd := exec.Command(l.shell, "-c", buildScript(spec))
	cmd.Env = append(os.Environ(),
		"PYTHONIOENCODING=utf-8",
		"PYTHONUTF8=1",
		"LANG=en_US.UTF-8",
		"LC_ALL=en_US.UTF-8",
	)
	cmd.SysProcAttr = sysProcAttr()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.NewLaunchError(l.shell, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.NewLaunchError(l.shell, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.NewLaunchError(l.shell, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.NewLaunchError(l.shell, err)
	}

	return &liveChild{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		done:   make(chan struct{}),
	}, nil
}

// buildScript assembles the single shell invocation: cd into the working
// directory, then each command joined with logical AND so a step runs only
// if the previous one succeeded. The directory is normalized to forward
// slashes for the host shell (Git Bash on Windows expects them).
func buildScript(spec CommandSpec) string {
	dir := strings.ReplaceAll(spec.Dir, `\`, "/")
	parts := make([]string, 0, len(spec.Commands)+1)
	parts = append(parts, fmt.Sprintf("cd '%s'", dir))
	parts = append(parts, spec.Commands...)
	return strings.Join(parts, " && ")
}
