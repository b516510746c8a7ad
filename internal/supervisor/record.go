package supervisor

// MaxRestartAttempts bounds crash-triggered respawns per supervision
// session. The counter is reset only by an explicit stop or a successful
// manual start.
const MaxRestartAttempts uint32 = 5

// ProcessStatus is the lifecycle state of a supervised process.
type ProcessStatus int

const (
	// StatusStopped means no live child. Initial and terminal.
	StatusStopped ProcessStatus = iota
	// StatusRunning means a live child exists and is being monitored.
	StatusRunning
	// StatusRestarting means the child exited abnormally and a respawn is
	// scheduled. The child handle is absent during this window.
	StatusRestarting
	// StatusError is the terminal failure state: respawn attempts were
	// exhausted, or a launch/monitor I/O error occurred.
	StatusError
)

// String returns the lowercase status name used in events and the CLI.
func (s ProcessStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusRunning:
		return "running"
	case StatusRestarting:
		return "restarting"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// CommandSpec describes how to launch a project's process: a working
// directory and an ordered list of shell commands. The commands are joined
// with logical AND after a cd into the directory, so each step runs only if
// the previous one succeeded. A CommandSpec is immutable per launch; the
// record retains a copy so a crash-restart can re-launch identically.
type CommandSpec struct {
	// Dir is the working directory the shell changes into first.
	Dir string
	// Commands are the shell command strings, run in order.
	Commands []string
}

// clone returns a deep copy so later caller mutations cannot leak into a
// retained spec.
func (c CommandSpec) clone() CommandSpec {
	return CommandSpec{
		Dir:      c.Dir,
		Commands: append([]string(nil), c.Commands...),
	}
}

// record is the mutable state of one supervised process. One record exists
// per project ID once its process has been started in this run; it is never
// deleted by stop, only reset to StatusStopped with the handle cleared.
//
// All fields except logs are guarded by the registry lock. The child handle
// and its stdin writer are exclusively owned by the supervisor goroutine
// that currently holds the record's supervision session; the invariant is
// child != nil iff status is StatusRunning (the Restarting window has no
// handle). logs has its own lock and may be read without the registry lock.
type record struct {
	projectID      string
	status         ProcessStatus
	child          *liveChild
	logs           *LogBuffer
	restartCount   uint32
	restartOnCrash bool
	spec           CommandSpec

	// session is the supervision-session generation. It is bumped by every
	// explicit start and stop; a monitor loop that observes a session other
	// than its own has been superseded and must exit without acting.
	session uint64
}

// newRecord creates a stopped record for a project.
func newRecord(projectID string) *record {
	return &record{
		projectID: projectID,
		status:    StatusStopped,
		logs:      NewLogBuffer(),
	}
}
