package supervisor

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/tang-vu/devboot/internal/errors"
	"github.com/tang-vu/devboot/internal/event"
	"github.com/tang-vu/devboot/internal/logging"
)

const (
	// defaultPollInterval is how often a monitor loop checks its child's
	// exit status. Polling (rather than a blocking wait) lets the loop be
	// torn down cooperatively without relying on signal delivery.
	defaultPollInterval = 500 * time.Millisecond

	// defaultRestartBackoff is the fixed (non-exponential) delay before a
	// crash-triggered respawn.
	defaultRestartBackoff = 2000 * time.Millisecond

	// defaultRestartDelay is the stop-to-start gap in an explicit Restart.
	defaultRestartDelay = 500 * time.Millisecond

	timeLayout = "15:04:05"

	maxLineBytes = 1024 * 1024
)

// Supervisor orchestrates the lifecycle of supervised project processes.
// It owns the registry, the per-process monitor loops, and the restart
// policy. All methods are safe for concurrent use.
type Supervisor struct {
	reg      *registry
	launcher *Launcher
	sink     event.Sink
	logger   *logging.Logger

	pollInterval   time.Duration
	restartBackoff time.Duration
	restartDelay   time.Duration

	// tasks tracks every background goroutine (monitors, pumps, reapers)
	// so Shutdown can wait for their natural exit instead of leaking them.
	tasks conc.WaitGroup
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithSink sets the event sink. Defaults to a no-op sink.
func WithSink(sink event.Sink) Option {
	return func(s *Supervisor) { s.sink = sink }
}

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Supervisor) { s.logger = logger.WithComponent("supervisor") }
}

// WithPollInterval overrides the monitor poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Supervisor) { s.pollInterval = d }
}

// WithRestartBackoff overrides the fixed crash-respawn backoff.
func WithRestartBackoff(d time.Duration) Option {
	return func(s *Supervisor) { s.restartBackoff = d }
}

// WithRestartDelay overrides the stop-to-start gap used by Restart.
func WithRestartDelay(d time.Duration) Option {
	return func(s *Supervisor) { s.restartDelay = d }
}

// New creates a Supervisor. With no options it publishes to a no-op sink,
// discards diagnostics, and uses the production intervals.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{
		reg:            newRegistry(),
		launcher:       NewLauncher(),
		sink:           event.NopSink{},
		logger:         logging.NopLogger(),
		pollInterval:   defaultPollInterval,
		restartBackoff: defaultRestartBackoff,
		restartDelay:   defaultRestartDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the project's process and begins supervising it.
// Returns ErrAlreadyRunning if the process is already live; a LaunchError
// from the OS is surfaced as-is and never retried here. Starting from
// Stopped or Error is permitted and resets the restart counter.
func (s *Supervisor) Start(id string, spec CommandSpec, restartOnCrash bool) error {
	already := false
	s.reg.with(id, func(r *record) {
		already = r.status == StatusRunning
	})
	if already {
		return errors.ErrAlreadyRunning
	}

	child, err := s.launcher.Launch(spec)
	if err != nil {
		s.logger.Error("failed to start project", "project_id", id, "error", err)
		return err
	}

	var session uint64
	lost := false
	s.reg.upsert(id, func(r *record) {
		if r.status == StatusRunning {
			lost = true // concurrent Start won the race
			return
		}
		r.session++
		r.status = StatusRunning
		r.child = child
		r.restartCount = 0
		r.restartOnCrash = restartOnCrash
		r.spec = spec.clone()
		session = r.session
	})
	if lost {
		killTree(child)
		s.discard(child)
		return errors.ErrAlreadyRunning
	}

	s.sink.Publish(event.NewStatusChangedEvent(id, StatusRunning.String()))
	s.logger.Info("project started",
		"project_id", id,
		"pid", child.cmd.Process.Pid,
		"restart_on_crash", restartOnCrash)

	s.attach(id, child)
	s.tasks.Go(func() { s.monitor(id, session, child) })
	return nil
}

// Stop kills the project's process (including its descendant tree where
// the platform supports it), waits for the OS-level reap, clears the
// handle, and resets the restart counter. Stopping an already-stopped or
// unknown project is a no-op success.
func (s *Supervisor) Stop(id string) error {
	var (
		found bool
		lc    *liveChild
	)
	s.reg.with(id, func(r *record) {
		found = true
		lc = r.child
		r.child = nil
		r.status = StatusStopped
		r.restartCount = 0
		r.session++
	})
	if !found {
		return nil
	}

	if lc != nil {
		killTree(lc)
		<-lc.done
		_ = lc.stdin.Close()
	}

	s.sink.Publish(event.NewStatusChangedEvent(id, StatusStopped.String()))
	s.logger.Info("project stopped", "project_id", id)
	return nil
}

// StopAll applies Stop to every record with a live child. Used at shutdown.
func (s *Supervisor) StopAll() {
	for _, id := range s.reg.ids() {
		live := false
		s.reg.with(id, func(r *record) { live = r.child != nil })
		if live {
			_ = s.Stop(id)
		}
	}
}

// Shutdown stops every supervised process and then waits for all
// background monitor, pump, and reaper goroutines to exit.
func (s *Supervisor) Shutdown() {
	s.StopAll()
	s.tasks.Wait()
}

// Restart stops the project's process, waits a short fixed delay, and
// starts it again with the retained CommandSpec and policy. Returns
// ErrProjectNotFound if the project was never started in this run.
func (s *Supervisor) Restart(id string) error {
	var (
		found bool
		spec  CommandSpec
		roc   bool
	)
	s.reg.with(id, func(r *record) {
		found = true
		spec = r.spec.clone()
		roc = r.restartOnCrash
	})
	if !found {
		return errors.ErrProjectNotFound
	}

	if err := s.Stop(id); err != nil {
		return err
	}
	time.Sleep(s.restartDelay)
	return s.Start(id, spec, roc)
}

// Status returns the project's process status. Unknown projects are
// reported as StatusStopped.
func (s *Supervisor) Status(id string) ProcessStatus {
	status := StatusStopped
	s.reg.with(id, func(r *record) { status = r.status })
	return status
}

// Statuses returns a snapshot of every known project's status.
func (s *Supervisor) Statuses() map[string]ProcessStatus {
	out := make(map[string]ProcessStatus)
	s.reg.each(func(r *record) {
		out[r.projectID] = r.status
	})
	return out
}

// IsRunning reports whether the project's process is currently live.
func (s *Supervisor) IsRunning(id string) bool {
	return s.Status(id) == StatusRunning
}

// Logs returns a copy of the project's scrollback, oldest line first.
// Empty for unknown projects.
func (s *Supervisor) Logs(id string) []string {
	if buf := s.reg.logs(id); buf != nil {
		return buf.Snapshot()
	}
	return nil
}

// ClearLogs discards the project's scrollback.
func (s *Supervisor) ClearLogs(id string) {
	if buf := s.reg.logs(id); buf != nil {
		buf.Clear()
	}
}

// SendInput writes a line of text to the process's standard input, echoes
// it into the scrollback as "> text", and publishes a log event. The
// process must be Running. A failed pipe write (the child may just have
// exited) is returned to the caller but does not change process status.
func (s *Supervisor) SendInput(id, text string) error {
	stdin, err := s.stdinFor(id)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(stdin, text+"\n"); err != nil {
		return fmt.Errorf("failed to write to stdin: %w", err)
	}
	s.logLine(id, "> "+text)
	return nil
}

// SendInterrupt writes a single interrupt control byte to the process's
// standard input, emulating a foreground Ctrl+C for line-oriented
// interactive programs, and echoes "^C" into the scrollback.
func (s *Supervisor) SendInterrupt(id string) error {
	stdin, err := s.stdinFor(id)
	if err != nil {
		return err
	}
	// 0x03 is ETX, the byte a terminal sends for Ctrl+C.
	if _, err := stdin.Write([]byte{0x03}); err != nil {
		return fmt.Errorf("failed to send interrupt: %w", err)
	}
	s.logLine(id, "^C")
	return nil
}

// stdinFor validates the Running precondition and returns the retained
// stdin writer. The pipe write itself happens outside the registry lock.
func (s *Supervisor) stdinFor(id string) (io.WriteCloser, error) {
	var (
		found   bool
		running bool
		stdin   io.WriteCloser
	)
	s.reg.with(id, func(r *record) {
		found = true
		running = r.status == StatusRunning
		if r.child != nil {
			stdin = r.child.stdin
		}
	})
	if !found {
		return nil, errors.ErrProjectNotFound
	}
	if !running {
		return nil, errors.ErrNotRunning
	}
	if stdin == nil {
		return nil, errors.ErrNoStdin
	}
	return stdin, nil
}

// -----------------------------------------------------------------------------
// Background tasks
// -----------------------------------------------------------------------------

// attach starts the stream pumps and the reaper for a freshly launched
// child. Readers hold no lock across their blocking reads and terminate
// naturally when the streams close.
func (s *Supervisor) attach(id string, lc *liveChild) {
	readers := new(conc.WaitGroup)
	readers.Go(func() { s.pump(id, lc.stdout) })
	readers.Go(func() { s.pump(id, lc.stderr) })
	s.reap(lc, readers)
}

// discard drains and reaps a child that lost its record to a stop/start
// race; its output goes nowhere.
func (s *Supervisor) discard(lc *liveChild) {
	_ = lc.stdin.Close()
	readers := new(conc.WaitGroup)
	readers.Go(func() { _, _ = io.Copy(io.Discard, lc.stdout) })
	readers.Go(func() { _, _ = io.Copy(io.Discard, lc.stderr) })
	s.reap(lc, readers)
}

// reap waits for both stream readers to drain, then performs the OS-level
// wait and records the exit result. Reads must complete before Wait per
// the exec.Cmd pipe contract.
func (s *Supervisor) reap(lc *liveChild, readers *conc.WaitGroup) {
	s.tasks.Go(func() {
		readers.Wait()
		lc.exitCode, lc.waitErr = exitStatus(lc.cmd.Wait())
		close(lc.done)
	})
}

// exitStatus splits the result of Wait into an exit code and a non-exit
// error. A child terminated by a signal reports -1, which the restart
// policy treats like any other nonzero code.
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// pump drains one output stream line by line into the project's
// scrollback. Standard error is treated as ordinary log output: many
// interpreters and build tools emit routine progress there.
func (s *Supervisor) pump(id string, stream io.Reader) {
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		s.logLine(id, scanner.Text())
	}
	// A scanner error here means the pipe closed mid-line; the monitor
	// loop owns the exit handling.
}

// logLine timestamps a line, appends it to the project's scrollback under
// the buffer's own lock, and publishes a log event.
func (s *Supervisor) logLine(id, text string) {
	buf := s.reg.logs(id)
	if buf == nil {
		return
	}
	line := fmt.Sprintf("[%s] %s", time.Now().Format(timeLayout), text)
	buf.Append(line)
	s.sink.Publish(event.NewLogAppendedEvent(id, line))
}

// -----------------------------------------------------------------------------
// Monitor loop
// -----------------------------------------------------------------------------

// monitor is the per-process crash-monitor loop. One runs per supervision
// session, from a successful launch until a terminal status; it survives
// crash-respawns, adopting each new child. It self-terminates when its
// session is superseded by an explicit stop or replacement start, or when
// its record disappears.
func (s *Supervisor) monitor(id string, session uint64, child *liveChild) {
	log := s.logger.WithProject(id)

	for {
		time.Sleep(s.pollInterval)

		current := false
		s.reg.with(id, func(r *record) {
			current = r.session == session && r.status == StatusRunning
		})
		if !current {
			return
		}

		select {
		case <-child.done:
		default:
			continue // still running
		}

		code, waitErr := child.exitCode, child.waitErr
		_ = child.stdin.Close()

		if waitErr != nil {
			s.logLine(id, fmt.Sprintf("[ERR] Failed to check process status: %v", waitErr))
			if s.transition(id, session, StatusRunning, StatusError) {
				s.sink.Publish(event.NewStatusChangedEvent(id, StatusError.String()))
			}
			log.Error("wait failed", "error", waitErr)
			return
		}

		if code == 0 {
			s.logLine(id, "Process exited normally")
			if s.transition(id, session, StatusRunning, StatusStopped) {
				s.sink.Publish(event.NewStatusChangedEvent(id, StatusStopped.String()))
			}
			log.Info("process exited normally")
			return
		}

		s.logLine(id, fmt.Sprintf("[ERR] Process crashed with exit code: %d", code))

		// Restart policy: respawn while the pre-crash counter is below the
		// cap. The counter only advances on a successful respawn, so it
		// settles at the cap.
		var (
			valid       bool
			willRestart bool
			crashCount  uint32
			capped      bool
			spec        CommandSpec
		)
		s.reg.with(id, func(r *record) {
			if r.session != session || r.status != StatusRunning {
				return
			}
			valid = true
			willRestart = r.restartOnCrash && r.restartCount < MaxRestartAttempts
			crashCount = r.restartCount + 1
			capped = r.restartCount >= MaxRestartAttempts
			spec = r.spec.clone()
			r.child = nil
			if willRestart {
				r.status = StatusRestarting
			} else {
				r.status = StatusError
			}
		})
		if !valid {
			return
		}

		s.sink.Publish(event.NewCrashedEvent(id, crashCount, willRestart))

		if !willRestart {
			if capped {
				s.logLine(id, "[ERR] Max restart attempts reached. Giving up.")
			}
			s.sink.Publish(event.NewStatusChangedEvent(id, StatusError.String()))
			log.Warn("process crashed, giving up",
				"exit_code", code,
				"restart_count", crashCount-1)
			return
		}

		s.logLine(id, fmt.Sprintf("Restarting... (attempt %d/%d)", crashCount, MaxRestartAttempts))
		s.sink.Publish(event.NewStatusChangedEvent(id, StatusRestarting.String()))
		log.Warn("process crashed, restarting",
			"exit_code", code,
			"attempt", crashCount)

		time.Sleep(s.restartBackoff)

		// Re-validate after the backoff: an explicit stop or replacement
		// start may have superseded this session while we slept.
		still := false
		s.reg.with(id, func(r *record) {
			still = r.session == session && r.status == StatusRestarting
		})
		if !still {
			return
		}

		newChild, err := s.launcher.Launch(spec)
		if err != nil {
			s.logLine(id, fmt.Sprintf("[ERR] Failed to restart: %v", err))
			if s.transition(id, session, StatusRestarting, StatusError) {
				s.sink.Publish(event.NewStatusChangedEvent(id, StatusError.String()))
			}
			log.Error("respawn failed", "error", err)
			return
		}

		adopted := false
		s.reg.with(id, func(r *record) {
			if r.session != session || r.status != StatusRestarting {
				return
			}
			adopted = true
			r.child = newChild
			r.status = StatusRunning
			r.restartCount = crashCount
		})
		if !adopted {
			// Stopped underneath us between backoff and spawn.
			killTree(newChild)
			s.discard(newChild)
			return
		}

		s.logLine(id, "Process restarted successfully")
		s.sink.Publish(event.NewStatusChangedEvent(id, StatusRunning.String()))
		log.Info("process restarted", "restart_count", crashCount)

		s.attach(id, newChild)
		child = newChild
	}
}

// transition moves the record from one status to another, clearing the
// child handle, provided the session still matches. Returns false if the
// session was superseded.
func (s *Supervisor) transition(id string, session uint64, from, to ProcessStatus) bool {
	ok := false
	s.reg.with(id, func(r *record) {
		if r.session != session || r.status != from {
			return
		}
		ok = true
		r.status = to
		r.child = nil
	})
	return ok
}
