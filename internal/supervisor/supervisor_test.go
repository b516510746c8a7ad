package supervisor

import (
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tang-vu/devboot/internal/errors"
	"github.com/tang-vu/devboot/internal/event"
)

// recordingSink captures published events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []event.Event
}

func (s *recordingSink) Publish(e event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// statuses returns the status-change sequence recorded for a project.
func (s *recordingSink) statuses(projectID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, e := range s.events {
		if sc, ok := e.(event.StatusChangedEvent); ok && sc.ProjectID == projectID {
			out = append(out, sc.Status)
		}
	}
	return out
}

// crashes returns the crash events recorded for a project.
func (s *recordingSink) crashes(projectID string) []event.CrashedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []event.CrashedEvent
	for _, e := range s.events {
		if ce, ok := e.(event.CrashedEvent); ok && ce.ProjectID == projectID {
			out = append(out, ce)
		}
	}
	return out
}

// newTestSupervisor builds a supervisor with intervals short enough for
// tests to observe several crash-restart cycles within a second.
func newTestSupervisor(sink event.Sink) *Supervisor {
	return New(
		WithSink(sink),
		WithPollInterval(10*time.Millisecond),
		WithRestartBackoff(20*time.Millisecond),
		WithRestartDelay(10*time.Millisecond),
	)
}

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

func logsContain(s *Supervisor, id, substr string) bool {
	for _, line := range s.Logs(id) {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func TestStartCapturesOutput(t *testing.T) {
	sink := &recordingSink{}
	s := newTestSupervisor(sink)
	defer s.Shutdown()

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"echo hello"}}
	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		return s.Status("p1") == StatusStopped
	}, "process to exit")

	if !logsContain(s, "p1", "hello") {
		t.Errorf("logs missing child output: %v", s.Logs("p1"))
	}
	if !logsContain(s, "p1", "Process exited normally") {
		t.Errorf("logs missing exit notice: %v", s.Logs("p1"))
	}

	got := sink.statuses("p1")
	want := []string{"running", "stopped"}
	if len(got) != len(want) {
		t.Fatalf("status sequence = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("status[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLogLinesAreTimestamped(t *testing.T) {
	s := newTestSupervisor(event.NopSink{})
	defer s.Shutdown()

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"echo stamped"}}
	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return s.Status("p1") == StatusStopped
	}, "process to exit")

	stamped := regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] `)
	for _, line := range s.Logs("p1") {
		if !stamped.MatchString(line) {
			t.Fatalf("line not timestamped: %q", line)
		}
	}
}

func TestStartWhileRunningFails(t *testing.T) {
	s := newTestSupervisor(event.NopSink{})
	defer s.Shutdown()

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"sleep 30"}}
	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if err := s.Start("p1", spec, false); !errors.Is(err, errors.ErrAlreadyRunning) {
		t.Errorf("second Start() error = %v, want ErrAlreadyRunning", err)
	}
}

func TestStopKillsRunningProcess(t *testing.T) {
	sink := &recordingSink{}
	s := newTestSupervisor(sink)
	defer s.Shutdown()

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"sleep 30"}}
	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if err := s.Stop("p1"); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if got := s.Status("p1"); got != StatusStopped {
		t.Errorf("Status() = %v, want stopped", got)
	}
	if crashes := sink.crashes("p1"); len(crashes) != 0 {
		t.Errorf("explicit stop produced crash events: %v", crashes)
	}
}

func TestStopUnknownProjectIsNoop(t *testing.T) {
	s := newTestSupervisor(event.NopSink{})
	defer s.Shutdown()

	if err := s.Stop("ghost"); err != nil {
		t.Errorf("Stop() error = %v, want nil", err)
	}
}

func TestCrashWithoutRestartPolicy(t *testing.T) {
	sink := &recordingSink{}
	s := newTestSupervisor(sink)
	defer s.Shutdown()

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"exit 3"}}
	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		return s.Status("p1") == StatusError
	}, "process to reach error status")

	if !logsContain(s, "p1", "Process crashed with exit code: 3") {
		t.Errorf("logs missing crash notice: %v", s.Logs("p1"))
	}

	crashes := sink.crashes("p1")
	if len(crashes) != 1 {
		t.Fatalf("crash events = %d, want 1", len(crashes))
	}
	if crashes[0].RestartCount != 1 || crashes[0].WillRestart {
		t.Errorf("crash event = {count:%d willRestart:%v}, want {1 false}",
			crashes[0].RestartCount, crashes[0].WillRestart)
	}
}

func TestCrashRestartsUntilCap(t *testing.T) {
	sink := &recordingSink{}
	s := newTestSupervisor(sink)
	defer s.Shutdown()

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"exit 1"}}
	if err := s.Start("p1", spec, true); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	waitFor(t, 10*time.Second, func() bool {
		return s.Status("p1") == StatusError
	}, "restart attempts to be exhausted")

	crashes := sink.crashes("p1")
	if len(crashes) != int(MaxRestartAttempts)+1 {
		t.Fatalf("crash events = %d, want %d", len(crashes), MaxRestartAttempts+1)
	}
	for i, ce := range crashes {
		if ce.RestartCount != uint32(i)+1 {
			t.Errorf("crash[%d].RestartCount = %d, want %d", i, ce.RestartCount, i+1)
		}
		wantRestart := i < int(MaxRestartAttempts)
		if ce.WillRestart != wantRestart {
			t.Errorf("crash[%d].WillRestart = %v, want %v", i, ce.WillRestart, wantRestart)
		}
	}

	if !logsContain(s, "p1", "Restarting... (attempt 1/5)") {
		t.Errorf("logs missing first restart notice: %v", s.Logs("p1"))
	}
	if !logsContain(s, "p1", "Max restart attempts reached. Giving up.") {
		t.Errorf("logs missing give-up notice: %v", s.Logs("p1"))
	}
}

func TestManualStartResetsRestartCounter(t *testing.T) {
	sink := &recordingSink{}
	s := newTestSupervisor(sink)
	defer s.Shutdown()

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"exit 1"}}
	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return s.Status("p1") == StatusError
	}, "first crash")

	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("second Start() error: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return len(sink.crashes("p1")) == 2
	}, "second crash")

	crashes := sink.crashes("p1")
	if crashes[1].RestartCount != 1 {
		t.Errorf("crash ordinal after fresh start = %d, want 1", crashes[1].RestartCount)
	}
}

func TestRestart(t *testing.T) {
	s := newTestSupervisor(event.NopSink{})
	defer s.Shutdown()

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"sleep 30"}}
	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if err := s.Restart("p1"); err != nil {
		t.Fatalf("Restart() error: %v", err)
	}
	if got := s.Status("p1"); got != StatusRunning {
		t.Errorf("Status() after restart = %v, want running", got)
	}
}

func TestRestartUnknownProject(t *testing.T) {
	s := newTestSupervisor(event.NopSink{})
	defer s.Shutdown()

	if err := s.Restart("ghost"); !errors.Is(err, errors.ErrProjectNotFound) {
		t.Errorf("Restart() error = %v, want ErrProjectNotFound", err)
	}
}

func TestSendInputEchoesAndDelivers(t *testing.T) {
	s := newTestSupervisor(event.NopSink{})
	defer s.Shutdown()

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"cat"}}
	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if err := s.SendInput("p1", "ping"); err != nil {
		t.Fatalf("SendInput() error: %v", err)
	}

	// The line comes back twice: once as the "> ping" echo, once as cat's
	// output pumped from stdout.
	waitFor(t, 5*time.Second, func() bool {
		return logsContain(s, "p1", "> ping") && logsContain(s, "p1", "] ping")
	}, "input echo and child output")
}

func TestSendInputPreconditions(t *testing.T) {
	s := newTestSupervisor(event.NopSink{})
	defer s.Shutdown()

	if err := s.SendInput("ghost", "x"); !errors.Is(err, errors.ErrProjectNotFound) {
		t.Errorf("SendInput(unknown) error = %v, want ErrProjectNotFound", err)
	}

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"echo done"}}
	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return s.Status("p1") == StatusStopped
	}, "process to exit")

	if err := s.SendInput("p1", "x"); !errors.Is(err, errors.ErrNotRunning) {
		t.Errorf("SendInput(stopped) error = %v, want ErrNotRunning", err)
	}
}

func TestSendInterruptEchoesAndDelivers(t *testing.T) {
	s := newTestSupervisor(event.NopSink{})
	defer s.Shutdown()

	// The child reads exactly one raw byte from stdin and prints it in
	// octal, so the delivered interrupt byte shows up as 003 in the logs.
	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"head -c 1 | od -An -to1"}}
	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if err := s.SendInterrupt("p1"); err != nil {
		t.Fatalf("SendInterrupt() error: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		return logsContain(s, "p1", "^C")
	}, "interrupt echo in scrollback")
	waitFor(t, 5*time.Second, func() bool {
		return logsContain(s, "p1", "003")
	}, "interrupt byte delivered to child stdin")
}

func TestSendInterruptPreconditions(t *testing.T) {
	s := newTestSupervisor(event.NopSink{})
	defer s.Shutdown()

	if err := s.SendInterrupt("ghost"); !errors.Is(err, errors.ErrProjectNotFound) {
		t.Errorf("SendInterrupt(unknown) error = %v, want ErrProjectNotFound", err)
	}

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"echo done"}}
	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return s.Status("p1") == StatusStopped
	}, "process to exit")

	if err := s.SendInterrupt("p1"); !errors.Is(err, errors.ErrNotRunning) {
		t.Errorf("SendInterrupt(stopped) error = %v, want ErrNotRunning", err)
	}
}

func TestClearLogs(t *testing.T) {
	s := newTestSupervisor(event.NopSink{})
	defer s.Shutdown()

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"echo noisy"}}
	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	waitFor(t, 5*time.Second, func() bool {
		return len(s.Logs("p1")) > 0
	}, "log output")

	s.ClearLogs("p1")
	if got := s.Logs("p1"); len(got) != 0 {
		t.Errorf("Logs() after clear = %v, want empty", got)
	}
}

func TestStatusUnknownProject(t *testing.T) {
	s := newTestSupervisor(event.NopSink{})
	defer s.Shutdown()

	if got := s.Status("ghost"); got != StatusStopped {
		t.Errorf("Status(unknown) = %v, want stopped", got)
	}
}

func TestStopAll(t *testing.T) {
	s := newTestSupervisor(event.NopSink{})
	defer s.Shutdown()

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"sleep 30"}}
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Start(id, spec, false); err != nil {
			t.Fatalf("Start(%s) error: %v", id, err)
		}
	}

	s.StopAll()

	for _, id := range []string{"a", "b", "c"} {
		if got := s.Status(id); got != StatusStopped {
			t.Errorf("Status(%s) = %v, want stopped", id, got)
		}
	}
}

func TestShutdownDrainsBackgroundTasks(t *testing.T) {
	s := newTestSupervisor(event.NopSink{})

	spec := CommandSpec{Dir: t.TempDir(), Commands: []string{"sleep 30"}}
	if err := s.Start("p1", spec, false); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Shutdown() did not return")
	}
}

func TestStatusStringValues(t *testing.T) {
	cases := map[ProcessStatus]string{
		StatusStopped:    "stopped",
		StatusRunning:    "running",
		StatusRestarting: "restarting",
		StatusError:      "error",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", status, got, want)
		}
	}
}
