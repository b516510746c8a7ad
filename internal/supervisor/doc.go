// Package supervisor implements the DevBoot supervision engine.
//
// Each supervised unit is a project: a working directory plus an ordered
// list of shell commands, launched as a single host-shell invocation. The
// engine captures combined stdout/stderr into a bounded timestamped
// scrollback per process, watches for abnormal termination with a polling
// monitor loop, and performs bounded automatic restarts (fixed backoff,
// capped attempts).
//
// # Architecture
//
//   - LogBuffer: bounded FIFO of timestamped lines, one per process.
//   - record/registry: the single source of truth, a lock-guarded map from
//     project ID to mutable process state.
//   - Launcher: builds and spawns the OS-level child through a host shell.
//   - stream pumps: one reader goroutine per stdout/stderr, draining lines
//     into the LogBuffer and publishing log events.
//   - Supervisor: orchestrates start/stop/restart, owns the per-process
//     monitor loop and the restart policy.
//
// Events flow out through an injected event.Sink; the engine never talks
// to a presentation layer directly. All background goroutines are tracked
// so Shutdown can wait for their natural exit after the children die.
package supervisor
