package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tang-vu/devboot/internal/errors"
	"github.com/tang-vu/devboot/internal/event"
	"github.com/tang-vu/devboot/internal/project"
)

var startCmd = &cobra.Command{
	Use:   "start [project...]",
	Short: "Supervise projects headless in the foreground",
	Long: `Start launches the named projects (matched by ID or name) and supervises
them in the foreground without the interactive UI. With no arguments it
launches every enabled auto-start project.

Scrollback streams to stdout. Lines typed on stdin are forwarded to the
first named project's process. SIGINT or SIGTERM stops every process and
exits.

Examples:
  # Supervise the auto-start set
  devboot start

  # Supervise two specific projects
  devboot start api frontend`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	targets, err := resolveTargets(s.store, args)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("nothing to start: no projects named and no auto-start projects configured")
	}

	// Stream every scrollback line as it is appended.
	subID := s.bus.Subscribe(event.TopicLogAppended, func(e event.Event) {
		if le, ok := e.(event.LogAppendedEvent); ok {
			fmt.Printf("%s %s\n", shortID(le.ProjectID), le.Line)
		}
	})
	defer s.bus.Unsubscribe(subID)

	for _, p := range targets {
		if err := s.sup.Start(p.ID, p.CommandSpec(), p.RestartOnCrash); err != nil {
			return fmt.Errorf("failed to start %s: %w", p.Name, err)
		}
		fmt.Printf("started %s (%s)\n", p.Name, shortID(p.ID))
	}

	// Forward stdin lines to the first project's process. Lines typed while
	// the process is down or mid-restart are dropped, not fatal; forwarding
	// resumes once it is running again. The goroutine ends at EOF; it is not
	// waited on, the process exits right after StopAll anyway.
	primary := targets[0]
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if err := s.sup.SendInput(primary.ID, scanner.Text()); err != nil {
				if errors.IsRecoverable(err) {
					continue
				}
				return
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	<-sigCh
	fmt.Println("stopping all projects...")
	s.sup.StopAll()
	return nil
}

// shortID abbreviates a project ID for log prefixes.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveTargets maps CLI arguments to projects, defaulting to the
// auto-start set when no argument is given.
func resolveTargets(store *project.Store, args []string) ([]project.Project, error) {
	if len(args) == 0 {
		return store.AutoStartable(), nil
	}

	var out []project.Project
	for _, arg := range args {
		p, err := store.Find(arg)
		if err != nil {
			return nil, fmt.Errorf("unknown project %q", arg)
		}
		out = append(out, p)
	}
	return out, nil
}
