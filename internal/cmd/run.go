package cmd

import (
	"context"

	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/tang-vu/devboot/internal/project"
	"github.com/tang-vu/devboot/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start auto-start projects and run the interactive supervisor",
	Long: `Run launches every enabled project flagged for auto-start, then opens
the interactive terminal UI. Closing the UI stops all supervised
processes before exiting.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	for _, p := range s.store.AutoStartable() {
		if err := s.sup.Start(p.ID, p.CommandSpec(), p.RestartOnCrash); err != nil {
			s.logger.Warn("auto-start failed", "project_id", p.ID, "error", err)
		}
	}

	app := tui.New(s.sup, s.store.List(), s.cfg, s.bus)

	// Reflect external edits of the store file into the running UI.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var wg conc.WaitGroup
	wg.Go(func() {
		_ = s.store.Watch(ctx, func(ps []project.Project) {
			app.SetProjects(ps)
		})
	})

	err = app.Run()
	cancel()
	wg.Wait()
	return err
}
