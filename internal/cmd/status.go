package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show registered projects and their policies",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	projects := store.List()
	if len(projects) == 0 {
		fmt.Println("no projects registered")
		return nil
	}

	autoStart := 0
	for _, p := range projects {
		fmt.Println(formatProject(p))
		if p.Enabled && p.AutoStart {
			autoStart++
		}
	}
	fmt.Printf("\n%d projects, %d auto-start\n", len(projects), autoStart)
	return nil
}
