package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tang-vu/devboot/internal/project"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage the project registry",
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a project to the registry",
	Long: `Add registers a new project: a working directory plus the shell commands
to run there, in order. Each command runs only if the previous one
succeeded.

Examples:
  devboot project add --path ~/dev/api --command "npm install" --command "npm run dev"
  devboot project add --name worker --path ~/dev/worker --command "cargo run" --restart-on-crash --autostart`,
	RunE: runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered projects",
	RunE:  runProjectList,
}

var projectRemoveCmd = &cobra.Command{
	Use:   "remove <project>",
	Short: "Remove a project by ID or name",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectRemove,
}

var (
	addName           string
	addPath           string
	addCommands       []string
	addAutoStart      bool
	addRestartOnCrash bool
)

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectRemoveCmd)

	projectAddCmd.Flags().StringVar(&addName, "name", "", "Display name (default: last path element)")
	projectAddCmd.Flags().StringVar(&addPath, "path", "", "Working directory (required)")
	projectAddCmd.Flags().StringArrayVar(&addCommands, "command", nil, "Shell command, repeatable, run in order (required)")
	projectAddCmd.Flags().BoolVar(&addAutoStart, "autostart", false, "Launch this project when a session begins")
	projectAddCmd.Flags().BoolVar(&addRestartOnCrash, "restart-on-crash", false, "Respawn after abnormal exit, up to the attempt cap")
	_ = projectAddCmd.MarkFlagRequired("path")
	_ = projectAddCmd.MarkFlagRequired("command")
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	p, err := store.Add(project.Project{
		Name:           addName,
		Path:           addPath,
		Commands:       addCommands,
		AutoStart:      addAutoStart,
		RestartOnCrash: addRestartOnCrash,
	})
	if err != nil {
		return err
	}

	fmt.Printf("added %s (%s)\n", p.Name, p.ID)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	projects := store.List()
	if len(projects) == 0 {
		fmt.Println("no projects registered")
		return nil
	}

	for _, p := range projects {
		fmt.Println(formatProject(p))
	}
	return nil
}

func runProjectRemove(cmd *cobra.Command, args []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}

	p, err := store.Find(args[0])
	if err != nil {
		return fmt.Errorf("unknown project %q", args[0])
	}
	if err := store.Remove(p.ID); err != nil {
		return err
	}

	fmt.Printf("removed %s (%s)\n", p.Name, p.ID)
	return nil
}

// formatProject renders one project as a list line with its policy flags.
func formatProject(p project.Project) string {
	flags := ""
	if p.AutoStart {
		flags += " [autostart]"
	}
	if p.RestartOnCrash {
		flags += " [restart-on-crash]"
	}
	if !p.Enabled {
		flags += " [disabled]"
	}
	return fmt.Sprintf("%s  %s  %s (%d commands)%s",
		shortID(p.ID), p.Name, p.Path, len(p.Commands), flags)
}
