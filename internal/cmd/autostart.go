package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tang-vu/devboot/internal/autostart"
)

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Manage launch-at-login registration",
	Long: `Autostart registers this executable to run at user login, using the
platform's native mechanism: the per-user Run registry key on Windows, an
XDG autostart desktop entry elsewhere. The registered command is
"devboot run".`,
}

var autostartEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Register devboot to launch at login",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := autostart.New()
		if err != nil {
			return err
		}
		if err := r.Enable(); err != nil {
			return err
		}
		fmt.Println("autostart enabled")
		return nil
	},
}

var autostartDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Remove the launch-at-login registration",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := autostart.New()
		if err != nil {
			return err
		}
		if err := r.Disable(); err != nil {
			return err
		}
		fmt.Println("autostart disabled")
		return nil
	},
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether launch-at-login is registered",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := autostart.New()
		if err != nil {
			return err
		}
		on, err := r.IsEnabled()
		if err != nil {
			return err
		}
		if on {
			fmt.Println("autostart is enabled")
		} else {
			fmt.Println("autostart is disabled")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(autostartCmd)
	autostartCmd.AddCommand(autostartEnableCmd)
	autostartCmd.AddCommand(autostartDisableCmd)
	autostartCmd.AddCommand(autostartStatusCmd)
}
