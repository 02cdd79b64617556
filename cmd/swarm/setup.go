package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandevgo/tuskswarm/internal/config"
	"github.com/sandevgo/tuskswarm/internal/service/installer"
	"github.com/sandevgo/tuskswarm/internal/service/ui"
	"github.com/spf13/cobra"
)

var forceSetup bool

var setupCmd = &cobra.Command{
	Use:           "setup",
	Aliases:       []string{"install"},
	Short:         "Create the runtime directory and its .env",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := installer.NewInstallState(config.GetRuntimePath())
		st.Overwrite = forceSetup

		// run wizard (includes save step)
		st, err := installer.RunWizard(st)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, ui.TitleStyle.Render("Setup complete"))
		fmt.Fprintf(os.Stdout, "Settings written to %s\n", ui.UsageStyle.Render(filepath.Join(st.RuntimePath, ".env")))
		fmt.Fprintf(os.Stdout, "Run %s to start a session.\n", ui.UsageStyle.Render("swarm chat"))
		return nil
	},
}

func init() {
	setupCmd.Flags().BoolVarP(&forceSetup, "force", "f", false, "overwrite an existing .env")
	rootCmd.AddCommand(setupCmd)
}
