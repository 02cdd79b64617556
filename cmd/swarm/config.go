package main

import (
	"fmt"
	"os"

	"github.com/sandevgo/tuskswarm/pkg/env"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:          "config",
	Short:        "Print the effective settings as .env lines",
	Long:         `Prints every non-empty setting in .env form. The API key is masked.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, settings, done, err := boot(cmd, sinkDefault)
		if err != nil {
			return err
		}
		defer done()

		out, err := env.MarshalEnv(settings.Masked())
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
