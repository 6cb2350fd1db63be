/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/longkey1/leethint/internal/leethint"
	"github.com/longkey1/leethint/internal/openrouter"
	"github.com/longkey1/leethint/internal/version"
	"github.com/spf13/cobra"
)

var versionShort bool

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show the leethint version, the commit and time it was built from, the Go
version, and the built-in OpenRouter endpoint and model used when the
configuration does not override them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, version.Short())
			return nil
		}
		fmt.Fprintln(out, version.Info())
		fmt.Fprintf(out, "  api:    %s\n", openrouter.NewClient("").Endpoint())
		fmt.Fprintf(out, "  model:  %s\n", leethint.DefaultModel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "Show only version number")
}
