// Package cmd implements vtcore's command-line interface: a cobra root
// command with a `run` subcommand that spawns a PTY session and attaches
// the controlling terminal to it.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zcg-coder/vtcore/internal/version"
)

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vtcore",
		Short: "A minimal VT100 terminal emulator core",
		Long:  "vtcore hosts a child process on a PTY, interprets its ANSI/VT100 output, and dispatches terminal input back to it.",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the vtcore version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println(version.DisplayVersion())
			return nil
		},
	}
}
