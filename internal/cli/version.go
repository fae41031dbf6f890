// Package cli — version.go implements the "git workon version" command.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the "version" cobra command. It duplicates
// the root --version flag as a subcommand, which reads more naturally
// when invoked through git (`git workon version`).
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			if IsJSONOutput() {
				data, _ := json.MarshalIndent(map[string]string{
					"version": Version,
					"commit":  Commit,
					"date":    Date,
				}, "", "  ")
				fmt.Println(string(data))
				return nil
			}
			fmt.Printf("git-workon %s (commit: %s, built: %s)\n", Version, Commit, Date)
			return nil
		},
	}
}
