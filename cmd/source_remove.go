package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourceRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a source and its checkout",
	Long: `Delete a source's local checkout and registry entry.

Packages already imported stay in the warehouse as ordinary local
packages; import is a copy, not a continuing reference.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceRemove,
}

func init() {
	sourceCmd.AddCommand(sourceRemoveCmd)
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}

	if err := newSyncer(paths).RemoveSource(args[0]); err != nil {
		return err
	}

	fmt.Printf("Removed source %s (imported packages kept)\n", args[0])
	return nil
}
