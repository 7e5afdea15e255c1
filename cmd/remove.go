package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haimv/skilldock/internal/warehouse"
)

var removeCmd = &cobra.Command{
	Use:     "remove <package>",
	Aliases: []string{"rm"},
	Short:   "Delete a package from the warehouse",
	Long: `Recursively delete a package from whichever partition holds it.

This does not touch the source it was imported from; re-syncing the source
will bring the package back into disabled/.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}

	store := warehouse.New(paths)
	if err := store.Remove(args[0]); err != nil {
		return err
	}

	fmt.Printf("Removed %s\n", args[0])
	return nil
}
