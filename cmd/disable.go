package cmd

import (
	"github.com/spf13/cobra"

	"github.com/haimv/skilldock/internal/warehouse"
)

var disableCmd = &cobra.Command{
	Use:   "disable [package]",
	Short: "Move a package to the disabled partition",
	Long: `Move a package from enabled/ to disabled/ in the warehouse.

With no argument, an interactive picker lists the enabled packages.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDisable,
}

func init() {
	rootCmd.AddCommand(disableCmd)
}

func runDisable(cmd *cobra.Command, args []string) error {
	return togglePackage(args, warehouse.StateDisabled)
}
