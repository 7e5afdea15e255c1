package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haimv/skilldock/internal/link"
	"github.com/haimv/skilldock/internal/warehouse"
)

var linkCmd = &cobra.Command{
	Use:   "link <tool>",
	Short: "Attach a tool's skill directory to the warehouse",
	Long: `Replace a tool's skill directory with a directory link to the warehouse.

An existing real directory is merged into the warehouse first; packages
already in the warehouse win over same-named tool-local copies.

Examples:
  skilldock link claude
  skilldock link cursor`,
	Args: cobra.ExactArgs(1),
	RunE: runLinkTool,
}

func init() {
	rootCmd.AddCommand(linkCmd)
}

func runLinkTool(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}

	if err := warehouse.New(paths).Initialize(); err != nil {
		return err
	}

	mgr := link.NewManager(paths)
	if err := mgr.Link(args[0]); err != nil {
		return err
	}

	st, err := mgr.Status(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Linked %s: %s -> %s\n", args[0], st.Path, paths.WarehouseDir)
	return nil
}
