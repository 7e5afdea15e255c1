package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haimv/skilldock/internal/config"
	"github.com/haimv/skilldock/internal/warehouse"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the skill warehouse",
	Long: `Create the warehouse root with its enabled and disabled partitions.

Safe to run repeatedly; existing packages are untouched.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	paths, err := config.ResolvePaths()
	if err != nil {
		return err
	}

	store := warehouse.New(paths)
	if err := store.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize warehouse: %w", err)
	}

	fmt.Printf("Warehouse initialized at %s\n", paths.WarehouseDir)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  skilldock link claude          Attach a tool to the warehouse")
	fmt.Println("  skilldock source add <repo>    Pull skills from a git repository")
	return nil
}
