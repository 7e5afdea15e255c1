package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourceSyncAll bool

var sourceSyncCmd = &cobra.Command{
	Use:   "sync [id]",
	Short: "Sync a source's packages into the warehouse",
	Long: `Update a source's checkout and import its packages.

Packages already enabled stay enabled and are updated in place; new
packages land in disabled/. Use --all to sync every enabled source.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSourceSync,
}

func init() {
	sourceSyncCmd.Flags().BoolVar(&sourceSyncAll, "all", false, "sync all enabled sources")
	sourceCmd.AddCommand(sourceSyncCmd)
}

func runSourceSync(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}
	syncer := newSyncer(paths)

	if sourceSyncAll {
		sources, err := syncer.List()
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			fmt.Println("No sources registered.")
			return nil
		}
		failed := 0
		for _, src := range sources {
			if !src.Enabled {
				fmt.Printf("%s: skipped (disabled)\n", src.ID)
				continue
			}
			result, err := syncer.SyncSource(cmd.Context(), src.ID)
			if err != nil {
				fmt.Printf("%s: sync failed: %v\n", src.ID, err)
				failed++
				continue
			}
			fmt.Printf("%s: %d added, %d updated at %.8s\n",
				src.ID, result.Added, result.Updated, result.Revision)
		}
		if failed > 0 {
			return fmt.Errorf("%d source(s) failed to sync", failed)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("provide a source id or use --all")
	}

	result, err := syncer.SyncSource(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Synced %s: %d added, %d updated package(s) at %.8s\n",
		args[0], result.Added, result.Updated, result.Revision)
	return nil
}
