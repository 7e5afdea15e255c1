package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourceCheckCmd = &cobra.Command{
	Use:   "check [id]",
	Short: "Check sources for remote updates",
	Long: `Compare each source's remote branch head against the locally recorded
revision. The result is cached on the source record; no checkout is
modified. With no argument, every source is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSourceCheck,
}

func init() {
	sourceCmd.AddCommand(sourceCheckCmd)
}

func runSourceCheck(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}
	syncer := newSyncer(paths)

	ids := args
	if len(ids) == 0 {
		sources, err := syncer.List()
		if err != nil {
			return err
		}
		for _, src := range sources {
			ids = append(ids, src.ID)
		}
	}
	if len(ids) == 0 {
		fmt.Println("No sources registered.")
		return nil
	}

	for _, id := range ids {
		hasUpdate, err := syncer.CheckForUpdates(cmd.Context(), id)
		if err != nil {
			fmt.Printf("%s: check failed: %v\n", id, err)
			continue
		}
		if hasUpdate {
			fmt.Printf("%s: update available (run 'skilldock source sync %s')\n", id, id)
		} else {
			fmt.Printf("%s: up to date\n", id)
		}
	}
	return nil
}
