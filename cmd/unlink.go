package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haimv/skilldock/internal/link"
)

var unlinkSyncBack bool

var unlinkCmd = &cobra.Command{
	Use:   "unlink <tool>",
	Short: "Detach a tool's skill directory from the warehouse",
	Long: `Remove the directory link and restore a real skill directory.

With --sync-back, the new directory receives a one-time snapshot of the
warehouse contents; without it, the directory starts empty. Either way the
tool keeps a valid, non-linked skill path afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: runUnlinkTool,
}

func init() {
	unlinkCmd.Flags().BoolVar(&unlinkSyncBack, "sync-back", false,
		"copy current warehouse contents into the restored directory")
	rootCmd.AddCommand(unlinkCmd)
}

func runUnlinkTool(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}

	mgr := link.NewManager(paths)
	if err := mgr.Unlink(args[0], unlinkSyncBack); err != nil {
		return err
	}

	if unlinkSyncBack {
		fmt.Printf("Unlinked %s and copied warehouse contents back\n", args[0])
	} else {
		fmt.Printf("Unlinked %s\n", args[0])
	}
	return nil
}
