package cmd

import (
	"github.com/spf13/cobra"

	"github.com/haimv/skilldock/internal/config"
	"github.com/haimv/skilldock/internal/source"
)

var sourceCmd = &cobra.Command{
	Use:     "source",
	Aliases: []string{"src"},
	Short:   "Manage external skill sources",
	Long: `Register, sync, and remove external git repositories that provide
skill packages. Imported packages land in the disabled partition and are
enabled explicitly; re-syncing overwrites package content in place without
changing its enabled/disabled placement.`,
}

func init() {
	rootCmd.AddCommand(sourceCmd)
}

// newSyncer builds a Syncer against the real git binary
func newSyncer(paths *config.Paths) *source.Syncer {
	return source.NewSyncer(paths, source.NewGitClient())
}
