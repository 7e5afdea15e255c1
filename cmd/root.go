package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haimv/skilldock/internal/config"
	dockerrors "github.com/haimv/skilldock/internal/errors"
	"github.com/haimv/skilldock/internal/logger"
)

var Version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "skilldock",
	Short: "Skill warehouse manager for AI coding tools",
	Long: `skilldock maintains one warehouse of agent skill packages and mirrors
it into the skill directories of multiple AI tools via directory links.
Packages toggle between enabled and disabled partitions, and external git
repositories can be registered as sources and synced into the warehouse.`,
	Version: Version,
	Run:     runRoot,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel("debug")
		}
	},
}

func runRoot(cmd *cobra.Command, args []string) {
	paths, err := config.ResolvePaths()
	if err != nil {
		cmd.Help()
		return
	}

	if !paths.IsInitialized() {
		fmt.Println("skilldock - skill warehouse manager")
		fmt.Println()
		fmt.Println("Not initialized. Get started with:")
		fmt.Println()
		fmt.Println("  skilldock init       Create the warehouse")
		fmt.Println("  skilldock --help     Show all commands")
		return
	}

	cmd.Help()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// resolvePaths resolves paths and requires an initialized warehouse
func resolvePaths() (*config.Paths, error) {
	paths, err := config.ResolvePaths()
	if err != nil {
		return nil, err
	}
	if !paths.IsInitialized() {
		return nil, dockerrors.ErrNotInitialized
	}
	return paths, nil
}
