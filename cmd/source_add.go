package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourceAddCmd = &cobra.Command{
	Use:   "add <repo>",
	Short: "Register a source and sync it immediately",
	Long: `Register an external git repository as a skill source.

Accepted forms:
  skilldock source add acme/skills
  skilldock source add acme/skills@main:.claude/skills
  skilldock source add https://github.com/acme/skills/tree/main/.claude/skills
  skilldock source add git@github.com:acme/skills.git

A subpath restricts the checkout to that directory (sparse checkout).
If the first sync fails, the source is not registered.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceAdd,
}

func init() {
	sourceCmd.AddCommand(sourceAddCmd)
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}

	src, result, err := newSyncer(paths).AddSource(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to add source: %w", err)
	}

	fmt.Printf("Added source %s (branch %s, subpath %s)\n", src.ID, src.Branch, src.Subpath)
	fmt.Printf("Imported %d added, %d updated package(s) at %.8s\n",
		result.Added, result.Updated, result.Revision)
	fmt.Println()
	fmt.Println("New packages start disabled. Enable one with 'skilldock enable <name>'")
	return nil
}
