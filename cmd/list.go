package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haimv/skilldock/internal/warehouse"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all packages in the warehouse",
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}

	store := warehouse.New(paths)
	packages, err := store.Enumerate()
	if err != nil {
		return fmt.Errorf("failed to enumerate warehouse: %w", err)
	}

	if len(packages) == 0 {
		fmt.Println("No packages in the warehouse.")
		fmt.Println()
		fmt.Println("Add some with 'skilldock source add <repo>'")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATE\tORIGIN\tDESCRIPTION")
	for _, pkg := range packages {
		origin := "local"
		if pkg.Sidecar != nil {
			origin = pkg.Sidecar.Source
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", pkg.Name, pkg.State, origin, pkg.Description)
	}
	return w.Flush()
}
