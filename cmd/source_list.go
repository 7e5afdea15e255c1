package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var sourceListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered sources",
	RunE:    runSourceList,
}

func init() {
	sourceCmd.AddCommand(sourceListCmd)
}

func runSourceList(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}

	sources, err := newSyncer(paths).List()
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		fmt.Println("No sources registered.")
		fmt.Println()
		fmt.Println("Add one with 'skilldock source add <owner>/<repo>'")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREPO\tBRANCH\tSUBPATH\tSTATUS\tREVISION\tPACKAGES")
	for _, src := range sources {
		rev := src.LastRevision
		if len(rev) > 8 {
			rev = rev[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			src.ID, src.RepoURL, src.Branch, src.Subpath, src.Status, rev, src.PackageCount)
	}
	return w.Flush()
}
