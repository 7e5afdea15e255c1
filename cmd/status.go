package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haimv/skilldock/internal/config"
	"github.com/haimv/skilldock/internal/link"
	"github.com/haimv/skilldock/internal/source"
	"github.com/haimv/skilldock/internal/warehouse"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show warehouse, tool link and source status",
	RunE:    runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	paths, err := config.ResolvePaths()
	if err != nil {
		return err
	}

	if !paths.IsInitialized() {
		fmt.Println("Status: NOT INITIALIZED")
		fmt.Println()
		fmt.Println("Run 'skilldock init' to create the warehouse")
		return nil
	}

	fmt.Println("=== Skilldock Status ===")
	fmt.Println()
	fmt.Printf("Warehouse: %s\n", paths.WarehouseDir)

	store := warehouse.New(paths)
	packages, err := store.Enumerate()
	if err != nil {
		return err
	}
	enabled := 0
	for _, pkg := range packages {
		if pkg.State == warehouse.StateEnabled {
			enabled++
		}
	}
	fmt.Printf("Packages:  %d (%d enabled, %d disabled)\n",
		len(packages), enabled, len(packages)-enabled)
	fmt.Println()

	fmt.Println("Tools:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  TOOL\tINSTALLED\tLINKED\tSKILLS\tPATH")
	for _, st := range link.NewManager(paths).StatusAll() {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%d\t%s\n",
			st.Tool.ID, yesNo(st.Installed), yesNo(st.Linked), st.SkillsCount, st.Path)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	sources, err := source.NewSyncer(paths, source.NewGitClient()).List()
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		fmt.Println("Sources: none")
		return nil
	}
	fmt.Println("Sources:")
	sw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(sw, "  ID\tBRANCH\tSUBPATH\tSTATUS\tUPDATE\tPACKAGES")
	for _, src := range sources {
		update := "-"
		if src.HasUpdate {
			update = "available"
		}
		fmt.Fprintf(sw, "  %s\t%s\t%s\t%s\t%s\t%d\n",
			src.ID, src.Branch, src.Subpath, src.Status, update, src.PackageCount)
	}
	return sw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
