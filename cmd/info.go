package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haimv/skilldock/internal/config"
	"github.com/haimv/skilldock/internal/notes"
	"github.com/haimv/skilldock/internal/scanner"
	"github.com/haimv/skilldock/internal/warehouse"
)

var infoCmd = &cobra.Command{
	Use:     "info <package>",
	Aliases: []string{"show"},
	Short:   "Show a package's metadata, provenance and note",
	Args:    cobra.ExactArgs(1),
	RunE:    runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}

	pkg, err := warehouse.New(paths).Locate(args[0])
	if err != nil {
		return err
	}

	md, err := scanner.New().Metadata(filepath.Join(pkg.Path, config.MarkerFile))
	if err != nil {
		return fmt.Errorf("read metadata for %s: %w", pkg.Name, err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", pkg.Name)
	fmt.Fprintf(w, "State:\t%s\n", pkg.State)
	fmt.Fprintf(w, "Path:\t%s\n", pkg.Path)
	if desc := firstNonEmpty(md.Description, pkg.Description); desc != "" {
		fmt.Fprintf(w, "Description:\t%s\n", desc)
	}
	if md.Version != "" {
		fmt.Fprintf(w, "Version:\t%s\n", md.Version)
	}
	if md.License != "" {
		fmt.Fprintf(w, "License:\t%s\n", md.License)
	}
	if len(md.AllowedTools) > 0 {
		fmt.Fprintf(w, "Allowed tools:\t%s\n", strings.Join(md.AllowedTools, ", "))
	}

	if pkg.Sidecar != nil {
		fmt.Fprintf(w, "Source:\t%s\n", pkg.Sidecar.Source)
		fmt.Fprintf(w, "Source URL:\t%s\n", pkg.Sidecar.SourceURL)
		fmt.Fprintf(w, "Installed:\t%s\n", pkg.Sidecar.InstallDate.Format("2006-01-02 15:04"))
		fmt.Fprintf(w, "Commit:\t%s\n", pkg.Sidecar.CommitHash)
	} else {
		fmt.Fprintf(w, "Source:\tlocal\n")
	}

	if note, err := notes.NewStore(paths.NotesFile).Get(pkg.Name); err == nil && note != "" {
		fmt.Fprintf(w, "Note:\t%s\n", note)
	}
	return w.Flush()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
