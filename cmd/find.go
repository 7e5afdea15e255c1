package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/haimv/skilldock/internal/catalog"
	"github.com/haimv/skilldock/internal/config"
)

var findRefresh bool

var findCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Search the discovery catalog for installable skills",
	Long: `Fetch the curated catalog feed and filter it by a substring match on
name and description. Results are cached; use --refresh to force a fetch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().BoolVar(&findRefresh, "refresh", false, "bypass the cached catalog")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	paths, err := config.ResolvePaths()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(paths.DockDir)
	if err != nil {
		return err
	}

	cache := catalog.NewCache(
		catalog.NewHTTPFetcher(cfg.Catalog.URL),
		time.Duration(cfg.Catalog.TTLMinutes)*time.Minute,
		nil,
	)

	var entries []catalog.Entry
	if findRefresh {
		entries, err = cache.Refresh(cmd.Context())
	} else {
		entries, err = cache.Get(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	matched := catalog.Search(entries, query)

	if len(matched) == 0 {
		fmt.Println("No matching skills in the catalog.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tREPO\tDESCRIPTION")
	for _, e := range matched {
		repo := e.Repo
		if e.Subpath != "" {
			repo = fmt.Sprintf("%s:%s", e.Repo, e.Subpath)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, repo, e.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Install one with 'skilldock source add <repo>'")
	return nil
}
