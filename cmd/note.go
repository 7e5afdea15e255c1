package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haimv/skilldock/internal/notes"
	"github.com/haimv/skilldock/internal/warehouse"
)

var noteDelete bool

var noteCmd = &cobra.Command{
	Use:   "note <package> [text...]",
	Short: "Show or set a note on a package",
	Long: `With only a package name, print its note. With text, set the note.
Notes live outside the warehouse and survive re-imports and deletions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNote,
}

func init() {
	noteCmd.Flags().BoolVar(&noteDelete, "delete", false, "delete the package's note")
	rootCmd.AddCommand(noteCmd)
}

func runNote(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}

	name := args[0]
	store := notes.NewStore(paths.NotesFile)

	if noteDelete {
		if err := store.Delete(name); err != nil {
			return err
		}
		fmt.Printf("Deleted note for %s\n", name)
		return nil
	}

	if len(args) == 1 {
		note, err := store.Get(name)
		if err != nil {
			return err
		}
		if note == "" {
			fmt.Printf("No note for %s\n", name)
		} else {
			fmt.Println(note)
		}
		return nil
	}

	// Setting a note requires the package to exist somewhere
	if _, err := warehouse.New(paths).Locate(name); err != nil {
		return err
	}
	if err := store.Set(name, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Printf("Noted %s\n", name)
	return nil
}
