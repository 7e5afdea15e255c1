package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haimv/skilldock/internal/mover"
	"github.com/haimv/skilldock/internal/picker"
	"github.com/haimv/skilldock/internal/warehouse"
)

var enableCmd = &cobra.Command{
	Use:   "enable [package]",
	Short: "Move a package to the enabled partition",
	Long: `Move a package from disabled/ to enabled/ in the warehouse.

With no argument, an interactive picker lists the disabled packages.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnable,
}

func init() {
	rootCmd.AddCommand(enableCmd)
}

func runEnable(cmd *cobra.Command, args []string) error {
	return togglePackage(args, warehouse.StateEnabled)
}

func togglePackage(args []string, state warehouse.State) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}
	store := warehouse.New(paths)

	name := ""
	if len(args) > 0 {
		name = args[0]
	} else {
		name, err = pickPackage(store, state)
		if err != nil {
			return err
		}
		if name == "" {
			return nil
		}
	}

	result, err := store.SetState(name, state, mover.New())
	if err != nil {
		return err
	}

	verb := "Enabled"
	if state == warehouse.StateDisabled {
		verb = "Disabled"
	}
	fmt.Printf("%s %s\n", verb, name)
	if result.SoftSuccess {
		fmt.Printf("Note: the old directory could not be removed and remains at %s\n", result.Leftover)
	}
	return nil
}

// pickPackage runs the picker over the packages not already in the target
// state
func pickPackage(store *warehouse.Store, target warehouse.State) (string, error) {
	packages, err := store.Enumerate()
	if err != nil {
		return "", err
	}

	var items []picker.Item
	for _, pkg := range packages {
		if pkg.State == target {
			continue
		}
		label := pkg.Name
		if pkg.Description != "" {
			label = fmt.Sprintf("%s - %s", pkg.Name, pkg.Description)
		}
		items = append(items, picker.Item{ID: pkg.Name, Label: label})
	}

	if len(items) == 0 {
		fmt.Println("Nothing to change.")
		return "", nil
	}

	title := "Select a package to enable"
	if target == warehouse.StateDisabled {
		title = "Select a package to disable"
	}
	return picker.Run(title, items)
}
