package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder <mod> <delta>",
	Short: "Move a mod in the load order",
	Long: `Shift a mod's position in the active profile by delta places.
Negative values move it earlier. Moves past either end stop at the
boundary.

Examples:
  tmm reorder MoreCompany -1 --game lethal-company
  tmm reorder MoreCompany 3`,
	Args: cobra.ExactArgs(2),
	RunE: runReorder,
}

func init() {
	rootCmd.AddCommand(reorderCmd)
}

func runReorder(cmd *cobra.Command, args []string) error {
	delta, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid delta %q: %w", args[1], err)
	}

	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	prof, err := service.ActiveProfile()
	if err != nil {
		return err
	}
	id, err := findInstalledMod(prof, args[0])
	if err != nil {
		return err
	}

	if err := service.ReorderMod(id, delta); err != nil {
		return err
	}
	fmt.Printf("Moved %s by %d\n", args[0], delta)
	return nil
}
