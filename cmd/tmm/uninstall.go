package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <mod>",
	Short: "Uninstall a mod",
	Long: `Remove a mod from the active profile, deleting its files.

When enabled mods depend on the removed mod, a confirmation prompt lists
them first.

Examples:
  tmm uninstall BepInEx-BepInExPack --game lethal-company
  tmm uninstall MoreCompany`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	// Dependant checks need the package listing.
	if err := service.RefreshIndex(context.Background()); err != nil {
		return fmt.Errorf("fetching package listing: %w", err)
	}

	prof, err := service.ActiveProfile()
	if err != nil {
		return err
	}
	id, err := findInstalledMod(prof, args[0])
	if err != nil {
		return err
	}

	result, err := service.RemoveMod(id)
	if err != nil {
		return err
	}

	if !result.Done {
		ok, err := promptConfirm("These mods depend on it:", result.Dependants)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
		if err := service.ForceRemoveMod(id); err != nil {
			return err
		}
	}

	fmt.Printf("Uninstalled %s\n", args[0])
	return nil
}
