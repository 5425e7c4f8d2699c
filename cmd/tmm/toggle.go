package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <mod>",
	Short: "Enable or disable a mod",
	Long: `Flip a mod's enabled state without removing its files.

Disabled mod files stay in the profile under a marker extension, so the
game's loader skips them. Disabling a mod that enabled mods depend on, or
enabling one whose dependencies are disabled, asks for confirmation.

Examples:
  tmm toggle MoreCompany --game lethal-company`,
	Args: cobra.ExactArgs(1),
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

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
	mod, err := prof.Mod(id)
	if err != nil {
		return err
	}
	wasEnabled := mod.Enabled

	result, err := service.ToggleMod(id)
	if err != nil {
		return err
	}

	if !result.Done {
		question := "These enabled mods depend on it:"
		if !wasEnabled {
			question = "These dependencies are disabled:"
		}
		ok, err := promptConfirm(question, result.Dependants)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
		if err := service.ForceToggleMod(id); err != nil {
			return err
		}
	}

	if wasEnabled {
		fmt.Printf("Disabled %s\n", args[0])
	} else {
		fmt.Printf("Enabled %s\n", args[0])
	}
	return nil
}
