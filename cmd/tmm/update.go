package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tmm/internal/core"
)

var (
	updateApply          bool
	updateIncludeIgnored bool
)

var updateCmd = &cobra.Command{
	Use:   "update [mod]",
	Short: "Check for or apply mod updates",
	Long: `Check the active profile's mods against the registry.

Without arguments, lists available updates. With --apply, installs them,
keeping each mod's position and enabled state. Versions dismissed with
'tmm update ignore' are skipped unless --include-ignored is given.

Examples:
  tmm update --game lethal-company
  tmm update --apply
  tmm update MoreCompany --apply
  tmm update --apply --include-ignored`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

var updateIgnoreCmd = &cobra.Command{
	Use:   "ignore <mod>",
	Short: "Dismiss a mod's pending update",
	Long: `Exclude a mod's latest published version from update checks.

The dismissal applies to that version only; a later release shows up
again.

Examples:
  tmm update ignore MoreCompany --game lethal-company`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdateIgnore,
}

func init() {
	updateCmd.Flags().BoolVar(&updateApply, "apply", false, "install the available updates")
	updateCmd.Flags().BoolVar(&updateIncludeIgnored, "include-ignored", false, "include dismissed versions")

	updateCmd.AddCommand(updateIgnoreCmd)
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	ctx := context.Background()

	if err := service.RefreshIndex(ctx); err != nil {
		return fmt.Errorf("fetching package listing: %w", err)
	}

	respectIgnored := !updateIncludeIgnored

	if updateApply {
		operation := func() error {
			if len(args) == 1 {
				prof, err := service.ActiveProfile()
				if err != nil {
					return err
				}
				id, err := findInstalledMod(prof, args[0])
				if err != nil {
					return err
				}
				return service.UpdateMods(ctx, []uuid.UUID{id}, respectIgnored)
			}
			return service.UpdateAll(ctx, respectIgnored)
		}
		if err := runWithProgress(service, operation); err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Println("Updates applied.")
		}
		return nil
	}

	updates, err := service.AvailableUpdates(respectIgnored)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printUpdatesJSON(updates)
	}

	if len(updates) == 0 {
		fmt.Println("All mods are up to date.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINSTALLED\tLATEST\tIGNORED")
	fmt.Fprintln(w, "----\t---------\t------\t-------")
	for _, update := range updates {
		ignored := ""
		if update.Ignored {
			ignored = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", update.Mod.FullName, update.Installed.VersionNumber, update.Latest.VersionNumber, ignored)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d updates available. Run 'tmm update --apply' to install.\n", len(updates))
	return nil
}

func printUpdatesJSON(updates []core.AvailableUpdate) error {
	type updateInfo struct {
		Name      string `json:"name"`
		Installed string `json:"installed"`
		Latest    string `json:"latest"`
		Ignored   bool   `json:"ignored"`
	}

	infos := make([]updateInfo, 0, len(updates))
	for _, update := range updates {
		infos = append(infos, updateInfo{
			Name:      update.Mod.FullName,
			Installed: update.Installed.VersionNumber,
			Latest:    update.Latest.VersionNumber,
			Ignored:   update.Ignored,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(infos)
}

func runUpdateIgnore(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	ctx := context.Background()
	if err := service.RefreshIndex(ctx); err != nil {
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

	updates, err := service.AvailableUpdates(false)
	if err != nil {
		return err
	}
	for _, update := range updates {
		if update.Mod.UUID == id {
			if err := service.IgnoreUpdate(update.Latest.UUID); err != nil {
				return err
			}
			fmt.Printf("Ignoring %s v%s\n", update.Mod.FullName, update.Latest.VersionNumber)
			return nil
		}
	}

	fmt.Printf("%s has no pending update.\n", args[0])
	return nil
}
