package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage mod profiles",
	Long: `Manage mod profiles for the active game.

Profiles are independent mod sets for the same game; switching changes
which set the game launches with. Every game has at least one profile.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE:  runProfileList,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new profile",
	Long: `Create an empty profile and make it active.

Examples:
  tmm profile create modded --game lethal-company`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileCreate,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Long: `Delete a profile and its files. The last profile of a game
cannot be deleted.

Examples:
  tmm profile delete old --game lethal-company`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileDelete,
}

var profileRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfileRename,
}

var profileDuplicateCmd = &cobra.Command{
	Use:   "duplicate <source> <new>",
	Short: "Copy a profile under a new name",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfileDuplicate,
}

var profileSwitchCmd = &cobra.Command{
	Use:   "switch <name>",
	Short: "Switch the active profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileSwitch,
}

var profileExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the active profile's mod list",
	Long: `Write the active profile's mod list as YAML, to a file or to
stdout. Mods imported from disk are skipped since they have no registry
source.

Examples:
  tmm profile export modded.yaml --game lethal-company`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfileExport,
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create a profile from an exported mod list",
	Long: `Read an exported mod list and install it into a new profile.

Examples:
  tmm profile import modded.yaml --game lethal-company
  tmm profile import modded.yaml --name friends-pack`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileImport,
}

var importName string

func init() {
	profileImportCmd.Flags().StringVar(&importName, "name", "", "profile name (default: name from the file)")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileRenameCmd)
	profileCmd.AddCommand(profileDuplicateCmd)
	profileCmd.AddCommand(profileSwitchCmd)
	profileCmd.AddCommand(profileExportCmd)
	profileCmd.AddCommand(profileImportCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileList(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	game, err := service.ActiveGame()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODS\tACTIVE")
	fmt.Fprintln(w, "----\t----\t------")
	for i, prof := range game.Profiles {
		active := ""
		if i == game.ActiveIndex {
			active = "*"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", prof.Name, len(prof.Mods), active)
	}
	return w.Flush()
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	if err := service.CreateProfile(args[0]); err != nil {
		return err
	}
	fmt.Printf("Created profile %s\n", args[0])
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	if err := service.DeleteProfile(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted profile %s\n", args[0])
	return nil
}

func runProfileRename(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	if err := service.RenameProfile(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Renamed profile %s to %s\n", args[0], args[1])
	return nil
}

func runProfileDuplicate(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	if err := service.DuplicateProfile(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Duplicated profile %s as %s\n", args[0], args[1])
	return nil
}

func runProfileSwitch(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	if err := service.SwitchProfile(args[0]); err != nil {
		return err
	}
	fmt.Printf("Switched to profile %s\n", args[0])
	return nil
}

func runProfileExport(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	// Exports pin version numbers, which needs the listing.
	if err := service.RefreshIndex(context.Background()); err != nil {
		return fmt.Errorf("fetching package listing: %w", err)
	}

	data, err := service.ExportActiveProfile()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(args[0], data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", args[0], err)
	}
	fmt.Printf("Exported to %s\n", args[0])
	return nil
}

func runProfileImport(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	ctx := context.Background()
	if err := service.RefreshIndex(ctx); err != nil {
		return fmt.Errorf("fetching package listing: %w", err)
	}

	err = runWithProgress(service, func() error {
		return service.ImportProfile(ctx, importName, data)
	})
	if err != nil {
		return err
	}

	fmt.Println("Profile imported.")
	return nil
}
