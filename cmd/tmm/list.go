package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed mods",
	Long: `List the mods of the active profile in load order.

Examples:
  tmm list --game lethal-company
  tmm list --json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	prof, err := service.ActiveProfile()
	if err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(prof.Mods)
	}

	if len(prof.Mods) == 0 {
		fmt.Println("No mods installed.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tENABLED\tSOURCE\tINSTALLED")
	fmt.Fprintln(w, "----\t-------\t------\t---------")

	for _, mod := range prof.Mods {
		enabled := "yes"
		if !mod.Enabled {
			enabled = "no"
		}
		source := "remote"
		if mod.IsLocal() {
			source = "local"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mod.FullName, enabled, source, mod.InstalledAt.Format("2006-01-02"))
	}

	return w.Flush()
}
