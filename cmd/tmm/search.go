package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tmm/internal/core"
	"tmm/internal/domain"
	"tmm/internal/tui"
)

var (
	searchLimit       int
	searchInteractive bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the package registry",
	Long: `Search the active game's package listing by name.

With --interactive, opens a picker; choosing a package installs it.

Examples:
  tmm search company --game lethal-company
  tmm search --interactive`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum results to show")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "pick a package to install")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	ctx := context.Background()
	if err := service.RefreshIndex(ctx); err != nil {
		return fmt.Errorf("fetching package listing: %w", err)
	}

	query := ""
	if len(args) == 1 {
		query = strings.ToLower(args[0])
	}

	var matched []*domain.Package
	for _, pkg := range service.Index().Packages() {
		if query == "" || strings.Contains(strings.ToLower(pkg.FullName()), query) {
			matched = append(matched, pkg)
		}
	}

	if searchInteractive {
		return pickAndInstall(ctx, service, matched)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(matched)
	}

	if len(matched) == 0 {
		fmt.Println("No packages found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLATEST\tDEPRECATED")
	fmt.Fprintln(w, "----\t------\t----------")
	for i, pkg := range matched {
		if i >= searchLimit {
			break
		}
		version := ""
		if latest := pkg.Latest(); latest != nil {
			version = latest.VersionNumber
		}
		deprecated := ""
		if pkg.IsDeprecated {
			deprecated = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", pkg.FullName(), version, deprecated)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(matched) > searchLimit {
		fmt.Printf("\n%d more results; refine the query or raise --limit.\n", len(matched)-searchLimit)
	}
	return nil
}

func pickAndInstall(ctx context.Context, service *core.Service, packages []*domain.Package) error {
	program := tea.NewProgram(tui.NewBrowser(packages))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("running picker: %w", err)
	}

	browser, ok := final.(tui.Browser)
	if !ok || browser.Choice() == nil {
		return nil
	}
	pkg := browser.Choice()

	err = runWithProgress(service, func() error {
		return service.InstallByName(ctx, pkg.Owner, pkg.Name, "")
	})
	if err != nil {
		return err
	}

	fmt.Printf("Installed %s\n", pkg.FullName())
	return nil
}
