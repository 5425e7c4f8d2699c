package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tmm/internal/core"
	"tmm/internal/domain"
	"tmm/internal/logging"
	"tmm/internal/storage/config"
)

var (
	version = "0.4.0"

	// Global flags
	configDir  string
	gameSlug   string
	verbosity  int
	jsonOutput bool
	yesFlag    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tmm",
	Short: "Thunderstore mod manager for the terminal",
	Long: `tmm manages Thunderstore mods for supported games: searching,
installing with dependency resolution, profiles, and updates.

Use subcommands for operations. Run 'tmm --help' for available commands.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbosity)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.config/tmm)")
	rootCmd.PersistentFlags().StringVarP(&gameSlug, "game", "g", "", "game slug to operate on")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format (list, search, update)")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "answer yes to confirmation prompts")
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error,
// 2 = user cancelled.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			os.Exit(2)
		}
		if jsonOutput {
			fmt.Printf(`{"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// initService creates the core service and switches to the requested game
// when --game is given.
func initService() (*core.Service, error) {
	dir := configDir
	if dir == "" {
		dir = config.DefaultConfigDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}

	service, err := core.NewService(dir)
	if err != nil {
		return nil, err
	}

	if gameSlug != "" {
		if err := service.SetActiveGame(gameSlug); err != nil {
			service.Close()
			return nil, err
		}
	}

	return service, nil
}
