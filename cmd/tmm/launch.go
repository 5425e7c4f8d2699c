package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch the active game",
	Long: `Start the active game through Steam with the mod loader pointed
at the active profile.

Examples:
  tmm launch --game lethal-company`,
	RunE: runLaunch,
}

func init() {
	rootCmd.AddCommand(launchCmd)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	if err := service.LaunchGame(context.Background()); err != nil {
		return err
	}
	fmt.Println("Game launched.")
	return nil
}
