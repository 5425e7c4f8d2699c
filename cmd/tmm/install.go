package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var installVersion string

var installCmd = &cobra.Command{
	Use:   "install <owner> <name>",
	Short: "Install a mod",
	Long: `Install a mod and its missing dependencies into the active profile.

Dependencies are installed before the mods that need them. Already
installed dependencies are left at their current version.

Examples:
  tmm install notnotnotswipez MoreCompany --game lethal-company
  tmm install notnotnotswipez MoreCompany --version 1.7.2`,
	Args: cobra.ExactArgs(2),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installVersion, "version", "", "specific version to install (default: latest)")

	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	owner, name := args[0], args[1]

	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	ctx := context.Background()

	if err := service.RefreshIndex(ctx); err != nil {
		return fmt.Errorf("fetching package listing: %w", err)
	}

	err = runWithProgress(service, func() error {
		return service.InstallByName(ctx, owner, name, installVersion)
	})
	if err != nil {
		return err
	}

	if !jsonOutput {
		fmt.Printf("Installed %s-%s\n", owner, name)
	}
	return nil
}
