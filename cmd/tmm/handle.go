package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var handleCmd = &cobra.Command{
	Use:   "handle <url>",
	Short: "Handle a one-click install URL",
	Long: `Install a mod from a tmm:// deep link, as registered with the
desktop's URL scheme handler.

The link form is tmm://v1/install/<host>/<owner>/<name>/<version>.

Examples:
  tmm handle "tmm://v1/install/thunderstore.io/notnotnotswipez/MoreCompany/1.7.2"`,
	Args: cobra.ExactArgs(1),
	RunE: runHandle,
}

func init() {
	rootCmd.AddCommand(handleCmd)
}

func runHandle(cmd *cobra.Command, args []string) error {
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
		return service.InstallDeepLink(ctx, args[0])
	})
	if err != nil {
		return err
	}

	fmt.Println("Mod installed.")
	return nil
}
