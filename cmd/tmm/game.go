package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tmm/internal/profile"
)

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Manage games",
	Long:  `List supported games and switch which one commands operate on.`,
}

var gameListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported games",
	RunE:  runGameList,
}

var gameSetCmd = &cobra.Command{
	Use:   "set <slug>",
	Short: "Set the active game",
	Long: `Make a game the default target for commands, setting it up on
first use.

Examples:
  tmm game set lethal-company`,
	Args: cobra.ExactArgs(1),
	RunE: runGameSet,
}

var gameFavoriteCmd = &cobra.Command{
	Use:   "favorite <slug>",
	Short: "Toggle a game's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE:  runGameFavorite,
}

func init() {
	gameCmd.AddCommand(gameListCmd)
	gameCmd.AddCommand(gameSetCmd)
	gameCmd.AddCommand(gameFavoriteCmd)
	rootCmd.AddCommand(gameCmd)
}

func runGameList(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	active := ""
	if game, err := service.ActiveGame(); err == nil {
		active = game.Game.Slug
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tNAME\tLOADER\tACTIVE")
	fmt.Fprintln(w, "----\t----\t------\t------")
	for _, game := range profile.Games {
		marker := ""
		if game.Slug == active {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", game.Slug, game.Name, game.Loader, marker)
	}
	return w.Flush()
}

func runGameSet(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	if err := service.SetActiveGame(args[0]); err != nil {
		return err
	}
	fmt.Printf("Active game: %s\n", args[0])
	return nil
}

func runGameFavorite(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer service.Close()

	favorite, err := service.ToggleFavoriteGame(args[0])
	if err != nil {
		return err
	}
	if favorite {
		fmt.Printf("Favorited %s\n", args[0])
	} else {
		fmt.Printf("Unfavorited %s\n", args[0])
	}
	return nil
}
