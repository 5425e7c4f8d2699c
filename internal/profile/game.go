package profile

import (
	"fmt"

	"tmm/internal/domain"
	"tmm/internal/loader"
)

// Game describes one supported moddable game.
type Game struct {
	Name       string      `json:"name"`
	Slug       string      `json:"slug"`
	Loader     loader.Kind `json:"loader"`
	SteamAppID uint32      `json:"steamAppId"`
	Community  string      `json:"community"` // registry community identifier
}

// Games is the built-in game catalog, roughly by popularity.
var Games = []Game{
	{Name: "Lethal Company", Slug: "lethal-company", Loader: loader.BepInEx, SteamAppID: 1966720, Community: "lethal-company"},
	{Name: "Risk of Rain 2", Slug: "riskofrain2", Loader: loader.BepInEx, SteamAppID: 632360, Community: "riskofrain2"},
	{Name: "Valheim", Slug: "valheim", Loader: loader.BepInEx, SteamAppID: 892970, Community: "valheim"},
	{Name: "Content Warning", Slug: "content-warning", Loader: loader.BepInEx, SteamAppID: 2881650, Community: "content-warning"},
	{Name: "BONELAB", Slug: "bonelab", Loader: loader.MelonLoader, SteamAppID: 1592190, Community: "bonelab"},
	{Name: "WEBFISHING", Slug: "webfishing", Loader: loader.GDWeave, SteamAppID: 3146520, Community: "webfishing"},
	{Name: "Palworld", Slug: "palworld", Loader: loader.Shimloader, SteamAppID: 1623730, Community: "palworld"},
}

// GameBySlug looks up a catalog entry by slug.
func GameBySlug(slug string) (Game, error) {
	for _, g := range Games {
		if g.Slug == slug {
			return g, nil
		}
	}
	return Game{}, fmt.Errorf("%w: %s", domain.ErrGameNotFound, slug)
}
