package sport

import (
	"context"
	"fmt"

	"github.com/mauv0809/racquet-stats/internal/catalog"
	"github.com/mauv0809/racquet-stats/internal/stats"
)

// Config describes one racquet sport: its name, its statistics categories and
// where its documents live.
type Config struct {
	Name              string
	Categories        []string
	DoublesCategories []string
	Collection        string
}

// Badminton is the built-in badminton configuration.
var Badminton = Config{
	Name:              "badminton",
	Categories:        []string{"singles", "doubles"},
	DoublesCategories: []string{"doubles"},
	Collection:        "badminton_stats",
}

// EngineOptions maps the configuration onto the aggregation engine options.
func (c Config) EngineOptions() stats.Options {
	return stats.Options{
		Collection:        c.Collection,
		Categories:        c.Categories,
		DoublesCategories: c.DoublesCategories,
	}
}

// Load builds a sport configuration from the catalog. When collection is empty
// it defaults to "<sport>_stats".
func Load(ctx context.Context, c catalog.Catalog, sportID string, collection string) (Config, error) {
	ok, err := c.IsValidSport(ctx, sportID)
	if err != nil {
		return Config{}, fmt.Errorf("failed to look up sport %q: %w", sportID, err)
	}
	if !ok {
		return Config{}, fmt.Errorf("unknown sport %q", sportID)
	}

	categories, err := c.GetCategoriesForSport(ctx, sportID)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load categories for %q: %w", sportID, err)
	}
	if len(categories) == 0 {
		return Config{}, fmt.Errorf("sport %q has no categories", sportID)
	}

	if collection == "" {
		collection = sportID + "_stats"
	}
	cfg := Config{
		Name:       sportID,
		Collection: collection,
	}
	for _, category := range categories {
		cfg.Categories = append(cfg.Categories, category.Name)
		if category.IsDoubles {
			cfg.DoublesCategories = append(cfg.DoublesCategories, category.Name)
		}
	}
	return cfg, nil
}
