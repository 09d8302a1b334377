package catalog

import "context"

// Catalog describes which sports exist and how their statistics are split.
type Catalog interface {
	IsValidSport(ctx context.Context, sportID string) (bool, error)
	GetCategoriesForSport(ctx context.Context, sportID string) ([]Category, error)
	ListSports(ctx context.Context) ([]Sport, error)
}
