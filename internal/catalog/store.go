package catalog

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/log"
)

// New creates a catalog backed by the sports tables.
func New(db *sql.DB) Catalog {
	return &store{
		db: db,
	}
}

func (s *store) IsValidSport(ctx context.Context, sportID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM sports WHERE id = ?)", sportID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check sport", "error", err, "sportID", sportID)
		return false, err
	}
	return exists, nil
}

// GetCategoriesForSport returns the sport's categories ordered by position. An
// unknown sport has no categories.
func (s *store) GetCategoriesForSport(ctx context.Context, sportID string) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, is_doubles
		FROM sport_categories
		WHERE sport_id = ?
		ORDER BY position, category`, sportID)
	if err != nil {
		log.Error("Failed to query categories", "error", err, "sportID", sportID)
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Name, &c.IsDoubles); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *store) ListSports(ctx context.Context) ([]Sport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM sports ORDER BY id")
	if err != nil {
		log.Error("Failed to query sports", "error", err)
		return nil, err
	}
	defer rows.Close()

	sports := []Sport{}
	for rows.Next() {
		var sp Sport
		if err := rows.Scan(&sp.ID, &sp.Name); err != nil {
			return nil, err
		}
		sports = append(sports, sp)
	}
	return sports, rows.Err()
}
