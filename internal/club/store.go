package club

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

// AddPlayer inserts the player or renames an existing one.
func (s *store) AddPlayer(ctx context.Context, playerID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`, playerID, name)
	if err != nil {
		log.Error("Failed to add player", "error", err, "playerID", playerID)
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info("Saved player", "playerID", playerID, "name", name)
	}
	return nil
}

// UpsertPlayers inserts or renames a batch of players in one transaction.
func (s *store) UpsertPlayers(ctx context.Context, players []PlayerInfo) error {
	if len(players) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name); err != nil {
			return fmt.Errorf("failed to upsert player %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Upserted players", "count", len(players))
	return nil
}

func (s *store) IsKnownPlayer(ctx context.Context, playerID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false, err
	}
	return exists, nil
}

func (s *store) GetAllPlayers(ctx context.Context) ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM players ORDER BY name, id")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// GetPlayers returns the requested players that exist, ordered by id.
func (s *store) GetPlayers(ctx context.Context, playerIDs []int64) ([]PlayerInfo, error) {
	if len(playerIDs) == 0 {
		return []PlayerInfo{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(playerIDs)), ",")
	query := fmt.Sprintf("SELECT id, name, created_at FROM players WHERE id IN (%s) ORDER BY id", placeholders)
	rows, err := s.db.QueryContext(ctx, query, ToAnySlice(playerIDs)...)
	if err != nil {
		log.Error("Failed to query players", "error", err)
		return nil, err
	}
	defer rows.Close()

	return scanPlayers(rows)
}

func (s *store) RemovePlayer(ctx context.Context, playerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", playerID)
	if err != nil {
		log.Error("Failed to remove player", "error", err, "playerID", playerID)
		return err
	}
	log.Info("Removed player", "playerID", playerID)
	return nil
}

func scanPlayers(rows *sql.Rows) ([]PlayerInfo, error) {
	players := []PlayerInfo{}
	for rows.Next() {
		var p PlayerInfo
		var name sql.NullString
		if err := rows.Scan(&p.ID, &name, &p.CreatedAt); err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		p.Name = name.String
		players = append(players, p)
	}
	return players, rows.Err()
}

func ToAnySlice[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
