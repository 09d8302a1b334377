package statsstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/racquet-stats/internal/stats"
)

// store keeps statistics documents in SQL tables: one header row per document,
// one counter row per category and one row per played match.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ stats.Store = (*store)(nil)

// New creates a SQL backed statistics store.
func New(db *sql.DB) stats.Store {
	return &store{
		db: db,
	}
}

// outcomeColumn maps a result onto its counter column. Only these names are
// ever interpolated into SQL.
func outcomeColumn(outcome stats.Result) (string, error) {
	switch outcome {
	case stats.ResultWon:
		return "won", nil
	case stats.ResultLost:
		return "lost", nil
	case stats.ResultTie:
		return "tie", nil
	case stats.ResultNoResult:
		return "nr", nil
	}
	return "", fmt.Errorf("%w: unknown outcome %q", stats.ErrValidation, outcome)
}

func (s *store) Exists(ctx context.Context, collection string, entityID int64) (*stats.StatisticsDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM stats_documents WHERE collection = ? AND entity_id = ?",
		collection, entityID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check document: %w", err)
	}

	doc := &stats.StatisticsDocument{
		EntityID:   entityID,
		Categories: make(map[string]*stats.CategoryAggregate),
	}
	if err := s.loadCategories(ctx, collection, doc); err != nil {
		return nil, err
	}
	if err := s.loadPlayed(ctx, collection, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *store) loadCategories(ctx context.Context, collection string, doc *stats.StatisticsDocument) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, total, won, lost, tie, nr, scheduled_json
		FROM category_stats
		WHERE collection = ? AND entity_id = ?
		ORDER BY position`, collection, doc.EntityID)
	if err != nil {
		return fmt.Errorf("failed to query category stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			category      string
			agg           stats.CategoryAggregate
			scheduledJSON sql.NullString
		)
		if err := rows.Scan(&category, &agg.Total, &agg.Won, &agg.Lost, &agg.Tie, &agg.NR, &scheduledJSON); err != nil {
			return fmt.Errorf("failed to scan category stats: %w", err)
		}
		agg.Played = []stats.MatchRecord{}
		agg.Scheduled = []stats.ScheduledMatch{}
		if scheduledJSON.Valid && scheduledJSON.String != "" {
			if err := json.Unmarshal([]byte(scheduledJSON.String), &agg.Scheduled); err != nil {
				log.Error("Failed to unmarshal scheduled_json", "error", err, "entityID", doc.EntityID, "category", category)
			}
		}
		doc.Categories[category] = &agg
	}
	return rows.Err()
}

func (s *store) loadPlayed(ctx context.Context, collection string, doc *stats.StatisticsDocument) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, record_json
		FROM played_matches
		WHERE collection = ? AND entity_id = ?
		ORDER BY id`, collection, doc.EntityID)
	if err != nil {
		return fmt.Errorf("failed to query played matches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category, recordJSON string
		if err := rows.Scan(&category, &recordJSON); err != nil {
			return fmt.Errorf("failed to scan played match: %w", err)
		}
		var record stats.MatchRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return fmt.Errorf("failed to unmarshal played match: %w", err)
		}
		agg, ok := doc.Categories[category]
		if !ok {
			log.Warn("Played match references unknown category", "entityID", doc.EntityID, "category", category, "matchID", record.MatchID)
			continue
		}
		agg.Played = append(agg.Played, record)
	}
	return rows.Err()
}

// CreateDocument inserts the document unless one already exists for the entity,
// in which case it does nothing.
func (s *store) CreateDocument(ctx context.Context, collection string, doc *stats.StatisticsDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO stats_documents (collection, entity_id) VALUES (?, ?) ON CONFLICT(collection, entity_id) DO NOTHING",
		collection, doc.EntityID)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Debug("Statistics document already exists", "entityID", doc.EntityID, "collection", collection)
		return tx.Commit()
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO category_stats (collection, entity_id, category, position, total, won, lost, tie, nr, scheduled_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	position := 0
	for _, category := range slices.Sorted(maps.Keys(doc.Categories)) {
		agg := doc.Categories[category]
		scheduled := agg.Scheduled
		if scheduled == nil {
			scheduled = []stats.ScheduledMatch{}
		}
		scheduledJSON, err := json.Marshal(scheduled)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx, collection, doc.EntityID, category, position, agg.Total, agg.Won, agg.Lost, agg.Tie, agg.NR, string(scheduledJSON))
		if err != nil {
			return fmt.Errorf("failed to insert category %q: %w", category, err)
		}
		position++
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Created statistics document", "entityID", doc.EntityID, "collection", collection, "categories", len(doc.Categories))
	return nil
}

// AppendMatchAndIncrement appends the record and bumps the counters in one
// transaction. A record whose match id is already present is ignored.
func (s *store) AppendMatchAndIncrement(ctx context.Context, collection string, entityID int64, category string, record stats.MatchRecord, outcome stats.Result) error {
	column, err := outcomeColumn(outcome)
	if err != nil {
		return err
	}
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM stats_documents WHERE collection = ? AND entity_id = ?",
		collection, entityID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("no statistics document for entity %d", entityID)
	}
	if err != nil {
		return err
	}

	// Documents created before a category joined the catalog lack its row.
	res, err := tx.ExecContext(ctx, `
		INSERT INTO category_stats (collection, entity_id, category, position)
		SELECT ?, ?, ?, COALESCE(MAX(position) + 1, 0) FROM category_stats
		WHERE collection = ? AND entity_id = ?
		ON CONFLICT(collection, entity_id, category) DO NOTHING`,
		collection, entityID, category, collection, entityID)
	if err != nil {
		return fmt.Errorf("failed to add category %q: %w", category, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info("Added missing category to statistics document", "entityID", entityID, "category", category, "collection", collection)
	}

	res, err = tx.ExecContext(ctx, `
		INSERT INTO played_matches (collection, entity_id, category, match_id, result, record_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, entity_id, match_id) DO NOTHING`,
		collection, entityID, category, record.MatchID, string(outcome), string(recordJSON))
	if err != nil {
		return fmt.Errorf("failed to insert played match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Info("Match already recorded for entity, skipping", "entityID", entityID, "matchID", record.MatchID)
		return tx.Commit()
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE category_stats SET total = total + 1, %[1]s = %[1]s + 1
		WHERE collection = ? AND entity_id = ? AND category = ?`, column),
		collection, entityID, category)
	if err != nil {
		return fmt.Errorf("failed to increment counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug("Appended match", "entityID", entityID, "matchID", record.MatchID, "category", category, "outcome", outcome)
	return nil
}

// RemoveMatchAndDecrement deletes the match and lowers the counters in one transaction.
func (s *store) RemoveMatchAndDecrement(ctx context.Context, collection string, entityID int64, category string, matchID string, outcome stats.Result) error {
	column, err := outcomeColumn(outcome)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM played_matches WHERE collection = ? AND entity_id = ? AND category = ? AND match_id = ?",
		collection, entityID, category, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete played match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return stats.ErrMatchNotFound
	}

	res, err = tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE category_stats SET total = total - 1, %[1]s = %[1]s - 1
		WHERE collection = ? AND entity_id = ? AND category = ? AND total > 0 AND %[1]s > 0`, column),
		collection, entityID, category)
	if err != nil {
		return fmt.Errorf("failed to decrement counters: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("counters for entity %d category %q would go negative", entityID, category)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug("Removed match", "entityID", entityID, "matchID", matchID, "category", category, "outcome", outcome)
	return nil
}

func (s *store) FetchMatch(ctx context.Context, collection string, entityID int64, matchID string) (*stats.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recordJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT record_json FROM played_matches WHERE collection = ? AND entity_id = ? AND match_id = ?",
		collection, entityID, matchID).Scan(&recordJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match: %w", err)
	}

	var record stats.MatchRecord
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &record, nil
}
