package statsstore_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mauv0809/racquet-stats/internal/database"
	"github.com/mauv0809/racquet-stats/internal/stats"
	"github.com/mauv0809/racquet-stats/internal/statsstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const collection = "badminton_stats"

var categories = []string{"singles", "doubles"}

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (stats.Store, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return statsstore.New(db), db, dbTeardown
}

func record(matchID string, result stats.Result, opponent int64) stats.MatchRecord {
	gameTime := 12.0
	return stats.MatchRecord{
		MatchID:    matchID,
		Category:   "singles",
		Date:       time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		MatchScore: "2-1",
		Result:     result,
		Notes:      "evening session",
		Games:      []stats.Game{{GameScore: "21-17", Time: &gameTime}, {GameScore: "19-21"}, {GameScore: "21-11"}},
		Opponent:   stats.Participant{ID: opponent},
	}
}

func TestExistsAndCreateDocument(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	doc, err := store.Exists(ctx, collection, 42)
	require.NoError(t, err)
	assert.Nil(t, doc, "no document before creation")

	require.NoError(t, store.CreateDocument(ctx, collection, stats.BuildSkeleton(42, categories)))

	doc, err = store.Exists(ctx, collection, 42)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, stats.BuildSkeleton(42, categories), doc)

	t.Run("documents are scoped by collection", func(t *testing.T) {
		other, err := store.Exists(ctx, "tennis_stats", 42)
		require.NoError(t, err)
		assert.Nil(t, other)
	})

	t.Run("second create is a no-op", func(t *testing.T) {
		require.NoError(t, store.AppendMatchAndIncrement(ctx, collection, 42, "singles", record("m1", stats.ResultWon, 7), stats.ResultWon))
		require.NoError(t, store.CreateDocument(ctx, collection, stats.BuildSkeleton(42, categories)))

		doc, err := store.Exists(ctx, collection, 42)
		require.NoError(t, err)
		assert.Equal(t, 1, doc.Categories["singles"].Total)
		assert.Len(t, doc.Categories["singles"].Played, 1)
	})
}

func TestAppendMatchAndIncrement(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	require.NoError(t, store.CreateDocument(ctx, collection, stats.BuildSkeleton(42, categories)))

	results := []stats.Result{stats.ResultWon, stats.ResultLost, stats.ResultTie, stats.ResultNoResult, stats.ResultWon}
	for i, result := range results {
		require.NoError(t, store.AppendMatchAndIncrement(ctx, collection, 42, "singles", record(fmt.Sprintf("m%d", i), result, 7), result))
	}

	doc, err := store.Exists(ctx, collection, 42)
	require.NoError(t, err)
	s := doc.Categories["singles"]
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Won)
	assert.Equal(t, 1, s.Lost)
	assert.Equal(t, 1, s.Tie)
	assert.Equal(t, 1, s.NR)
	assert.True(t, s.Consistent())

	require.Len(t, s.Played, 5)
	for i := range results {
		assert.Equal(t, fmt.Sprintf("m%d", i), s.Played[i].MatchID, "played keeps insertion order")
	}
	assert.Equal(t, record("m0", stats.ResultWon, 7), s.Played[0], "record survives the round trip")

	t.Run("same match id twice is ignored", func(t *testing.T) {
		require.NoError(t, store.AppendMatchAndIncrement(ctx, collection, 42, "singles", record("m0", stats.ResultWon, 7), stats.ResultWon))
		doc, err := store.Exists(ctx, collection, 42)
		require.NoError(t, err)
		assert.Equal(t, 5, doc.Categories["singles"].Total)
		assert.Equal(t, 2, doc.Categories["singles"].Won)
	})

	t.Run("missing document is an error", func(t *testing.T) {
		err := store.AppendMatchAndIncrement(ctx, collection, 99, "singles", record("x", stats.ResultWon, 7), stats.ResultWon)
		assert.Error(t, err)
	})

	t.Run("category missing from the document is added", func(t *testing.T) {
		mixed := record("x", stats.ResultWon, 7)
		mixed.Category = "mixed"
		require.NoError(t, store.AppendMatchAndIncrement(ctx, collection, 42, "mixed", mixed, stats.ResultWon))

		doc, err := store.Exists(ctx, collection, 42)
		require.NoError(t, err)
		require.Contains(t, doc.Categories, "mixed")
		assert.Equal(t, 1, doc.Categories["mixed"].Total)
		assert.Equal(t, 1, doc.Categories["mixed"].Won)
		assert.Equal(t, []stats.ScheduledMatch{}, doc.Categories["mixed"].Scheduled)
		require.Len(t, doc.Categories["mixed"].Played, 1)
		assert.Equal(t, 5, doc.Categories["singles"].Total, "other categories untouched")
	})

	t.Run("unknown outcome is rejected", func(t *testing.T) {
		err := store.AppendMatchAndIncrement(ctx, collection, 42, "singles", record("x", "draw", 7), "draw")
		assert.ErrorIs(t, err, stats.ErrValidation)
	})
}

func TestRemoveMatchAndDecrement(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	require.NoError(t, store.CreateDocument(ctx, collection, stats.BuildSkeleton(42, categories)))
	require.NoError(t, store.AppendMatchAndIncrement(ctx, collection, 42, "singles", record("m1", stats.ResultWon, 7), stats.ResultWon))
	require.NoError(t, store.AppendMatchAndIncrement(ctx, collection, 42, "singles", record("m2", stats.ResultTie, 7), stats.ResultTie))

	require.NoError(t, store.RemoveMatchAndDecrement(ctx, collection, 42, "singles", "m1", stats.ResultWon))

	doc, err := store.Exists(ctx, collection, 42)
	require.NoError(t, err)
	s := doc.Categories["singles"]
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 0, s.Won)
	assert.Equal(t, 1, s.Tie)
	require.Len(t, s.Played, 1)
	assert.Equal(t, "m2", s.Played[0].MatchID)

	t.Run("unknown match", func(t *testing.T) {
		err := store.RemoveMatchAndDecrement(ctx, collection, 42, "singles", "m1", stats.ResultWon)
		assert.ErrorIs(t, err, stats.ErrMatchNotFound)

		after, err := store.Exists(ctx, collection, 42)
		require.NoError(t, err)
		assert.Equal(t, doc, after)
	})
}

func TestFetchMatch(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	require.NoError(t, store.CreateDocument(ctx, collection, stats.BuildSkeleton(42, categories)))
	require.NoError(t, store.AppendMatchAndIncrement(ctx, collection, 42, "singles", record("m1", stats.ResultLost, 7), stats.ResultLost))

	got, err := store.FetchMatch(ctx, collection, 42, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "singles", got.Category)
	assert.Equal(t, stats.ResultLost, got.Result)

	missing, err := store.FetchMatch(ctx, collection, 42, "m2")
	require.NoError(t, err)
	assert.Nil(t, missing)

	otherEntity, err := store.FetchMatch(ctx, collection, 7, "m1")
	require.NoError(t, err)
	assert.Nil(t, otherEntity)
}

func newEngine(store stats.Store) *stats.Engine {
	return stats.NewEngine(store, stats.Options{
		Collection:        collection,
		Categories:        categories,
		DoublesCategories: []string{"doubles"},
	})
}

func TestEngineWithSQLStore_FirstMatchScenario(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	engine := newEngine(store)

	require.NoError(t, engine.AddMatchForParticipants(ctx, 42, "singles", record("m1", stats.ResultWon, 7)))

	owner, err := store.Exists(ctx, collection, 42)
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, 1, owner.Categories["singles"].Total)
	assert.Equal(t, 1, owner.Categories["singles"].Won)
	require.Len(t, owner.Categories["singles"].Played, 1)
	assert.Equal(t, "m1", owner.Categories["singles"].Played[0].MatchID)

	opponent, err := store.Exists(ctx, collection, 7)
	require.NoError(t, err)
	require.NotNil(t, opponent)
	assert.Equal(t, 1, opponent.Categories["singles"].Total)
	assert.Equal(t, 1, opponent.Categories["singles"].Lost)
	require.Len(t, opponent.Categories["singles"].Played, 1)
	assert.Equal(t, "m1", opponent.Categories["singles"].Played[0].MatchID)

	require.NoError(t, engine.DeleteMatch(ctx, 42, "m1"))

	owner, err = store.Exists(ctx, collection, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, owner.Categories["singles"].Total)
	assert.Equal(t, 0, owner.Categories["singles"].Won)
	assert.Empty(t, owner.Categories["singles"].Played)

	opponent, err = store.Exists(ctx, collection, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, opponent.Categories["singles"].Total)
	assert.Equal(t, 1, opponent.Categories["singles"].Lost)
}

func TestEngineWithSQLStore_Doubles(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	engine := newEngine(store)

	r := stats.MatchRecord{
		MatchID:    "d1",
		MatchScore: "2-0",
		Result:     stats.ResultWon,
		Games:      []stats.Game{{GameScore: "21-12"}, {GameScore: "21-16"}},
		Opponent:   stats.Participant{ID: 7},
		Opponent2:  &stats.Participant{ID: 8},
		Partner:    &stats.Participant{ID: 9},
	}
	require.NoError(t, engine.AddMatchForParticipants(ctx, 42, "doubles", r))

	want := map[int64]stats.Result{42: stats.ResultWon, 9: stats.ResultWon, 7: stats.ResultLost, 8: stats.ResultLost}
	for id, result := range want {
		doc, err := store.Exists(ctx, collection, id)
		require.NoError(t, err)
		require.NotNil(t, doc, "entity %d", id)
		d := doc.Categories["doubles"]
		require.Len(t, d.Played, 1, "entity %d", id)
		assert.Equal(t, result, d.Played[0].Result, "entity %d", id)
		assert.True(t, d.Consistent(), "entity %d", id)
	}
}

func TestEngineWithSQLStore_ConcurrentAdds(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()
	engine := newEngine(store)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- engine.AddMatchForParticipants(ctx, 42, "singles", record(fmt.Sprintf("c%d", i), stats.ResultWon, 7))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	for _, id := range []int64{42, 7} {
		doc, err := store.Exists(ctx, collection, id)
		require.NoError(t, err)
		s := doc.Categories["singles"]
		assert.Equal(t, 10, s.Total, "entity %d", id)
		assert.True(t, s.Consistent(), "entity %d", id)
	}
}

func TestEngineWithSQLStore_CategoryAddedLater(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	before := stats.NewEngine(store, stats.Options{Collection: collection, Categories: []string{"singles"}})
	require.NoError(t, before.AddMatchForParticipants(ctx, 42, "singles", record("m1", stats.ResultWon, 7)))

	after := stats.NewEngine(store, stats.Options{Collection: collection, Categories: []string{"singles", "mixed"}})
	require.NoError(t, after.AddMatchForParticipants(ctx, 42, "mixed", record("m2", stats.ResultLost, 7)))

	for id, want := range map[int64]stats.Result{42: stats.ResultLost, 7: stats.ResultWon} {
		doc, err := store.Exists(ctx, collection, id)
		require.NoError(t, err)
		mixed := doc.Categories["mixed"]
		require.NotNil(t, mixed, "entity %d", id)
		assert.Equal(t, 1, mixed.Total, "entity %d", id)
		assert.True(t, mixed.Consistent(), "entity %d", id)
		require.Len(t, mixed.Played, 1, "entity %d", id)
		assert.Equal(t, want, mixed.Played[0].Result, "entity %d", id)
		assert.Equal(t, 1, doc.Categories["singles"].Total, "entity %d", id)
	}

	require.NoError(t, after.DeleteMatch(ctx, 42, "m2"))
	doc, err := store.Exists(ctx, collection, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Categories["mixed"].Total)
}
