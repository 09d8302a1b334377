package statsstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/mauv0809/racquet-stats/internal/stats"
	"github.com/mauv0809/racquet-stats/internal/statsstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupMongo connects to the server in MONGO_URI and returns a store backed by a
// throwaway database. Tests are skipped when no server is configured.
func setupMongo(t *testing.T) (stats.Store, func()) {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database(fmt.Sprintf("racquet_test_%d", time.Now().UnixNano()))
	teardown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	}
	return statsstore.NewMongo(db), teardown
}

func TestMongoStore(t *testing.T) {
	store, teardown := setupMongo(t)
	defer teardown()
	ctx := context.Background()

	doc, err := store.Exists(ctx, collection, 42)
	require.NoError(t, err)
	assert.Nil(t, doc)

	require.NoError(t, store.CreateDocument(ctx, collection, stats.BuildSkeleton(42, categories)))
	require.NoError(t, store.AppendMatchAndIncrement(ctx, collection, 42, "singles", record("m1", stats.ResultWon, 7), stats.ResultWon))
	require.NoError(t, store.AppendMatchAndIncrement(ctx, collection, 42, "singles", record("m1", stats.ResultWon, 7), stats.ResultWon))
	require.NoError(t, store.CreateDocument(ctx, collection, stats.BuildSkeleton(42, categories)))

	doc, err = store.Exists(ctx, collection, 42)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 1, doc.Categories["singles"].Total)
	assert.Equal(t, 1, doc.Categories["singles"].Won)
	assert.True(t, doc.Categories["singles"].Consistent())

	got, err := store.FetchMatch(ctx, collection, 42, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2-1", got.MatchScore)

	require.NoError(t, store.RemoveMatchAndDecrement(ctx, collection, 42, "singles", "m1", stats.ResultWon))
	err = store.RemoveMatchAndDecrement(ctx, collection, 42, "singles", "m1", stats.ResultWon)
	assert.ErrorIs(t, err, stats.ErrMatchNotFound)

	err = store.AppendMatchAndIncrement(ctx, collection, 99, "singles", record("m2", stats.ResultWon, 7), stats.ResultWon)
	assert.Error(t, err)
}

func TestEngineWithMongoStore(t *testing.T) {
	store, teardown := setupMongo(t)
	defer teardown()
	ctx := context.Background()
	engine := newEngine(store)

	require.NoError(t, engine.AddMatchForParticipants(ctx, 42, "singles", record("m1", stats.ResultWon, 7)))

	opponent, err := store.Exists(ctx, collection, 7)
	require.NoError(t, err)
	require.NotNil(t, opponent)
	assert.Equal(t, 1, opponent.Categories["singles"].Lost)
	require.Len(t, opponent.Categories["singles"].Played, 1)
	assert.Equal(t, stats.ResultLost, opponent.Categories["singles"].Played[0].Result)
}
