package statsstore

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/racquet-stats/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func mongoRecord(matchID string) stats.MatchRecord {
	return stats.MatchRecord{
		MatchID:    matchID,
		Category:   "mixed",
		Date:       time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		MatchScore: "2-0",
		Result:     stats.ResultWon,
		Games:      []stats.Game{{GameScore: "21-9"}, {GameScore: "21-13"}},
		Opponent:   stats.Participant{ID: 7},
	}
}

func TestAppendDocuments(t *testing.T) {
	filter, update := appendDocuments(42, "mixed", "won", mongoRecord("m1"))

	assert.Equal(t, bson.M{
		"_id":                           int64(42),
		"category.mixed.played.matchid": bson.M{"$ne": "m1"},
	}, filter, "a category missing from the document must still match")
	assert.NotContains(t, filter, "category.mixed.total")

	assert.Equal(t, bson.M{"category.mixed.played": mongoRecord("m1")}, update["$push"])
	assert.Equal(t, bson.M{"category.mixed.total": 1, "category.mixed.won": 1}, update["$inc"])
}

func TestRemoveDocuments(t *testing.T) {
	filter, update := removeDocuments(42, "singles", "lost", "m1")

	assert.Equal(t, "m1", filter["category.singles.played.matchid"])
	assert.Equal(t, bson.M{"$gt": 0}, filter["category.singles.total"])
	assert.Equal(t, bson.M{"$gt": 0}, filter["category.singles.lost"])
	assert.Equal(t, bson.M{"category.singles.played": bson.M{"matchid": "m1"}}, update["$pull"])
	assert.Equal(t, bson.M{"category.singles.total": -1, "category.singles.lost": -1}, update["$inc"])
}

func TestMongoStoreWithMockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ns := "racquet.badminton_stats"

	mt.Run("append matches", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		err := NewMongo(mt.DB).AppendMatchAndIncrement(ctx, "badminton_stats", 42, "mixed", mongoRecord("m1"), stats.ResultWon)
		assert.NoError(mt, err)
	})

	mt.Run("append of a recorded match is a no-op", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)

		err := NewMongo(mt.DB).AppendMatchAndIncrement(ctx, "badminton_stats", 42, "mixed", mongoRecord("m1"), stats.ResultWon)
		assert.NoError(mt, err)
	})

	mt.Run("append without a document fails", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		err := NewMongo(mt.DB).AppendMatchAndIncrement(ctx, "badminton_stats", 99, "mixed", mongoRecord("m1"), stats.ResultWon)
		assert.ErrorContains(mt, err, "no statistics document for entity 99")
	})

	mt.Run("remove of an absent match", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := NewMongo(mt.DB).RemoveMatchAndDecrement(ctx, "badminton_stats", 42, "singles", "m1", stats.ResultWon)
		assert.ErrorIs(mt, err, stats.ErrMatchNotFound)
	})

	mt.Run("remove a match", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		err := NewMongo(mt.DB).RemoveMatchAndDecrement(ctx, "badminton_stats", 42, "singles", "m1", stats.ResultWon)
		assert.NoError(mt, err)
	})

	mt.Run("unknown outcome is rejected before any command", func(mt *mtest.T) {
		err := NewMongo(mt.DB).AppendMatchAndIncrement(ctx, "badminton_stats", 42, "singles", mongoRecord("m1"), "draw")
		require.ErrorIs(mt, err, stats.ErrValidation)
	})
}
