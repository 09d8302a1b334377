package statsstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/racquet-stats/internal/stats"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoStore keeps one BSON document per entity, keyed by the entity id, in a
// collection named after the sport.
type mongoStore struct {
	db *mongo.Database
}

var _ stats.Store = (*mongoStore)(nil)

// NewMongo creates a MongoDB backed statistics store.
func NewMongo(db *mongo.Database) stats.Store {
	return &mongoStore{db: db}
}

func categoryPath(category string, field string) string {
	return "category." + category + "." + field
}

func (s *mongoStore) Exists(ctx context.Context, collection string, entityID int64) (*stats.StatisticsDocument, error) {
	var doc stats.StatisticsDocument
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": entityID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document %d: %w", entityID, err)
	}
	for _, agg := range doc.Categories {
		if agg == nil {
			continue
		}
		if agg.Played == nil {
			agg.Played = []stats.MatchRecord{}
		}
		if agg.Scheduled == nil {
			agg.Scheduled = []stats.ScheduledMatch{}
		}
	}
	return &doc, nil
}

// CreateDocument upserts the skeleton with $setOnInsert so an existing document
// is left untouched.
func (s *mongoStore) CreateDocument(ctx context.Context, collection string, doc *stats.StatisticsDocument) error {
	filter := bson.M{"_id": doc.EntityID}
	update := bson.M{"$setOnInsert": bson.M{"category": doc.Categories}}
	res, err := s.db.Collection(collection).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		log.Debug("Statistics document created concurrently", "entityID", doc.EntityID, "collection", collection)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create document %d: %w", doc.EntityID, err)
	}
	if res.UpsertedCount > 0 {
		log.Info("Created statistics document", "entityID", doc.EntityID, "collection", collection, "categories", len(doc.Categories))
	}
	return nil
}

// AppendMatchAndIncrement pushes the record and increments the counters in a
// single update. The filter excludes documents already holding the match id.
func (s *mongoStore) AppendMatchAndIncrement(ctx context.Context, collection string, entityID int64, category string, record stats.MatchRecord, outcome stats.Result) error {
	column, err := outcomeColumn(outcome)
	if err != nil {
		return err
	}

	coll := s.db.Collection(collection)
	filter, update := appendDocuments(entityID, category, column, record)
	res, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to append match: %w", err)
	}
	if res.MatchedCount > 0 {
		log.Debug("Appended match", "entityID", entityID, "matchID", record.MatchID, "category", category, "outcome", outcome)
		return nil
	}

	n, err := coll.CountDocuments(ctx, bson.M{
		"_id":                                    entityID,
		categoryPath(category, "played.matchid"): record.MatchID,
	})
	if err != nil {
		return fmt.Errorf("failed to check existing match: %w", err)
	}
	if n > 0 {
		log.Info("Match already recorded for entity, skipping", "entityID", entityID, "matchID", record.MatchID)
		return nil
	}
	return fmt.Errorf("no statistics document for entity %d", entityID)
}

// appendDocuments builds the append filter and update. $push and $inc create
// the category path when the document predates the category.
func appendDocuments(entityID int64, category string, column string, record stats.MatchRecord) (bson.M, bson.M) {
	filter := bson.M{
		"_id":                                    entityID,
		categoryPath(category, "played.matchid"): bson.M{"$ne": record.MatchID},
	}
	update := bson.M{
		"$push": bson.M{categoryPath(category, "played"): record},
		"$inc": bson.M{
			categoryPath(category, "total"): 1,
			categoryPath(category, column):  1,
		},
	}
	return filter, update
}

// RemoveMatchAndDecrement pulls the record and decrements the counters in a
// single update guarded against negative counters.
func (s *mongoStore) RemoveMatchAndDecrement(ctx context.Context, collection string, entityID int64, category string, matchID string, outcome stats.Result) error {
	column, err := outcomeColumn(outcome)
	if err != nil {
		return err
	}

	filter, update := removeDocuments(entityID, category, column, matchID)
	res, err := s.db.Collection(collection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove match: %w", err)
	}
	if res.MatchedCount == 0 {
		return stats.ErrMatchNotFound
	}
	log.Debug("Removed match", "entityID", entityID, "matchID", matchID, "category", category, "outcome", outcome)
	return nil
}

// removeDocuments builds the remove filter and update. The filter only matches
// while both counters are positive.
func removeDocuments(entityID int64, category string, column string, matchID string) (bson.M, bson.M) {
	filter := bson.M{
		"_id":                                    entityID,
		categoryPath(category, "played.matchid"): matchID,
		categoryPath(category, "total"):          bson.M{"$gt": 0},
		categoryPath(category, column):           bson.M{"$gt": 0},
	}
	update := bson.M{
		"$pull": bson.M{categoryPath(category, "played"): bson.M{"matchid": matchID}},
		"$inc": bson.M{
			categoryPath(category, "total"): -1,
			categoryPath(category, column):  -1,
		},
	}
	return filter, update
}

func (s *mongoStore) FetchMatch(ctx context.Context, collection string, entityID int64, matchID string) (*stats.MatchRecord, error) {
	doc, err := s.Exists(ctx, collection, entityID)
	if err != nil || doc == nil {
		return nil, err
	}
	for _, agg := range doc.Categories {
		if agg == nil {
			continue
		}
		for i := range agg.Played {
			if agg.Played[i].MatchID == matchID {
				record := agg.Played[i]
				return &record, nil
			}
		}
	}
	return nil, nil
}
