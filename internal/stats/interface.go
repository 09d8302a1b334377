package stats

import "context"

// Store defines the persistence primitives the engine relies on. Implementations
// must make AppendMatchAndIncrement and RemoveMatchAndDecrement atomic for a single
// entity and CreateDocument a create-if-absent. AppendMatchAndIncrement adds a
// zeroed category to an existing document that lacks it.
type Store interface {
	// Exists returns the entity's document, or nil when there is none.
	Exists(ctx context.Context, collection string, entityID int64) (*StatisticsDocument, error)
	CreateDocument(ctx context.Context, collection string, doc *StatisticsDocument) error
	AppendMatchAndIncrement(ctx context.Context, collection string, entityID int64, category string, record MatchRecord, outcome Result) error
	RemoveMatchAndDecrement(ctx context.Context, collection string, entityID int64, category string, matchID string, outcome Result) error
	// FetchMatch returns the match, or nil when the entity has no such match.
	FetchMatch(ctx context.Context, collection string, entityID int64, matchID string) (*MatchRecord, error)
}
