package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventMatchRecorded EventType = "match-recorded"
	EventMatchDeleted  EventType = "match-deleted"
)

// MatchRecordedEvent is published after a match was written for every tracked participant.
type MatchRecordedEvent struct {
	Sport        string    `msgpack:"sport"`
	OwnerID      int64     `msgpack:"owner_id"`
	MatchID      string    `msgpack:"match_id"`
	Category     string    `msgpack:"category"`
	Result       string    `msgpack:"result"`
	MatchScore   string    `msgpack:"match_score"`
	Date         time.Time `msgpack:"date"`
	Participants []int64   `msgpack:"participants"`
}

// MatchDeletedEvent is published after a match was removed from one entity's statistics.
type MatchDeletedEvent struct {
	Sport    string `msgpack:"sport"`
	EntityID int64  `msgpack:"entity_id"`
	MatchID  string `msgpack:"match_id"`
}
