package stats

import "time"

// Result is the outcome of a match from the perspective of the document owner.
type Result string

const (
	ResultWon      Result = "won"
	ResultLost     Result = "lost"
	ResultTie      Result = "tie"
	ResultNoResult Result = "nr"
)

// Valid reports whether r is one of the four known outcomes.
func (r Result) Valid() bool {
	switch r {
	case ResultWon, ResultLost, ResultTie, ResultNoResult:
		return true
	}
	return false
}

// Invert returns the outcome as seen by the other side of the net.
func (r Result) Invert() Result {
	switch r {
	case ResultWon:
		return ResultLost
	case ResultLost:
		return ResultWon
	default:
		return r
	}
}

// Participant references another player in a match. External participants are
// not tracked by us and never get a statistics document.
type Participant struct {
	ID         int64 `json:"id" bson:"id"`
	IsExternal bool  `json:"is_external,omitempty" bson:"isExternal,omitempty"`
}

// Game holds the score of a single game and optionally how long it took in minutes.
type Game struct {
	GameScore string   `json:"game_score" bson:"gamescore"`
	Time      *float64 `json:"time,omitempty" bson:"time,omitempty"`
}

// MatchRecord is one participant's copy of a played match.
type MatchRecord struct {
	MatchID    string       `json:"match_id" bson:"matchid"`
	Category   string       `json:"category" bson:"category"`
	Date       time.Time    `json:"date" bson:"date"`
	MatchScore string       `json:"match_score" bson:"matchscore"`
	Result     Result       `json:"result" bson:"result"`
	Notes      string       `json:"notes,omitempty" bson:"notes,omitempty"`
	Games      []Game       `json:"games" bson:"games"`
	Opponent   Participant  `json:"opponent" bson:"opponent"`
	Opponent2  *Participant `json:"opponent2,omitempty" bson:"opponent2,omitempty"`
	Partner    *Participant `json:"partner,omitempty" bson:"partner,omitempty"`
}

// ScheduledMatch is a reference to a match that has not been played yet.
type ScheduledMatch struct {
	MatchID string    `json:"match_id" bson:"matchid"`
	Date    time.Time `json:"date" bson:"date"`
}

// CategoryAggregate holds the rolling counters and the detailed match list of one category.
type CategoryAggregate struct {
	Total     int              `json:"total" bson:"total"`
	Won       int              `json:"won" bson:"won"`
	Lost      int              `json:"lost" bson:"lost"`
	Tie       int              `json:"tie" bson:"tie"`
	NR        int              `json:"nr" bson:"nr"`
	Played    []MatchRecord    `json:"played,omitempty" bson:"played"`
	Scheduled []ScheduledMatch `json:"scheduled" bson:"scheduled"`
}

// Consistent reports whether the counters agree with each other and with the played list.
func (c *CategoryAggregate) Consistent() bool {
	return c.Total == c.Won+c.Lost+c.Tie+c.NR && c.Total == len(c.Played)
}

// StatisticsDocument is the per player, per sport statistics document.
type StatisticsDocument struct {
	EntityID   int64                         `json:"entity_id" bson:"_id"`
	Categories map[string]*CategoryAggregate `json:"category" bson:"category"`
}

// Summary returns a copy of the document with the played lists removed.
func (d *StatisticsDocument) Summary() *StatisticsDocument {
	out := &StatisticsDocument{
		EntityID:   d.EntityID,
		Categories: make(map[string]*CategoryAggregate, len(d.Categories)),
	}
	for name, agg := range d.Categories {
		if agg == nil {
			continue
		}
		scheduled := make([]ScheduledMatch, len(agg.Scheduled))
		copy(scheduled, agg.Scheduled)
		out.Categories[name] = &CategoryAggregate{
			Total:     agg.Total,
			Won:       agg.Won,
			Lost:      agg.Lost,
			Tie:       agg.Tie,
			NR:        agg.NR,
			Scheduled: scheduled,
		}
	}
	return out
}
