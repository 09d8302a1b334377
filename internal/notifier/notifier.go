package notifier

import (
	"context"
	"time"

	"github.com/mauv0809/racquet-stats/internal/stats"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For recorded matches
	SendMatchRecorded(ctx context.Context, n MatchNotification, dryRun bool) error

	// For slash commands
	FormatSummaryResponse(sport string, playerName string, summary *stats.StatisticsDocument) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}

// MatchNotification is what a result notification shows about a recorded match.
type MatchNotification struct {
	Sport      string
	Category   string
	Date       time.Time
	MatchScore string
	Games      []string
	// Result is from the perspective of the owner team.
	Result    stats.Result
	Owner     string
	Partner   string
	Opponents []string
	Notes     string
}
