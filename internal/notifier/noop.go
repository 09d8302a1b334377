package notifier

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/racquet-stats/internal/stats"
)

// Noop is used when Slack is not configured. Notifications are logged and dropped.
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) SendMatchRecorded(ctx context.Context, n MatchNotification, dryRun bool) error {
	log.Debug("Notifications disabled, dropping match notification", "sport", n.Sport, "owner", n.Owner)
	return nil
}

func (Noop) FormatSummaryResponse(sport string, playerName string, summary *stats.StatisticsDocument) (any, error) {
	return nil, fmt.Errorf("notifications are disabled")
}

func (Noop) FormatPlayerNotFoundResponse(query string) (any, error) {
	return nil, fmt.Errorf("notifications are disabled")
}
