package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/racquet-stats/internal/metrics"
	"github.com/mauv0809/racquet-stats/internal/notifier"
	"github.com/mauv0809/racquet-stats/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendMatchRecorded(ctx context.Context, n notifier.MatchNotification, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatMatchRecorded(n), dryRun)
	return err
}

func (s *Notifier) FormatSummaryResponse(sport string, playerName string, summary *stats.StatisticsDocument) (any, error) {
	return s.formatSummary(sport, playerName, summary), nil
}

func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func resultHeadline(n notifier.MatchNotification) string {
	owners := n.Owner
	if n.Partner != "" {
		owners = n.Owner + " & " + n.Partner
	}
	opponents := strings.Join(n.Opponents, " & ")
	switch n.Result {
	case stats.ResultWon:
		return fmt.Sprintf("%s beat %s", owners, opponents)
	case stats.ResultLost:
		return fmt.Sprintf("%s beat %s", opponents, owners)
	case stats.ResultTie:
		return fmt.Sprintf("%s and %s tied", owners, opponents)
	}
	return fmt.Sprintf("%s vs %s: no result", owners, opponents)
}

// formatMatchRecorded creates a Slack message announcing a recorded match.
func (s *Notifier) formatMatchRecorded(n notifier.MatchNotification) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏸 %s %s result 🏸", capitalize(n.Sport), n.Category), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	headline := resultHeadline(n)
	if n.MatchScore != "" {
		headline = fmt.Sprintf("%s (%s)", headline, n.MatchScore)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", headline, true, false), nil, nil))

	if len(n.Games) > 0 {
		var gameFields []*slack.TextBlockObject
		for i, score := range n.Games {
			gameFields = append(gameFields, slack.NewTextBlockObject("plain_text", fmt.Sprintf("Game %d: %s", i+1, score), true, false))
		}
		blocks = append(blocks, slack.NewSectionBlock(nil, gameFields, nil))
	}

	contextText := n.Date.Format("Monday 02 Jan 2006")
	if n.Notes != "" {
		contextText = fmt.Sprintf("%s | %s", contextText, n.Notes)
	}
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatSummary creates a Slack message with a player's per category counters.
func (s *Notifier) formatSummary(sport string, playerName string, summary *stats.StatisticsDocument) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("🏆 %s stats for %s 🏆", capitalize(sport), playerName)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	if summary == nil || len(summary.Categories) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No matches recorded yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, category := range slices.Sorted(maps.Keys(summary.Categories)) {
		agg := summary.Categories[category]
		if agg == nil {
			continue
		}
		winPct := 0.0
		if agg.Total > 0 {
			winPct = float64(agg.Won) / float64(agg.Total) * 100
		}
		text := fmt.Sprintf("*%s*\n> Played: %d | Won: %d | Lost: %d | Tied: %d | No result: %d\n> *Win %%*: %.2f%%",
			category, agg.Total, agg.Won, agg.Lost, agg.Tie, agg.NR, winPct)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player is not known.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a player id.", query)
	return slack.NewBlockMessage(slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))
}
