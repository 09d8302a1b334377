package sport

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mauv0809/racquet-stats/internal/club"
	"github.com/mauv0809/racquet-stats/internal/metrics"
	"github.com/mauv0809/racquet-stats/internal/notifier"
	"github.com/mauv0809/racquet-stats/internal/pubsub"
	"github.com/mauv0809/racquet-stats/internal/stats"
)

// PlayerDirectory resolves player ids. club.ClubStore satisfies it.
type PlayerDirectory interface {
	IsKnownPlayer(ctx context.Context, playerID int64) (bool, error)
	GetPlayers(ctx context.Context, playerIDs []int64) ([]club.PlayerInfo, error)
}

// Service exposes the match statistics operations of one sport.
type Service struct {
	cfg       Config
	engine    *stats.Engine
	players   PlayerDirectory
	metrics   metrics.Metrics
	events    pubsub.PubSubClient
	notifier  notifier.Notifier
	validator *validator.Validate
	newID     func() string
}

// NewService creates the service for one sport. The engine must be configured
// with cfg.EngineOptions().
func NewService(cfg Config, engine *stats.Engine, players PlayerDirectory, metrics metrics.Metrics, events pubsub.PubSubClient, notifier notifier.Notifier) *Service {
	return &Service{
		cfg:       cfg,
		engine:    engine,
		players:   players,
		metrics:   metrics,
		events:    events,
		notifier:  notifier,
		validator: newValidator(),
		newID:     uuid.NewString,
	}
}

// Name returns the sport name.
func (s *Service) Name() string {
	return s.cfg.Name
}

// Config returns the sport configuration.
func (s *Service) Config() Config {
	return s.cfg
}

func (s *Service) requireKnown(ctx context.Context, playerID int64) error {
	known, err := s.players.IsKnownPlayer(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to resolve player %d: %w", playerID, err)
	}
	if !known {
		return fmt.Errorf("player %d: %w", playerID, stats.ErrEntityNotFound)
	}
	return nil
}

// checkParticipants rejects repeated ids and unknown non-external players.
func (s *Service) checkParticipants(ctx context.Context, ownerID int64, in MatchInput) error {
	seen := map[int64]string{ownerID: "owner"}
	named := []struct {
		field string
		p     *ParticipantInput
	}{{"opponent", in.Opponent}, {"opponent2", in.Opponent2}, {"partner", in.Partner}}

	for _, n := range named {
		if n.p == nil {
			continue
		}
		if other, dup := seen[n.p.ID]; dup {
			return &ValidationError{Fields: map[string]string{n.field: "repeats the " + other}}
		}
		seen[n.p.ID] = n.field
	}

	if err := s.requireKnown(ctx, ownerID); err != nil {
		return err
	}
	for _, n := range named {
		if n.p == nil || n.p.IsExternal {
			continue
		}
		if err := s.requireKnown(ctx, n.p.ID); err != nil {
			return err
		}
	}
	return nil
}

// AddMatch validates the submitted match, stamps it with a new match id and
// records it for the owner and every tracked participant. Partner and second
// opponent are ignored outside doubles categories. Events and Slack
// notifications are best effort. With dryRun set they are only logged.
func (s *Service) AddMatch(ctx context.Context, ownerID int64, in MatchInput, dryRun bool) (stats.MatchRecord, error) {
	if !s.engine.IsDoubles(in.Category) && (in.Partner != nil || in.Opponent2 != nil) {
		log.FromContext(ctx).Debug("Ignoring doubles seats", "sport", s.cfg.Name, "category", in.Category, "ownerID", ownerID)
		in.Partner, in.Opponent2 = nil, nil
	}
	if err := s.validate(in); err != nil {
		return stats.MatchRecord{}, err
	}
	if err := s.checkParticipants(ctx, ownerID, in); err != nil {
		return stats.MatchRecord{}, err
	}

	record, err := toRecord(s.newID(), in)
	if err != nil {
		return stats.MatchRecord{}, err
	}

	start := time.Now()
	err = s.engine.AddMatchForParticipants(ctx, ownerID, record.Category, record)
	s.metrics.ObserveAggregationDuration(s.cfg.Name, time.Since(start).Seconds())
	if err != nil {
		s.metrics.IncAggregationFailures(s.cfg.Name)
		return stats.MatchRecord{}, err
	}
	s.metrics.IncMatchesRecorded(s.cfg.Name)
	log.FromContext(ctx).Info("Recorded match", "sport", s.cfg.Name, "ownerID", ownerID, "matchID", record.MatchID, "category", record.Category)

	participants := []int64{ownerID}
	for _, m := range stats.DeriveMirrors(ownerID, record, s.engine.IsDoubles(record.Category)) {
		participants = append(participants, m.EntityID)
	}
	s.publish(ctx, pubsub.EventMatchRecorded, pubsub.MatchRecordedEvent{
		Sport:        s.cfg.Name,
		OwnerID:      ownerID,
		MatchID:      record.MatchID,
		Category:     record.Category,
		Result:       string(record.Result),
		MatchScore:   record.MatchScore,
		Date:         record.Date,
		Participants: participants,
	}, dryRun)
	s.notify(ctx, ownerID, record, dryRun)

	return record, nil
}

func (s *Service) publish(ctx context.Context, eventType pubsub.EventType, event any, dryRun bool) {
	if dryRun {
		log.FromContext(ctx).Info("[Dry Run] Would publish event", "eventType", eventType)
		return
	}
	if err := s.events.SendMessage(ctx, eventType, event); err != nil {
		log.FromContext(ctx).Error("Failed to publish event", "error", err, "eventType", eventType)
		return
	}
	s.metrics.IncEventsPublished(string(eventType))
}

func (s *Service) notify(ctx context.Context, ownerID int64, record stats.MatchRecord, dryRun bool) {
	ids := []int64{ownerID, record.Opponent.ID}
	for _, p := range []*stats.Participant{record.Opponent2, record.Partner} {
		if p != nil {
			ids = append(ids, p.ID)
		}
	}
	names := map[int64]string{}
	players, err := s.players.GetPlayers(ctx, ids)
	if err != nil {
		log.FromContext(ctx).Warn("Failed to look up player names for notification", "error", err, "matchID", record.MatchID)
	}
	for _, p := range players {
		names[p.ID] = p.Name
	}
	name := func(p stats.Participant) string {
		if n := names[p.ID]; n != "" {
			return n
		}
		if p.IsExternal {
			return "guest " + strconv.FormatInt(p.ID, 10)
		}
		return "player " + strconv.FormatInt(p.ID, 10)
	}

	n := notifier.MatchNotification{
		Sport:      s.cfg.Name,
		Category:   record.Category,
		Date:       record.Date,
		MatchScore: record.MatchScore,
		Result:     record.Result,
		Owner:      name(stats.Participant{ID: ownerID}),
		Opponents:  []string{name(record.Opponent)},
		Notes:      record.Notes,
	}
	for _, g := range record.Games {
		n.Games = append(n.Games, g.GameScore)
	}
	if s.engine.IsDoubles(record.Category) {
		if record.Opponent2 != nil {
			n.Opponents = append(n.Opponents, name(*record.Opponent2))
		}
		if record.Partner != nil {
			n.Partner = name(*record.Partner)
		}
	}

	if err := s.notifier.SendMatchRecorded(ctx, n, dryRun); err != nil {
		log.FromContext(ctx).Error("Failed to send match notification", "error", err, "matchID", record.MatchID)
	}
}

// DeleteMatch removes the match from the entity's statistics only. Copies held
// by the other participants are kept.
func (s *Service) DeleteMatch(ctx context.Context, entityID int64, matchID string, dryRun bool) error {
	if err := s.requireKnown(ctx, entityID); err != nil {
		return err
	}
	if err := s.engine.DeleteMatch(ctx, entityID, matchID); err != nil {
		return err
	}
	s.metrics.IncMatchesDeleted(s.cfg.Name)
	s.publish(ctx, pubsub.EventMatchDeleted, pubsub.MatchDeletedEvent{
		Sport:    s.cfg.Name,
		EntityID: entityID,
		MatchID:  matchID,
	}, dryRun)
	return nil
}

// GetMatchSummary returns the entity's counters per category without the
// played lists. A known player without a document gets an empty summary.
func (s *Service) GetMatchSummary(ctx context.Context, entityID int64) (*stats.StatisticsDocument, error) {
	if err := s.requireKnown(ctx, entityID); err != nil {
		return nil, err
	}
	doc, err := s.engine.Document(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		log.FromContext(ctx).Debug("No statistics yet, returning empty summary", "entityID", entityID, "sport", s.cfg.Name)
		return &stats.StatisticsDocument{EntityID: entityID, Categories: map[string]*stats.CategoryAggregate{}}, nil
	}
	return doc.Summary(), nil
}

// GetMatch returns one match from the entity's statistics.
func (s *Service) GetMatch(ctx context.Context, entityID int64, matchID string) (*stats.MatchRecord, error) {
	if err := s.requireKnown(ctx, entityID); err != nil {
		return nil, err
	}
	record, err := s.engine.Match(ctx, entityID, matchID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("match %q for entity %d: %w", matchID, entityID, stats.ErrMatchNotFound)
	}
	return record, nil
}

// UpdateMatch is not supported yet.
func (s *Service) UpdateMatch(ctx context.Context, entityID int64, matchID string, in MatchInput) error {
	return fmt.Errorf("update match %q: %w", matchID, stats.ErrNotImplemented)
}
