package stats

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Options configures an Engine for one sport.
type Options struct {
	// Collection is the store namespace holding this sport's documents.
	Collection string
	// Categories are the categories every skeleton is created with.
	Categories []string
	// DoublesCategories are the categories in which partner and second opponent play.
	DoublesCategories []string
}

// Engine applies match additions and deletions to the statistics documents of
// every tracked participant.
type Engine struct {
	store Store
	opts  Options
}

// NewEngine creates a new Engine.
func NewEngine(store Store, opts Options) *Engine {
	return &Engine{
		store: store,
		opts:  opts,
	}
}

// Collection returns the collection the engine writes to.
func (e *Engine) Collection() string {
	return e.opts.Collection
}

// IsDoubles reports whether category is played in pairs.
func (e *Engine) IsDoubles(category string) bool {
	return slices.Contains(e.opts.DoublesCategories, category)
}

// participantStep is the state of one participant's write sequence.
type participantStep int

const (
	stepChecking participantStep = iota
	stepCreating
	stepWriting
	stepDone
)

func (s participantStep) String() string {
	switch s {
	case stepChecking:
		return "checking"
	case stepCreating:
		return "creating"
	case stepWriting:
		return "writing"
	case stepDone:
		return "done"
	}
	return "unknown"
}

// AddMatchForParticipants records the match for the owner and for every tracked
// participant mirrored from it. Participants are written concurrently; the first
// failure stops steps that have not started yet and is returned as an
// *AggregationError. Writes that already succeeded are not rolled back.
func (e *Engine) AddMatchForParticipants(ctx context.Context, ownerID int64, category string, record MatchRecord) error {
	if !slices.Contains(e.opts.Categories, category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	if !record.Result.Valid() {
		return fmt.Errorf("%w: unknown result %q", ErrValidation, record.Result)
	}
	record.Category = category

	participants := append([]Mirror{{EntityID: ownerID, Record: record}},
		DeriveMirrors(ownerID, record, e.IsDoubles(category))...)

	log.Debug("Adding match for participants", "matchID", record.MatchID, "category", category, "participants", len(participants))

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range participants {
		g.Go(func() error {
			return e.recordForParticipant(gctx, p)
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("Failed to add match for participants", "error", err, "matchID", record.MatchID, "ownerID", ownerID)
		return err
	}

	log.Info("Added match for participants", "matchID", record.MatchID, "ownerID", ownerID, "participants", len(participants))
	return nil
}

// recordForParticipant walks one participant through checking, optional
// skeleton creation and the append write.
func (e *Engine) recordForParticipant(ctx context.Context, p Mirror) error {
	current := stepChecking
	for {
		if current != stepDone {
			if err := ctx.Err(); err != nil {
				return &AggregationError{EntityID: p.EntityID, Err: err}
			}
		}
		log.Debug("Evaluating participant step", "entityID", p.EntityID, "matchID", p.Record.MatchID, "step", current)

		switch current {
		case stepChecking:
			doc, err := e.store.Exists(ctx, e.opts.Collection, p.EntityID)
			if err != nil {
				return e.fail(p.EntityID, "exists", err)
			}
			if doc == nil {
				current = stepCreating
			} else {
				current = stepWriting
			}

		case stepCreating:
			log.Info("No statistics document yet, creating skeleton", "entityID", p.EntityID, "collection", e.opts.Collection)
			if err := e.store.CreateDocument(ctx, e.opts.Collection, BuildSkeleton(p.EntityID, e.opts.Categories)); err != nil {
				return e.fail(p.EntityID, "create", err)
			}
			current = stepWriting

		case stepWriting:
			err := e.store.AppendMatchAndIncrement(ctx, e.opts.Collection, p.EntityID, p.Record.Category, p.Record, p.Record.Result)
			if err != nil {
				return e.fail(p.EntityID, "append", err)
			}
			current = stepDone

		case stepDone:
			log.Debug("Participant match recorded", "entityID", p.EntityID, "matchID", p.Record.MatchID, "result", p.Record.Result)
			return nil
		}
	}
}

func (e *Engine) fail(entityID int64, op string, err error) error {
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		storeErr = &StoreError{Op: op, EntityID: entityID, Err: err}
	}
	return &AggregationError{EntityID: entityID, Err: storeErr}
}

// DeleteMatch removes a match from one entity's document and reverses its
// counters. Other participants' copies are left alone.
func (e *Engine) DeleteMatch(ctx context.Context, entityID int64, matchID string) error {
	record, err := e.store.FetchMatch(ctx, e.opts.Collection, entityID, matchID)
	if err != nil {
		return e.fail(entityID, "fetch", err)
	}
	if record == nil {
		log.Info("Match to delete does not exist", "entityID", entityID, "matchID", matchID)
		return fmt.Errorf("match %q for entity %d: %w", matchID, entityID, ErrMatchNotFound)
	}

	err = e.store.RemoveMatchAndDecrement(ctx, e.opts.Collection, entityID, record.Category, matchID, record.Result)
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return fmt.Errorf("match %q for entity %d: %w", matchID, entityID, ErrMatchNotFound)
		}
		return e.fail(entityID, "remove", err)
	}

	log.Info("Deleted match", "entityID", entityID, "matchID", matchID, "category", record.Category, "result", record.Result)
	return nil
}

// Document returns the entity's statistics document, or nil when it has none.
func (e *Engine) Document(ctx context.Context, entityID int64) (*StatisticsDocument, error) {
	doc, err := e.store.Exists(ctx, e.opts.Collection, entityID)
	if err != nil {
		return nil, &StoreError{Op: "exists", EntityID: entityID, Err: err}
	}
	return doc, nil
}

// Match returns one match from the entity's document, or nil when absent.
func (e *Engine) Match(ctx context.Context, entityID int64, matchID string) (*MatchRecord, error) {
	record, err := e.store.FetchMatch(ctx, e.opts.Collection, entityID, matchID)
	if err != nil {
		return nil, &StoreError{Op: "fetch", EntityID: entityID, Err: err}
	}
	return record, nil
}
