package stats

import (
	"context"
	"fmt"
	"sync"
)

// MockStore is an in-memory implementation of Store for testing. Each method can
// be overridden through its Func field; otherwise it operates on the in-memory
// documents. It is safe for concurrent use.
type MockStore struct {
	mu   sync.Mutex
	docs map[string]map[int64]*StatisticsDocument

	// Spies for method calls
	ExistsFunc                  func(ctx context.Context, collection string, entityID int64) (*StatisticsDocument, error)
	CreateDocumentFunc          func(ctx context.Context, collection string, doc *StatisticsDocument) error
	AppendMatchAndIncrementFunc func(ctx context.Context, collection string, entityID int64, category string, record MatchRecord, outcome Result) error
	RemoveMatchAndDecrementFunc func(ctx context.Context, collection string, entityID int64, category string, matchID string, outcome Result) error
	FetchMatchFunc              func(ctx context.Context, collection string, entityID int64, matchID string) (*MatchRecord, error)

	// Call records
	ExistsCalls         []int64
	CreateDocumentCalls []*StatisticsDocument
	AppendCalls         []AppendCall
	RemoveCalls         []RemoveCall
}

// AppendCall holds the arguments for a call to AppendMatchAndIncrement.
type AppendCall struct {
	EntityID int64
	Category string
	Record   MatchRecord
	Outcome  Result
}

// RemoveCall holds the arguments for a call to RemoveMatchAndDecrement.
type RemoveCall struct {
	EntityID int64
	Category string
	MatchID  string
	Outcome  Result
}

// NewMock creates a new mock store with no documents.
func NewMock() *MockStore {
	return &MockStore{
		docs: make(map[string]map[int64]*StatisticsDocument),
	}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExistsCalls = nil
	m.CreateDocumentCalls = nil
	m.AppendCalls = nil
	m.RemoveCalls = nil
}

// Document returns a deep copy of the stored document, or nil.
func (m *MockStore) Document(collection string, entityID int64) *StatisticsDocument {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[collection][entityID]
	if !ok {
		return nil
	}
	return cloneDocument(doc)
}

func (m *MockStore) Exists(ctx context.Context, collection string, entityID int64) (*StatisticsDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExistsCalls = append(m.ExistsCalls, entityID)
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, collection, entityID)
	}
	doc, ok := m.docs[collection][entityID]
	if !ok {
		return nil, nil
	}
	return cloneDocument(doc), nil
}

func (m *MockStore) CreateDocument(ctx context.Context, collection string, doc *StatisticsDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateDocumentCalls = append(m.CreateDocumentCalls, doc)
	if m.CreateDocumentFunc != nil {
		return m.CreateDocumentFunc(ctx, collection, doc)
	}
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[int64]*StatisticsDocument)
	}
	if _, ok := m.docs[collection][doc.EntityID]; !ok {
		m.docs[collection][doc.EntityID] = cloneDocument(doc)
	}
	return nil
}

func (m *MockStore) AppendMatchAndIncrement(ctx context.Context, collection string, entityID int64, category string, record MatchRecord, outcome Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCalls = append(m.AppendCalls, AppendCall{EntityID: entityID, Category: category, Record: record, Outcome: outcome})
	if m.AppendMatchAndIncrementFunc != nil {
		return m.AppendMatchAndIncrementFunc(ctx, collection, entityID, category, record, outcome)
	}
	doc, ok := m.docs[collection][entityID]
	if !ok {
		return fmt.Errorf("no document for entity %d", entityID)
	}
	agg, ok := doc.Categories[category]
	if !ok {
		agg = &CategoryAggregate{Played: []MatchRecord{}, Scheduled: []ScheduledMatch{}}
		doc.Categories[category] = agg
	}
	for _, played := range agg.Played {
		if played.MatchID == record.MatchID {
			return nil
		}
	}
	agg.Played = append(agg.Played, record)
	agg.Total++
	bump(agg, outcome, 1)
	return nil
}

func (m *MockStore) RemoveMatchAndDecrement(ctx context.Context, collection string, entityID int64, category string, matchID string, outcome Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveCalls = append(m.RemoveCalls, RemoveCall{EntityID: entityID, Category: category, MatchID: matchID, Outcome: outcome})
	if m.RemoveMatchAndDecrementFunc != nil {
		return m.RemoveMatchAndDecrementFunc(ctx, collection, entityID, category, matchID, outcome)
	}
	agg, err := m.aggregate(collection, entityID, category)
	if err != nil {
		return err
	}
	for i, played := range agg.Played {
		if played.MatchID == matchID {
			agg.Played = append(agg.Played[:i], agg.Played[i+1:]...)
			agg.Total--
			bump(agg, outcome, -1)
			return nil
		}
	}
	return ErrMatchNotFound
}

func (m *MockStore) FetchMatch(ctx context.Context, collection string, entityID int64, matchID string) (*MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchMatchFunc != nil {
		return m.FetchMatchFunc(ctx, collection, entityID, matchID)
	}
	doc, ok := m.docs[collection][entityID]
	if !ok {
		return nil, nil
	}
	for _, agg := range doc.Categories {
		for _, played := range agg.Played {
			if played.MatchID == matchID {
				r := played
				return &r, nil
			}
		}
	}
	return nil, nil
}

func (m *MockStore) aggregate(collection string, entityID int64, category string) (*CategoryAggregate, error) {
	doc, ok := m.docs[collection][entityID]
	if !ok {
		return nil, fmt.Errorf("no document for entity %d", entityID)
	}
	agg, ok := doc.Categories[category]
	if !ok {
		return nil, fmt.Errorf("no category %q for entity %d", category, entityID)
	}
	return agg, nil
}

func bump(agg *CategoryAggregate, outcome Result, delta int) {
	switch outcome {
	case ResultWon:
		agg.Won += delta
	case ResultLost:
		agg.Lost += delta
	case ResultTie:
		agg.Tie += delta
	case ResultNoResult:
		agg.NR += delta
	}
}

func cloneDocument(doc *StatisticsDocument) *StatisticsDocument {
	out := &StatisticsDocument{
		EntityID:   doc.EntityID,
		Categories: make(map[string]*CategoryAggregate, len(doc.Categories)),
	}
	for name, agg := range doc.Categories {
		c := *agg
		c.Played = append([]MatchRecord{}, agg.Played...)
		c.Scheduled = append([]ScheduledMatch{}, agg.Scheduled...)
		out.Categories[name] = &c
	}
	return out
}
