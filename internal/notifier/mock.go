package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/racquet-stats/internal/stats"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendMatchRecordedFunc            func(ctx context.Context, n MatchNotification, dryRun bool) error
	FormatSummaryResponseFunc        func(sport string, playerName string, summary *stats.StatisticsDocument) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)

	// Call records
	SendMatchRecordedCalls []MatchNotification
	FormatSummaryCalls     []struct {
		Sport      string
		PlayerName string
		Summary    *stats.StatisticsDocument
	}
	FormatPlayerNotFoundCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchRecordedCalls = nil
	m.FormatSummaryCalls = nil
	m.FormatPlayerNotFoundCalls = nil
}

func (m *Mock) SendMatchRecorded(ctx context.Context, n MatchNotification, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchRecordedCalls = append(m.SendMatchRecordedCalls, n)
	if m.SendMatchRecordedFunc != nil {
		return m.SendMatchRecordedFunc(ctx, n, dryRun)
	}
	return nil
}

func (m *Mock) FormatSummaryResponse(sport string, playerName string, summary *stats.StatisticsDocument) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatSummaryCalls = append(m.FormatSummaryCalls, struct {
		Sport      string
		PlayerName string
		Summary    *stats.StatisticsDocument
	}{sport, playerName, summary})
	if m.FormatSummaryResponseFunc != nil {
		return m.FormatSummaryResponseFunc(sport, playerName, summary)
	}
	return nil, nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatPlayerNotFoundCalls = append(m.FormatPlayerNotFoundCalls, query)
	if m.FormatPlayerNotFoundResponseFunc != nil {
		return m.FormatPlayerNotFoundResponseFunc(query)
	}
	return nil, nil
}

// MatchRecordedCalls returns a copy of the recorded SendMatchRecorded calls.
func (m *Mock) MatchRecordedCalls() []MatchNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MatchNotification(nil), m.SendMatchRecordedCalls...)
}
