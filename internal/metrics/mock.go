package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	matchesRecorded      map[string]int
	matchesDeleted       map[string]int
	aggregationFailures  map[string]int
	aggregationDurations []float64
	eventsPublished      map[string]int
	slackNotifSent       int
	slackNotifFailed     int
	startupTime          float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		matchesRecorded:      make(map[string]int),
		matchesDeleted:       make(map[string]int),
		aggregationFailures:  make(map[string]int),
		aggregationDurations: make([]float64, 0),
		eventsPublished:      make(map[string]int),
	}
}

func (m *Mock) IncMatchesRecorded(sport string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded[sport]++
}

func (m *Mock) IncMatchesDeleted(sport string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesDeleted[sport]++
}

func (m *Mock) IncAggregationFailures(sport string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggregationFailures[sport]++
}

func (m *Mock) ObserveAggregationDuration(sport string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggregationDurations = append(m.aggregationDurations, duration)
}

func (m *Mock) IncEventsPublished(eventType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished[eventType]++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesRecorded returns how often IncMatchesRecorded was called for sport.
func (m *Mock) MatchesRecorded(sport string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded[sport]
}

// MatchesDeleted returns how often IncMatchesDeleted was called for sport.
func (m *Mock) MatchesDeleted(sport string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesDeleted[sport]
}

// AggregationFailures returns how often IncAggregationFailures was called for sport.
func (m *Mock) AggregationFailures(sport string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.aggregationFailures[sport]
}

// AggregationDurations returns every observed duration.
func (m *Mock) AggregationDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.aggregationDurations...)
}

// EventsPublished returns how often IncEventsPublished was called for eventType.
func (m *Mock) EventsPublished(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished[eventType]
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
