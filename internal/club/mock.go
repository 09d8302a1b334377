package club

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use. Without overrides it behaves like an
// in-memory player table.
type MockStore struct {
	mu      sync.Mutex
	players map[int64]PlayerInfo

	// Spies for method calls
	AddPlayerFunc     func(ctx context.Context, playerID int64, name string) error
	UpsertPlayersFunc func(ctx context.Context, players []PlayerInfo) error
	IsKnownPlayerFunc func(ctx context.Context, playerID int64) (bool, error)
	GetAllPlayersFunc func(ctx context.Context) ([]PlayerInfo, error)
	GetPlayersFunc    func(ctx context.Context, playerIDs []int64) ([]PlayerInfo, error)
	RemovePlayerFunc  func(ctx context.Context, playerID int64) error

	// Call records
	AddPlayerCalls     []PlayerInfo
	UpsertPlayersCalls [][]PlayerInfo
	IsKnownPlayerCalls []int64
	GetPlayersCalls    [][]int64
	RemovePlayerCalls  []int64
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{players: make(map[int64]PlayerInfo)}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = nil
	m.UpsertPlayersCalls = nil
	m.IsKnownPlayerCalls = nil
	m.GetPlayersCalls = nil
	m.RemovePlayerCalls = nil
}

func (m *MockStore) AddPlayer(ctx context.Context, playerID int64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, PlayerInfo{ID: playerID, Name: name})
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(ctx, playerID, name)
	}
	m.players[playerID] = PlayerInfo{ID: playerID, Name: name}
	return nil
}

func (m *MockStore) UpsertPlayers(ctx context.Context, players []PlayerInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayersCalls = append(m.UpsertPlayersCalls, players)
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(ctx, players)
	}
	for _, p := range players {
		m.players[p.ID] = p
	}
	return nil
}

func (m *MockStore) IsKnownPlayer(ctx context.Context, playerID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IsKnownPlayerCalls = append(m.IsKnownPlayerCalls, playerID)
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(ctx, playerID)
	}
	_, ok := m.players[playerID]
	return ok, nil
}

func (m *MockStore) GetAllPlayers(ctx context.Context) ([]PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc(ctx)
	}
	return m.sortedLocked(nil), nil
}

func (m *MockStore) GetPlayers(ctx context.Context, playerIDs []int64) ([]PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayersCalls = append(m.GetPlayersCalls, playerIDs)
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(ctx, playerIDs)
	}
	return m.sortedLocked(playerIDs), nil
}

func (m *MockStore) RemovePlayer(ctx context.Context, playerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemovePlayerCalls = append(m.RemovePlayerCalls, playerID)
	if m.RemovePlayerFunc != nil {
		return m.RemovePlayerFunc(ctx, playerID)
	}
	delete(m.players, playerID)
	return nil
}

func (m *MockStore) sortedLocked(only []int64) []PlayerInfo {
	out := []PlayerInfo{}
	for id, p := range m.players {
		if only != nil && !slices.Contains(only, id) {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b PlayerInfo) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
