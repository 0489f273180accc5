package ledger

import (
	"sync"
)

// MockStore is a mock implementation of the LedgerStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertRoomFunc              func(room Room) error
	RecordGameFunc              func(game Game, entries []ScoreEntry) error
	AddStreakMarkerFunc         func(marker StreakMarker) error
	AddSpecialHandFunc          func(hand SpecialHandRecord) error
	ListGamesByYearFunc         func(year int) ([]Game, error)
	ListScoresFunc              func(gameIDs []string) ([]ScoreEntry, error)
	ListStreakMarkersFunc       func(gameIDs []string, kind MarkerKind) ([]StreakMarker, error)
	ListSpecialHandsFunc        func(gameIDs []string) ([]SpecialHandRecord, error)
	ListRoomsFunc               func(roomIDs []string) ([]Room, error)
	UpdateScoreFunc             func(scoreEntryID string, newScore int) error
	UpdateScoreByGamePlayerFunc func(gameID, userID string, newScore int) error
	ClearFunc                   func()
	ClearGameFunc               func(gameID string)

	// Call records
	RecordGameCalls []struct {
		Game    Game
		Entries []ScoreEntry
	}
	UpdateScoreCalls []struct {
		ScoreEntryID string
		NewScore     int
	}
	UpdateScoreByGamePlayerCalls []struct {
		GameID   string
		UserID   string
		NewScore int
	}
	ListGamesByYearCalls []int
	ClearGameCalls       []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordGameCalls = nil
	m.UpdateScoreCalls = nil
	m.UpdateScoreByGamePlayerCalls = nil
	m.ListGamesByYearCalls = nil
	m.ClearGameCalls = nil
}

func (m *MockStore) UpsertRoom(room Room) error {
	if m.UpsertRoomFunc != nil {
		return m.UpsertRoomFunc(room)
	}
	return nil
}

func (m *MockStore) RecordGame(game Game, entries []ScoreEntry) error {
	m.mu.Lock()
	m.RecordGameCalls = append(m.RecordGameCalls, struct {
		Game    Game
		Entries []ScoreEntry
	}{game, entries})
	m.mu.Unlock()
	if m.RecordGameFunc != nil {
		return m.RecordGameFunc(game, entries)
	}
	return nil
}

func (m *MockStore) AddStreakMarker(marker StreakMarker) error {
	if m.AddStreakMarkerFunc != nil {
		return m.AddStreakMarkerFunc(marker)
	}
	return nil
}

func (m *MockStore) AddSpecialHand(hand SpecialHandRecord) error {
	if m.AddSpecialHandFunc != nil {
		return m.AddSpecialHandFunc(hand)
	}
	return nil
}

func (m *MockStore) ListGamesByYear(year int) ([]Game, error) {
	m.mu.Lock()
	m.ListGamesByYearCalls = append(m.ListGamesByYearCalls, year)
	m.mu.Unlock()
	if m.ListGamesByYearFunc != nil {
		return m.ListGamesByYearFunc(year)
	}
	return nil, nil
}

func (m *MockStore) ListScores(gameIDs []string) ([]ScoreEntry, error) {
	if m.ListScoresFunc != nil {
		return m.ListScoresFunc(gameIDs)
	}
	return nil, nil
}

func (m *MockStore) ListStreakMarkers(gameIDs []string, kind MarkerKind) ([]StreakMarker, error) {
	if m.ListStreakMarkersFunc != nil {
		return m.ListStreakMarkersFunc(gameIDs, kind)
	}
	return nil, nil
}

func (m *MockStore) ListSpecialHands(gameIDs []string) ([]SpecialHandRecord, error) {
	if m.ListSpecialHandsFunc != nil {
		return m.ListSpecialHandsFunc(gameIDs)
	}
	return nil, nil
}

func (m *MockStore) ListRooms(roomIDs []string) ([]Room, error) {
	if m.ListRoomsFunc != nil {
		return m.ListRoomsFunc(roomIDs)
	}
	return nil, nil
}

func (m *MockStore) UpdateScore(scoreEntryID string, newScore int) error {
	m.mu.Lock()
	m.UpdateScoreCalls = append(m.UpdateScoreCalls, struct {
		ScoreEntryID string
		NewScore     int
	}{scoreEntryID, newScore})
	m.mu.Unlock()
	if m.UpdateScoreFunc != nil {
		return m.UpdateScoreFunc(scoreEntryID, newScore)
	}
	return nil
}

func (m *MockStore) UpdateScoreByGamePlayer(gameID, userID string, newScore int) error {
	m.mu.Lock()
	m.UpdateScoreByGamePlayerCalls = append(m.UpdateScoreByGamePlayerCalls, struct {
		GameID   string
		UserID   string
		NewScore int
	}{gameID, userID, newScore})
	m.mu.Unlock()
	if m.UpdateScoreByGamePlayerFunc != nil {
		return m.UpdateScoreByGamePlayerFunc(gameID, userID, newScore)
	}
	return nil
}

func (m *MockStore) Clear() {
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}

func (m *MockStore) ClearGame(gameID string) {
	m.mu.Lock()
	m.ClearGameCalls = append(m.ClearGameCalls, gameID)
	m.mu.Unlock()
	if m.ClearGameFunc != nil {
		m.ClearGameFunc(gameID)
	}
}
