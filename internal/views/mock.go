package views

import (
	"sync"

	"github.com/mauv0809/riichi-ledger/internal/stats"
)

var _ Views = (*Mock)(nil)

// Mock is a manual mock of the Views interface for handler tests.
type Mock struct {
	mu sync.Mutex

	RankingFunc         func(year, tableSize int, userID string) ([]stats.RankedPlayer, error)
	SummaryFunc         func(year, tableSize int) ([]stats.PlayerStats, error)
	SessionsFunc        func(year, tableSize, cursor int) (stats.SessionPage, error)
	AchievementsFunc    func(year, tableSize int) ([]stats.AchievementRecord, error)
	ApplyCorrectionFunc func(scoreEntryID, gameID, userID string, newScore int) CorrectionResult

	InvalidateCalls    []int
	InvalidateAllCalls int
	CorrectionCalls    []struct {
		ScoreEntryID string
		GameID       string
		UserID       string
		NewScore     int
	}
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Ranking(year, tableSize int, userID string) ([]stats.RankedPlayer, error) {
	if m.RankingFunc != nil {
		return m.RankingFunc(year, tableSize, userID)
	}
	return nil, nil
}

func (m *Mock) Summary(year, tableSize int) ([]stats.PlayerStats, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(year, tableSize)
	}
	return nil, nil
}

func (m *Mock) Sessions(year, tableSize, cursor int) (stats.SessionPage, error) {
	if m.SessionsFunc != nil {
		return m.SessionsFunc(year, tableSize, cursor)
	}
	return stats.SessionPage{}, nil
}

func (m *Mock) Achievements(year, tableSize int) ([]stats.AchievementRecord, error) {
	if m.AchievementsFunc != nil {
		return m.AchievementsFunc(year, tableSize)
	}
	return nil, nil
}

func (m *Mock) Invalidate(year int) {
	m.mu.Lock()
	m.InvalidateCalls = append(m.InvalidateCalls, year)
	m.mu.Unlock()
}

func (m *Mock) InvalidateAll() {
	m.mu.Lock()
	m.InvalidateAllCalls++
	m.mu.Unlock()
}

func (m *Mock) ApplyCorrection(scoreEntryID, gameID, userID string, newScore int) CorrectionResult {
	m.mu.Lock()
	m.CorrectionCalls = append(m.CorrectionCalls, struct {
		ScoreEntryID string
		GameID       string
		UserID       string
		NewScore     int
	}{scoreEntryID, gameID, userID, newScore})
	m.mu.Unlock()
	if m.ApplyCorrectionFunc != nil {
		return m.ApplyCorrectionFunc(scoreEntryID, gameID, userID, newScore)
	}
	return CorrectionResult{Patched: true, Persisted: true}
}
