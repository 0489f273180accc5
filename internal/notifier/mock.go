package notifier

import (
	"sync"

	"github.com/mauv0809/riichi-ledger/internal/ledger"
	"github.com/mauv0809/riichi-ledger/internal/stats"
)

var _ Notifier = (*Mock)(nil)

// Mock records notification calls for tests.
type Mock struct {
	mu sync.Mutex

	SendGameResultFunc   func(game ledger.Game, entries []ledger.ScoreEntry, dryRun bool) error
	SendRankingFunc      func(players []stats.RankedPlayer, dryRun bool) error
	SendAchievementsFunc func(records []stats.AchievementRecord, dryRun bool) error

	GameResultCalls   []ledger.Game
	RankingCalls      [][]stats.RankedPlayer
	AchievementsCalls [][]stats.AchievementRecord
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendGameResult(game ledger.Game, entries []ledger.ScoreEntry, dryRun bool) error {
	m.mu.Lock()
	m.GameResultCalls = append(m.GameResultCalls, game)
	m.mu.Unlock()
	if m.SendGameResultFunc != nil {
		return m.SendGameResultFunc(game, entries, dryRun)
	}
	return nil
}

func (m *Mock) SendRanking(players []stats.RankedPlayer, dryRun bool) error {
	m.mu.Lock()
	m.RankingCalls = append(m.RankingCalls, players)
	m.mu.Unlock()
	if m.SendRankingFunc != nil {
		return m.SendRankingFunc(players, dryRun)
	}
	return nil
}

func (m *Mock) SendAchievements(records []stats.AchievementRecord, dryRun bool) error {
	m.mu.Lock()
	m.AchievementsCalls = append(m.AchievementsCalls, records)
	m.mu.Unlock()
	if m.SendAchievementsFunc != nil {
		return m.SendAchievementsFunc(records, dryRun)
	}
	return nil
}
