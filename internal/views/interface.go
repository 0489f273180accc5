package views

import "github.com/mauv0809/riichi-ledger/internal/stats"

// Views is the read-side surface the HTTP layer talks to.
type Views interface {
	Ranking(year, tableSize int, userID string) ([]stats.RankedPlayer, error)
	Summary(year, tableSize int) ([]stats.PlayerStats, error)
	Sessions(year, tableSize, cursor int) (stats.SessionPage, error)
	Achievements(year, tableSize int) ([]stats.AchievementRecord, error)
	Invalidate(year int)
	InvalidateAll()
	ApplyCorrection(scoreEntryID, gameID, userID string, newScore int) CorrectionResult
}
