package notifier

import (
	"github.com/mauv0809/riichi-ledger/internal/ledger"
	"github.com/mauv0809/riichi-ledger/internal/stats"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For newly recorded rounds
	SendGameResult(game ledger.Game, entries []ledger.ScoreEntry, dryRun bool) error
	// For on-demand summaries
	SendRanking(players []stats.RankedPlayer, dryRun bool) error
	SendAchievements(records []stats.AchievementRecord, dryRun bool) error
}
