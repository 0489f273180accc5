package stats

import (
	"sort"

	"github.com/mauv0809/riichi-ledger/internal/ledger"
)

// BuildRanking produces the cumulative-score leaderboard for a cohort. Every
// player gets a history value at every game of orderedGameIDs regardless of
// participation; games the player sat out carry the running total forward,
// which keeps the series gap-free for charting. Entries referencing games
// outside the ordered list are ignored.
func BuildRanking(entries []ledger.ScoreEntry, orderedGameIDs []string) []RankedPlayer {
	scoreByPlayer := make(map[string]map[string]int)
	names := make(map[string]string)
	avatars := make(map[string]string)
	var order []string

	for _, e := range entries {
		if _, ok := scoreByPlayer[e.UserID]; !ok {
			scoreByPlayer[e.UserID] = make(map[string]int)
			order = append(order, e.UserID)
		}
		scoreByPlayer[e.UserID][e.GameID] = e.Score
		names[e.UserID] = e.DisplayName
		avatars[e.UserID] = e.AvatarURL
	}

	players := make([]RankedPlayer, 0, len(order))
	for _, userID := range order {
		history := make([]int, len(orderedGameIDs))
		running := 0
		for i, gameID := range orderedGameIDs {
			if score, ok := scoreByPlayer[userID][gameID]; ok {
				running += score
			}
			history[i] = running
		}
		players = append(players, RankedPlayer{
			UserID:      userID,
			DisplayName: names[userID],
			AvatarURL:   avatars[userID],
			TotalScore:  running,
			History:     history,
		})
	}

	// Stable sort keeps insertion order for equal totals.
	sort.SliceStable(players, func(i, j int) bool { return players[i].TotalScore > players[j].TotalScore })
	return players
}
