package stats

import (
	"sort"

	"github.com/mauv0809/riichi-ledger/internal/ledger"
)

type summaryAcc struct {
	userID  string
	name    string
	avatar  string
	games   int
	top     int
	last    int
	rankSum int
	tobi    int
}

// BuildSummary computes per-player rate statistics for a partition's games.
// Placement within a game is position after a stable sort by score
// descending; equal scores keep insertion order. That tie-break is arbitrary
// and intentionally left as-is, matching the recorded behavior. Players with
// zero games never appear, so no rate divides by zero.
func BuildSummary(games []ledger.Game, entries []ledger.ScoreEntry, markers []ledger.StreakMarker) []PlayerStats {
	byGame := scoresByGame(entries)
	eliminated, _ := markerSets(markers)

	accs := make(map[string]*summaryAcc)
	var order []string

	for _, g := range games {
		gameEntries := byGame[g.ID]
		if len(gameEntries) == 0 {
			// Score rows never fetched for this game; skip rather than fail.
			continue
		}
		ranked := rankEntries(gameEntries)
		tableSize := len(ranked)

		for i, e := range ranked {
			rank := i + 1
			acc, ok := accs[e.UserID]
			if !ok {
				acc = &summaryAcc{userID: e.UserID}
				accs[e.UserID] = acc
				order = append(order, e.UserID)
			}
			acc.name = e.DisplayName
			acc.avatar = e.AvatarURL
			acc.games++
			acc.rankSum += rank
			if rank == 1 {
				acc.top++
			}
			if rank == tableSize {
				acc.last++
			}
			if eliminated[g.ID][e.UserID] {
				acc.tobi++
			}
		}
	}

	result := make([]PlayerStats, 0, len(order))
	for _, userID := range order {
		acc := accs[userID]
		if acc.games == 0 {
			continue
		}
		total := float64(acc.games)
		result = append(result, PlayerStats{
			UserID:      acc.userID,
			DisplayName: acc.name,
			AvatarURL:   acc.avatar,
			TotalGames:  acc.games,
			TopRate:     float64(acc.top) / total * 100,
			LastRate:    float64(acc.last) / total * 100,
			AvgRank:     float64(acc.rankSum) / total,
			TobiRate:    float64(acc.tobi) / total * 100,
		})
	}

	// Best average placement first.
	sort.SliceStable(result, func(i, j int) bool { return result[i].AvgRank < result[j].AvgRank })
	return result
}
