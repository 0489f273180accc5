package stats

import "github.com/mauv0809/riichi-ledger/internal/ledger"

// ResolveCohort determines every game the user holds a score entry in, then
// every user holding an entry in any of those games. The closure is one hop:
// co-players of co-players are not pulled in, though a co-player's other
// games may still be fetched for ranking purposes by the caller.
func ResolveCohort(userID string, entries []ledger.ScoreEntry) Cohort {
	gameIDs := make(map[string]struct{})
	for _, e := range entries {
		if e.UserID == userID {
			gameIDs[e.GameID] = struct{}{}
		}
	}

	userIDs := make(map[string]struct{})
	for _, e := range entries {
		if _, ok := gameIDs[e.GameID]; ok {
			userIDs[e.UserID] = struct{}{}
		}
	}

	return Cohort{GameIDs: gameIDs, UserIDs: userIDs}
}

// FilterByCohort keeps only the entries belonging to cohort members.
func FilterByCohort(entries []ledger.ScoreEntry, cohort Cohort) []ledger.ScoreEntry {
	var filtered []ledger.ScoreEntry
	for _, e := range entries {
		if _, ok := cohort.UserIDs[e.UserID]; ok {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
