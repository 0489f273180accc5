package stats

import (
	"sort"

	"github.com/mauv0809/riichi-ledger/internal/ledger"
)

// Snapshot is an immutable view of the ledger for one year. Every builder in
// this package is a pure function over a snapshot: same input, same output.
type Snapshot struct {
	Games   []ledger.Game
	Scores  []ledger.ScoreEntry
	Markers []ledger.StreakMarker
	Hands   []ledger.SpecialHandRecord
	Rooms   map[string]ledger.Room
}

// PlayerCounts derives the table size of every game by counting its score
// entries. Table size is never stored; this lookup is computed once per
// snapshot and treated as read-only.
func PlayerCounts(entries []ledger.ScoreEntry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.GameID]++
	}
	return counts
}

// Partition restricts a snapshot to games of one table size (3 or 4),
// keeping games ordered by creation time ascending. Scores, markers and
// hands referencing excluded games are dropped.
func (s *Snapshot) Partition(tableSize int) *Snapshot {
	counts := PlayerCounts(s.Scores)

	keep := make(map[string]struct{})
	var games []ledger.Game
	for _, g := range s.Games {
		if counts[g.ID] != tableSize {
			continue
		}
		keep[g.ID] = struct{}{}
		games = append(games, g)
	}
	sort.SliceStable(games, func(i, j int) bool { return games[i].CreatedAt < games[j].CreatedAt })

	var scores []ledger.ScoreEntry
	for _, e := range s.Scores {
		if _, ok := keep[e.GameID]; ok {
			scores = append(scores, e)
		}
	}
	var markers []ledger.StreakMarker
	for _, m := range s.Markers {
		if _, ok := keep[m.GameID]; ok {
			markers = append(markers, m)
		}
	}
	var hands []ledger.SpecialHandRecord
	for _, h := range s.Hands {
		if _, ok := keep[h.GameID]; ok {
			hands = append(hands, h)
		}
	}

	return &Snapshot{
		Games:   games,
		Scores:  scores,
		Markers: markers,
		Hands:   hands,
		Rooms:   s.Rooms,
	}
}

// GameIDs returns the snapshot's game ids in chronological order.
func (s *Snapshot) GameIDs() []string {
	ids := make([]string, len(s.Games))
	for i, g := range s.Games {
		ids[i] = g.ID
	}
	return ids
}

// scoresByGame groups entries per game, preserving insertion order within a
// game. Insertion order is the documented (arbitrary) tie-break for equal
// scores.
func scoresByGame(entries []ledger.ScoreEntry) map[string][]ledger.ScoreEntry {
	byGame := make(map[string][]ledger.ScoreEntry)
	for _, e := range entries {
		byGame[e.GameID] = append(byGame[e.GameID], e)
	}
	return byGame
}

// markerSets splits markers into per-game eliminated and eliminator user sets.
func markerSets(markers []ledger.StreakMarker) (eliminated, eliminator map[string]map[string]bool) {
	eliminated = make(map[string]map[string]bool)
	eliminator = make(map[string]map[string]bool)
	for _, m := range markers {
		var target map[string]map[string]bool
		switch m.Kind {
		case ledger.MarkerEliminated:
			target = eliminated
		case ledger.MarkerEliminator:
			target = eliminator
		default:
			continue
		}
		if target[m.GameID] == nil {
			target[m.GameID] = make(map[string]bool)
		}
		target[m.GameID][m.UserID] = true
	}
	return eliminated, eliminator
}

// rankEntries returns a game's entries sorted by score descending. The sort
// is stable, so equal scores keep their insertion order.
func rankEntries(entries []ledger.ScoreEntry) []ledger.ScoreEntry {
	ranked := make([]ledger.ScoreEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}
