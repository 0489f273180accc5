package stats_test

import (
	"testing"

	"github.com/mauv0809/riichi-ledger/internal/ledger"
	"github.com/mauv0809/riichi-ledger/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRankingCumulativeHistory(t *testing.T) {
	// u1 plays games 1 and 3, u2 plays all three, u3 only game 2.
	entries := []ledger.ScoreEntry{
		entry("g1", "u1", 20),
		entry("g1", "u2", -20),
		entry("g2", "u2", 30),
		entry("g2", "u3", -30),
		entry("g3", "u1", -10),
		entry("g3", "u2", 10),
	}
	ordered := []string{"g1", "g2", "g3"}

	players := stats.BuildRanking(entries, ordered)
	require.Len(t, players, 3)

	byID := make(map[string]stats.RankedPlayer)
	for _, p := range players {
		byID[p.UserID] = p
	}

	// Non-participation carries the running total forward.
	assert.Equal(t, []int{20, 20, 10}, byID["u1"].History)
	assert.Equal(t, []int{-20, 10, 20}, byID["u2"].History)
	assert.Equal(t, []int{0, -30, -30}, byID["u3"].History)

	// Every history ends at the player's total and spans all games.
	for _, p := range players {
		require.Len(t, p.History, len(ordered))
		assert.Equal(t, p.TotalScore, p.History[len(p.History)-1])
	}

	// Sorted descending by total score.
	assert.Equal(t, "u2", players[0].UserID)
	assert.Equal(t, "u1", players[1].UserID)
	assert.Equal(t, "u3", players[2].UserID)
}

func TestBuildRankingIgnoresUnknownGames(t *testing.T) {
	// The entry for g-orphan references a game not in the ordered list; it
	// must not contribute to any total.
	entries := []ledger.ScoreEntry{
		entry("g1", "u1", 5),
		entry("g-orphan", "u1", 1000),
	}

	players := stats.BuildRanking(entries, []string{"g1"})
	require.Len(t, players, 1)
	assert.Equal(t, 5, players[0].TotalScore)
	assert.Equal(t, []int{5}, players[0].History)
}

func TestBuildRankingEmptyGameList(t *testing.T) {
	players := stats.BuildRanking([]ledger.ScoreEntry{entry("g1", "u1", 5)}, nil)
	require.Len(t, players, 1)
	assert.Zero(t, players[0].TotalScore)
	assert.Empty(t, players[0].History)
}

func TestBuildRankingIdempotent(t *testing.T) {
	entries := []ledger.ScoreEntry{
		entry("g1", "u1", 20),
		entry("g1", "u2", -20),
		entry("g2", "u1", -5),
		entry("g2", "u2", 5),
	}
	ordered := []string{"g1", "g2"}

	first := stats.BuildRanking(entries, ordered)
	second := stats.BuildRanking(entries, ordered)
	require.Equal(t, first, second)
}
