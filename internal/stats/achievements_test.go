package stats_test

import (
	"fmt"
	"testing"

	"github.com/mauv0809/riichi-ledger/internal/ledger"
	"github.com/mauv0809/riichi-ledger/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findRecord(t *testing.T, records []stats.AchievementRecord, userID string) stats.AchievementRecord {
	t.Helper()
	for _, r := range records {
		if r.UserID == userID {
			return r
		}
	}
	t.Fatalf("no achievement record for %s", userID)
	return stats.AchievementRecord{}
}

func TestFlowCountNonOverlappingWindows(t *testing.T) {
	// Six consecutive 1st places at table size 4 yield exactly 2, not 4:
	// the run resets after every completed window of three.
	var games []ledger.Game
	var entries []ledger.ScoreEntry
	for i := 1; i <= 6; i++ {
		fourPlayerGame(&games, &entries, "g"+string(rune('0'+i)), i, [4]int{30, -10, -10, -10})
	}

	records := stats.BuildAchievements(games, entries, nil, nil)
	a := findRecord(t, records, "a")
	assert.Equal(t, 2, a.FlowCount)
}

func TestFlowCountSevenGameScenario(t *testing.T) {
	// Player a takes rank 1 in games 1-6 and rank 2 in game 7.
	var games []ledger.Game
	var entries []ledger.ScoreEntry
	for i := 1; i <= 6; i++ {
		fourPlayerGame(&games, &entries, "g"+string(rune('0'+i)), i, [4]int{30, -10, -10, -10})
	}
	fourPlayerGame(&games, &entries, "g7", 7, [4]int{30, 50, -40, -40})

	records := stats.BuildAchievements(games, entries, nil, nil)
	a := findRecord(t, records, "a")
	assert.Equal(t, 2, a.FlowCount)
}

func TestAnteiCountResetsAfterFiveAndOnNegative(t *testing.T) {
	threePlayer := func(games *[]ledger.Game, entries *[]ledger.ScoreEntry, id string, round int, scores [3]int) {
		*games = append(*games, game(id, "room1", round, int64(round*100)))
		for i, userID := range []string{"a", "b", "c"} {
			*entries = append(*entries, entry(id, userID, scores[i]))
		}
	}

	var games []ledger.Game
	var entries []ledger.ScoreEntry
	for i := 1; i <= 5; i++ {
		threePlayer(&games, &entries, "g"+string(rune('0'+i)), i, [3]int{10, 5, -15})
	}
	// Game 6 breaks a's run with a negative score.
	threePlayer(&games, &entries, "g6", 6, [3]int{-15, 5, 10})
	// Four more positives: not enough for a second window.
	for i := 7; i <= 10; i++ {
		threePlayer(&games, &entries, fmt.Sprintf("g%d", i), i, [3]int{10, 5, -15})
	}

	records := stats.BuildAchievements(games, entries, nil, nil)
	a := findRecord(t, records, "a")
	assert.Equal(t, 1, a.AnteiCount)

	// b stayed positive through all ten games: two full windows.
	b := findRecord(t, records, "b")
	assert.Equal(t, 2, b.AnteiCount)
}

func TestFugouCount(t *testing.T) {
	var games []ledger.Game
	var entries []ledger.ScoreEntry
	fourPlayerGame(&games, &entries, "g1", 1, [4]int{120, -40, -40, -40})
	fourPlayerGame(&games, &entries, "g2", 2, [4]int{99, -33, -33, -33})
	fourPlayerGame(&games, &entries, "g3", 3, [4]int{100, -34, -33, -33})

	records := stats.BuildAchievements(games, entries, nil, nil)
	a := findRecord(t, records, "a")
	assert.Equal(t, 2, a.FugouCount, "threshold is >= 100")
}

func TestWipeoutAndTobashi(t *testing.T) {
	var games []ledger.Game
	var entries []ledger.ScoreEntry
	fourPlayerGame(&games, &entries, "g1", 1, [4]int{90, -30, -30, -30})
	markers := []ledger.StreakMarker{
		marker("g1", "b", ledger.MarkerEliminated),
		marker("g1", "c", ledger.MarkerEliminated),
		marker("g1", "d", ledger.MarkerEliminated),
		marker("g1", "a", ledger.MarkerEliminator),
	}

	records := stats.BuildAchievements(games, entries, markers, nil)
	a := findRecord(t, records, "a")
	assert.Equal(t, 1, a.WipeoutCount, "every other player busted")
	assert.Equal(t, 1, a.TobashiCount)
}

func TestWipeoutTolerantOfInconsistentMarkers(t *testing.T) {
	var games []ledger.Game
	var entries []ledger.ScoreEntry
	fourPlayerGame(&games, &entries, "g1", 1, [4]int{90, -30, -30, -30})
	// b holds both kinds, which the UI forbids but the engine must tolerate:
	// the wipeout decision comes from the eliminated set size alone.
	markers := []ledger.StreakMarker{
		marker("g1", "b", ledger.MarkerEliminated),
		marker("g1", "b", ledger.MarkerEliminator),
		marker("g1", "c", ledger.MarkerEliminated),
		marker("g1", "d", ledger.MarkerEliminated),
	}

	records := stats.BuildAchievements(games, entries, markers, nil)
	a := findRecord(t, records, "a")
	assert.Equal(t, 1, a.WipeoutCount)
	b := findRecord(t, records, "b")
	assert.Equal(t, 1, b.TobashiCount)
	assert.Zero(t, b.WipeoutCount)
}

func TestYakumanCount(t *testing.T) {
	var games []ledger.Game
	var entries []ledger.ScoreEntry
	fourPlayerGame(&games, &entries, "g1", 1, [4]int{30, -10, -10, -10})
	hands := []ledger.SpecialHandRecord{
		hand("h1", "g1", "a", "kokushi"),
		hand("h2", "g1", "a", "suuankou"),
		hand("h3", "g1", "z", "daisangen"), // a player with only a hand record
	}

	records := stats.BuildAchievements(games, entries, nil, hands)
	a := findRecord(t, records, "a")
	assert.Equal(t, 2, a.YakumanCount, "repeat winners are not capped per game")
	z := findRecord(t, records, "z")
	assert.Equal(t, 1, z.YakumanCount)
}

func TestAishouName(t *testing.T) {
	// a wins all ten games; b finishes last in six of them, c in four.
	var games []ledger.Game
	var entries []ledger.ScoreEntry
	for i := 1; i <= 6; i++ {
		fourPlayerGame(&games, &entries, "g"+string(rune('a'+i)), i, [4]int{40, -30, -5, -5})
	}
	for i := 7; i <= 10; i++ {
		fourPlayerGame(&games, &entries, "g"+string(rune('a'+i)), i, [4]int{40, -5, -30, -5})
	}

	records := stats.BuildAchievements(games, entries, nil, nil)
	a := findRecord(t, records, "a")
	assert.Equal(t, "Player b", a.AishouName)
}

func TestAishouNameRequiresTenCoGames(t *testing.T) {
	var games []ledger.Game
	var entries []ledger.ScoreEntry
	for i := 1; i <= 9; i++ {
		fourPlayerGame(&games, &entries, "g"+string(rune('a'+i)), i, [4]int{40, -30, -5, -5})
	}

	records := stats.BuildAchievements(games, entries, nil, nil)
	a := findRecord(t, records, "a")
	assert.Empty(t, a.AishouName, "nine co-games is below the threshold")
}

func TestAchievementsFilterAndOrder(t *testing.T) {
	var games []ledger.Game
	var entries []ledger.ScoreEntry
	fourPlayerGame(&games, &entries, "g1", 1, [4]int{120, -40, -40, -40})
	markers := []ledger.StreakMarker{
		marker("g1", "b", ledger.MarkerEliminator),
	}

	records := stats.BuildAchievements(games, entries, markers, nil)

	// c and d have every counter at zero and no nemesis: dropped entirely.
	require.Len(t, records, 2)
	// a (fugou 1) and b (tobashi 1) tie on the count sum; insertion order
	// breaks the tie, and a was seen first.
	assert.Equal(t, "a", records[0].UserID)
	assert.Equal(t, "b", records[1].UserID)
}

func TestBuildAchievementsIdempotent(t *testing.T) {
	var games []ledger.Game
	var entries []ledger.ScoreEntry
	for i := 1; i <= 6; i++ {
		fourPlayerGame(&games, &entries, "g"+string(rune('0'+i)), i, [4]int{30, -10, -10, -10})
	}
	markers := []ledger.StreakMarker{marker("g1", "b", ledger.MarkerEliminated)}
	hands := []ledger.SpecialHandRecord{hand("h1", "g1", "a", "kokushi")}

	first := stats.BuildAchievements(games, entries, markers, hands)
	second := stats.BuildAchievements(games, entries, markers, hands)
	require.Equal(t, first, second)
}
