package stats_test

import (
	"testing"

	"github.com/mauv0809/riichi-ledger/internal/ledger"
	"github.com/mauv0809/riichi-ledger/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupSessions(t *testing.T) {
	games := []ledger.Game{
		game("g1", "roomA", 1, 100),
		game("g2", "roomA", 2, 200),
		game("g3", "roomB", 1, 500),
		// Out-of-order insert: round 3 recorded before our slice saw round 2.
		game("g4", "roomA", 3, 300),
	}
	rooms := map[string]ledger.Room{
		"roomA": {ID: "roomA", RoomNumber: 1042, PtRate: 30},
	}

	sessions := stats.GroupSessions(games, rooms)
	require.Len(t, sessions, 2)

	// roomB's latest game (500) is more recent than roomA's (300).
	assert.Equal(t, "roomB", sessions[0].RoomID)
	assert.Equal(t, "roomA", sessions[1].RoomID)

	// Games within a session are ordered by round number ascending.
	rounds := []int{}
	for _, g := range sessions[1].Games {
		rounds = append(rounds, g.RoundNumber)
	}
	assert.Equal(t, []int{1, 2, 3}, rounds)

	// Room metadata attached where available, default pt rate otherwise.
	assert.Equal(t, 30, sessions[1].PtRate)
	assert.Equal(t, 1042, sessions[1].RoomNumber)
	assert.Equal(t, stats.DefaultPtRate, sessions[0].PtRate)
}

func TestPageSessions(t *testing.T) {
	var games []ledger.Game
	// 12 rooms, one game each, newest room first after grouping.
	for i := 0; i < 12; i++ {
		games = append(games, game(
			"g"+string(rune('a'+i)),
			"room"+string(rune('a'+i)),
			1,
			int64(1000-i),
		))
	}
	sessions := stats.GroupSessions(games, nil)
	require.Len(t, sessions, 12)

	t.Run("pages are fixed size and contiguous", func(t *testing.T) {
		page1 := stats.PageSessions(sessions, 0, 5)
		require.Len(t, page1.Sessions, 5)
		assert.True(t, page1.HasMore)
		assert.Equal(t, 5, page1.NextCursor)

		page2 := stats.PageSessions(sessions, page1.NextCursor, 5)
		require.Len(t, page2.Sessions, 5)
		assert.True(t, page2.HasMore)

		page3 := stats.PageSessions(sessions, page2.NextCursor, 5)
		require.Len(t, page3.Sessions, 2)
		assert.False(t, page3.HasMore)
	})

	t.Run("same cursor twice returns the identical page", func(t *testing.T) {
		first := stats.PageSessions(sessions, 5, 5)
		second := stats.PageSessions(sessions, 5, 5)
		require.Equal(t, first, second)

		// No session leaks across page boundaries.
		page1 := stats.PageSessions(sessions, 0, 5)
		seen := make(map[string]bool)
		for _, s := range page1.Sessions {
			seen[s.RoomID] = true
		}
		for _, s := range first.Sessions {
			assert.False(t, seen[s.RoomID], "session %s duplicated across pages", s.RoomID)
		}
	})

	t.Run("cursor past the end yields an empty page", func(t *testing.T) {
		page := stats.PageSessions(sessions, 100, 5)
		assert.Empty(t, page.Sessions)
		assert.False(t, page.HasMore)
	})
}
