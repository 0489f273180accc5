package stats

import (
	"sort"

	"github.com/mauv0809/riichi-ledger/internal/ledger"
)

const (
	// DefaultPtRate is attached when a session's room record is unavailable.
	// This fallback is deliberate, not an oversight.
	DefaultPtRate = 50
	// DefaultPageSize is the fixed session page size.
	DefaultPageSize = 5
)

// GroupSessions groups a partition's games into sessions, one per room, with
// games ordered by round number ascending. Sessions are ordered by their most
// recent game's creation time descending.
func GroupSessions(games []ledger.Game, rooms map[string]ledger.Room) []Session {
	byRoom := make(map[string][]ledger.Game)
	var order []string
	for _, g := range games {
		if _, ok := byRoom[g.RoomID]; !ok {
			order = append(order, g.RoomID)
		}
		byRoom[g.RoomID] = append(byRoom[g.RoomID], g)
	}

	sessions := make([]Session, 0, len(order))
	for _, roomID := range order {
		roomGames := byRoom[roomID]
		sort.SliceStable(roomGames, func(i, j int) bool { return roomGames[i].RoundNumber < roomGames[j].RoundNumber })

		var latest int64
		for _, g := range roomGames {
			if g.CreatedAt > latest {
				latest = g.CreatedAt
			}
		}

		ptRate := DefaultPtRate
		roomNumber := 0
		if room, ok := rooms[roomID]; ok {
			ptRate = room.PtRate
			roomNumber = room.RoomNumber
		}

		sessions = append(sessions, Session{
			RoomID:     roomID,
			RoomNumber: roomNumber,
			PtRate:     ptRate,
			Games:      roomGames,
			LatestAt:   latest,
		})
	}

	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].LatestAt > sessions[j].LatestAt })
	return sessions
}

// PageSessions returns one page of sessions starting at cursor. The function
// is pure, so fetching the same cursor twice yields the identical page with
// no duplication.
func PageSessions(sessions []Session, cursor, pageSize int) SessionPage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(sessions) {
		return SessionPage{Sessions: []Session{}, NextCursor: cursor, HasMore: false}
	}

	end := cursor + pageSize
	if end > len(sessions) {
		end = len(sessions)
	}
	return SessionPage{
		Sessions:   sessions[cursor:end],
		NextCursor: end,
		HasMore:    end < len(sessions),
	}
}
