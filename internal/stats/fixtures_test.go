package stats_test

import (
	"fmt"

	"github.com/mauv0809/riichi-ledger/internal/ledger"
)

func game(id, roomID string, round int, createdAt int64) ledger.Game {
	return ledger.Game{ID: id, RoomID: roomID, RoundNumber: round, CreatedAt: createdAt}
}

func entry(gameID, userID string, score int) ledger.ScoreEntry {
	return ledger.ScoreEntry{
		ID:          fmt.Sprintf("%s-%s", gameID, userID),
		GameID:      gameID,
		UserID:      userID,
		DisplayName: "Player " + userID,
		Score:       score,
	}
}

func marker(gameID, userID string, kind ledger.MarkerKind) ledger.StreakMarker {
	return ledger.StreakMarker{GameID: gameID, UserID: userID, Kind: kind}
}

func hand(id, gameID, userID, handType string) ledger.SpecialHandRecord {
	return ledger.SpecialHandRecord{
		ID:          id,
		GameID:      gameID,
		UserID:      userID,
		DisplayName: "Player " + userID,
		HandType:    handType,
		WinningTile: "1z",
		CreatedAt:   1,
	}
}

// fourPlayerGame appends one 4-player game where the given scores are
// assigned to users a, b, c, d in order.
func fourPlayerGame(games *[]ledger.Game, entries *[]ledger.ScoreEntry, id string, round int, scores [4]int) {
	*games = append(*games, game(id, "room1", round, int64(round*100)))
	for i, userID := range []string{"a", "b", "c", "d"} {
		*entries = append(*entries, entry(id, userID, scores[i]))
	}
}
