package ledger

// LedgerStore defines the interface for interacting with the game ledger.
type LedgerStore interface {
	UpsertRoom(room Room) error
	RecordGame(game Game, entries []ScoreEntry) error
	AddStreakMarker(marker StreakMarker) error
	AddSpecialHand(hand SpecialHandRecord) error
	ListGamesByYear(year int) ([]Game, error)
	ListScores(gameIDs []string) ([]ScoreEntry, error)
	ListStreakMarkers(gameIDs []string, kind MarkerKind) ([]StreakMarker, error)
	ListSpecialHands(gameIDs []string) ([]SpecialHandRecord, error)
	ListRooms(roomIDs []string) ([]Room, error)
	UpdateScore(scoreEntryID string, newScore int) error
	UpdateScoreByGamePlayer(gameID, userID string, newScore int) error
	Clear()
	ClearGame(gameID string)
}
