package ledger_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/riichi-ledger/internal/database"
	"github.com/mauv0809/riichi-ledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (ledger.LedgerStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := ledger.New(db)
	return store, db, dbTeardown
}

func seedRoom(t *testing.T, store ledger.LedgerStore, id string, tableSize int) {
	t.Helper()
	require.NoError(t, store.UpsertRoom(ledger.Room{
		ID:         id,
		RoomNumber: 1042,
		TableSize:  tableSize,
		PtRate:     50,
		CreatedBy:  "host",
		CreatedAt:  time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC).Unix(),
	}))
}

func TestRecordGameAndListScores(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedRoom(t, store, "room1", 4)
	game := ledger.Game{ID: "g1", RoomID: "room1", RoundNumber: 1, CreatedAt: time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC).Unix()}
	entries := []ledger.ScoreEntry{
		{ID: "s1", GameID: "g1", UserID: "u1", DisplayName: "East", Score: 40},
		{ID: "s2", GameID: "g1", UserID: "u2", DisplayName: "South", Score: 10},
		{ID: "s3", GameID: "g1", UserID: "u3", DisplayName: "West", Score: -20},
		{ID: "s4", GameID: "g1", UserID: "u4", DisplayName: "North", Score: -30},
	}
	require.NoError(t, store.RecordGame(game, entries))

	scores, err := store.ListScores([]string{"g1"})
	require.NoError(t, err)
	require.Len(t, scores, 4)

	sum := 0
	for _, s := range scores {
		sum += s.Score
	}
	assert.Zero(t, sum, "scores of a game must sum to zero")
}

func TestRecordGameRejectsDuplicateParticipant(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedRoom(t, store, "room1", 3)
	game := ledger.Game{ID: "g1", RoomID: "room1", RoundNumber: 1, CreatedAt: time.Now().Unix()}
	entries := []ledger.ScoreEntry{
		{ID: "s1", GameID: "g1", UserID: "u1", DisplayName: "A", Score: 10},
		{ID: "s2", GameID: "g1", UserID: "u1", DisplayName: "A again", Score: -10},
	}
	err := store.RecordGame(game, entries)
	assert.Error(t, err, "unique (game, user) constraint should reject the second row")

	// The transaction must have rolled back entirely.
	games, err := store.ListGamesByYear(time.Now().UTC().Year())
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestListGamesByYear(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedRoom(t, store, "room1", 4)
	in2024 := ledger.Game{ID: "g-2024", RoomID: "room1", RoundNumber: 1, CreatedAt: time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC).Unix()}
	in2025 := ledger.Game{ID: "g-2025", RoomID: "room1", RoundNumber: 2, CreatedAt: time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC).Unix()}
	require.NoError(t, store.RecordGame(in2024, nil))
	require.NoError(t, store.RecordGame(in2025, nil))

	games, err := store.ListGamesByYear(2025)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "g-2025", games[0].ID)
}

func TestStreakMarkers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedRoom(t, store, "room1", 4)
	game := ledger.Game{ID: "g1", RoomID: "room1", RoundNumber: 1, CreatedAt: time.Now().Unix()}
	require.NoError(t, store.RecordGame(game, nil))

	require.NoError(t, store.AddStreakMarker(ledger.StreakMarker{GameID: "g1", UserID: "u1", Kind: ledger.MarkerEliminated}))
	require.NoError(t, store.AddStreakMarker(ledger.StreakMarker{GameID: "g1", UserID: "u2", Kind: ledger.MarkerEliminator}))
	// Re-adding the same marker is a no-op, not an error.
	require.NoError(t, store.AddStreakMarker(ledger.StreakMarker{GameID: "g1", UserID: "u1", Kind: ledger.MarkerEliminated}))

	all, err := store.ListStreakMarkers([]string{"g1"}, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	eliminated, err := store.ListStreakMarkers([]string{"g1"}, ledger.MarkerEliminated)
	require.NoError(t, err)
	require.Len(t, eliminated, 1)
	assert.Equal(t, "u1", eliminated[0].UserID)
}

func TestSpecialHands(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedRoom(t, store, "room1", 4)
	game := ledger.Game{ID: "g1", RoomID: "room1", RoundNumber: 1, CreatedAt: time.Now().Unix()}
	require.NoError(t, store.RecordGame(game, nil))

	// Multiple records per game are allowed, including repeat winners.
	require.NoError(t, store.AddSpecialHand(ledger.SpecialHandRecord{ID: "h1", GameID: "g1", UserID: "u1", DisplayName: "East", HandType: "kokushi", WinningTile: "1z", CreatedAt: 10}))
	require.NoError(t, store.AddSpecialHand(ledger.SpecialHandRecord{ID: "h2", GameID: "g1", UserID: "u1", DisplayName: "East", HandType: "suuankou", WinningTile: "5p", CreatedAt: 20}))

	hands, err := store.ListSpecialHands([]string{"g1"})
	require.NoError(t, err)
	assert.Len(t, hands, 2)
}

func TestUpdateScore(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	seedRoom(t, store, "room1", 3)
	game := ledger.Game{ID: "g1", RoomID: "room1", RoundNumber: 1, CreatedAt: 100}
	require.NoError(t, store.RecordGame(game, []ledger.ScoreEntry{
		{ID: "s1", GameID: "g1", UserID: "u1", DisplayName: "A", Score: 10},
		{ID: "s2", GameID: "g1", UserID: "u2", DisplayName: "B", Score: -10},
	}))

	t.Run("by primary key", func(t *testing.T) {
		require.NoError(t, store.UpdateScore("s1", 25))
		var score int
		require.NoError(t, db.QueryRow("SELECT score FROM score_entries WHERE id = 's1'").Scan(&score))
		assert.Equal(t, 25, score)
	})

	t.Run("missing primary key returns ErrNotFound", func(t *testing.T) {
		err := store.UpdateScore("does-not-exist", 1)
		assert.ErrorIs(t, err, ledger.ErrNotFound)
	})

	t.Run("natural key fallback", func(t *testing.T) {
		require.NoError(t, store.UpdateScoreByGamePlayer("g1", "u2", -25))
		var score int
		require.NoError(t, db.QueryRow("SELECT score FROM score_entries WHERE id = 's2'").Scan(&score))
		assert.Equal(t, -25, score)

		err := store.UpdateScoreByGamePlayer("g1", "nobody", 0)
		assert.ErrorIs(t, err, ledger.ErrNotFound)
	})
}

func TestClear(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seedRoom(t, store, "room1", 4)
	game := ledger.Game{ID: "g1", RoomID: "room1", RoundNumber: 1, CreatedAt: time.Now().Unix()}
	require.NoError(t, store.RecordGame(game, nil))

	store.Clear()

	games, err := store.ListGamesByYear(time.Now().UTC().Year())
	require.NoError(t, err)
	assert.Empty(t, games)

	rooms, err := store.ListRooms([]string{"room1"})
	require.NoError(t, err)
	assert.Empty(t, rooms)
}
