package ledger

import (
	"database/sql"
	"errors"
	"sync"
)

// ErrNotFound is returned when a score correction targets a row that does not exist.
var ErrNotFound = errors.New("score entry not found")

// store handles all database operations for the ledger.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// MarkerKind distinguishes the two streak marker variants.
type MarkerKind string

const (
	// MarkerEliminated marks a player who busted out of a game.
	MarkerEliminated MarkerKind = "eliminated"
	// MarkerEliminator marks a player credited with busting someone else.
	MarkerEliminator MarkerKind = "eliminator"
)

// Game identifies one completed round within a room. Immutable once created.
type Game struct {
	ID          string `json:"id"`
	RoomID      string `json:"room_id"`
	RoundNumber int    `json:"round_number"`
	CreatedAt   int64  `json:"created_at"`
}

// ScoreEntry is one row per (game, participant). Scores within a game sum to
// zero. The number of entries for a game defines its table size.
type ScoreEntry struct {
	ID          string `json:"id"`
	GameID      string `json:"game_id"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Score       int    `json:"score"`
}

// StreakMarker records a bust event within a game.
type StreakMarker struct {
	GameID string     `json:"game_id"`
	UserID string     `json:"user_id"`
	Kind   MarkerKind `json:"kind"`
}

// SpecialHandRecord is an append-only record of a yakuman-class winning hand.
type SpecialHandRecord struct {
	ID          string `json:"id"`
	GameID      string `json:"game_id"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	HandType    string `json:"hand_type"`
	WinningTile string `json:"winning_tile"`
	CreatedAt   int64  `json:"created_at"`
}

// Room is the originating table a set of games was recorded in. PtRate is a
// display multiplier only; it never enters aggregation math.
type Room struct {
	ID         string `json:"id"`
	RoomNumber int    `json:"room_number"`
	TableSize  int    `json:"table_size"`
	PtRate     int    `json:"pt_rate"`
	CreatedBy  string `json:"created_by"`
	CreatedAt  int64  `json:"created_at"`
}
