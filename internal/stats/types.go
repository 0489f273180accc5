package stats

import "github.com/mauv0809/riichi-ledger/internal/ledger"

// RankedPlayer is one row of the cumulative-score leaderboard. History holds
// the running total at every game of the cohort's ordered game list, so all
// players share the same series length.
type RankedPlayer struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	TotalScore  int    `json:"total_score"`
	History     []int  `json:"history"`
}

// PlayerStats holds per-player rate statistics for one year/table-size
// partition. Rates are percentages.
type PlayerStats struct {
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	AvatarURL   string  `json:"avatar_url"`
	TotalGames  int     `json:"total_games"`
	TopRate     float64 `json:"top_rate"`
	LastRate    float64 `json:"last_rate"`
	AvgRank     float64 `json:"avg_rank"`
	TobiRate    float64 `json:"tobi_rate"`
}

// Session is one room's full set of games for a partition, ordered by round
// number. PtRate is carried from the room record for display only.
type Session struct {
	RoomID     string        `json:"room_id"`
	RoomNumber int           `json:"room_number"`
	PtRate     int           `json:"pt_rate"`
	Games      []ledger.Game `json:"games"`
	LatestAt   int64         `json:"latest_at"`
}

// SessionPage is one fixed-size page of sessions. Paging by cursor is
// idempotent: the same cursor always yields the same page.
type SessionPage struct {
	Sessions   []Session `json:"sessions"`
	NextCursor int       `json:"next_cursor"`
	HasMore    bool      `json:"has_more"`
}

// AchievementRecord holds the streak and rivalry counters for one player.
// AishouName is empty when no opponent clears the co-game threshold.
type AchievementRecord struct {
	UserID       string `json:"user_id"`
	DisplayName  string `json:"display_name"`
	AvatarURL    string `json:"avatar_url"`
	YakumanCount int    `json:"yakuman_count"`
	TobashiCount int    `json:"tobashi_count"`
	FlowCount    int    `json:"flow_count"`
	FugouCount   int    `json:"fugou_count"`
	AnteiCount   int    `json:"antei_count"`
	WipeoutCount int    `json:"wipeout_count"`
	AishouName   string `json:"aishou_name,omitempty"`
}

// Cohort is the one-hop co-player closure for a user: every game the user
// appears in, and every user appearing in any of those games. Both sets are
// immutable snapshots; resolve again after recording a new game.
type Cohort struct {
	GameIDs map[string]struct{}
	UserIDs map[string]struct{}
}
