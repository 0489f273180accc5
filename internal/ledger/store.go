package ledger

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new LedgerStore.
func New(db *sql.DB) LedgerStore {
	return &store{
		db: db,
	}
}

// UpsertRoom inserts a room or refreshes its metadata.
func (s *store) UpsertRoom(room Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO rooms (id, room_number, table_size, pt_rate, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			room_number = excluded.room_number,
			table_size = excluded.table_size,
			pt_rate = excluded.pt_rate;
	`, room.ID, room.RoomNumber, room.TableSize, room.PtRate, room.CreatedBy, room.CreatedAt)
	return err
}

// RecordGame appends one completed round and its score entries in a single
// transaction. The zero-sum invariant is checked but not enforced; the store
// is a ledger and keeps whatever the host confirmed.
func (s *store) RecordGame(game Game, entries []ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := 0
	for _, e := range entries {
		sum += e.Score
	}
	if sum != 0 {
		log.Warn("Recording game with non-zero score sum", "gameID", game.ID, "sum", sum)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO games (id, room_id, round_number, created_at)
		VALUES (?, ?, ?, ?)
	`, game.ID, game.RoomID, game.RoundNumber, game.CreatedAt)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert game %s: %w", game.ID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO score_entries (id, game_id, user_id, display_name, avatar_url, score)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.ID, game.ID, e.UserID, e.DisplayName, e.AvatarURL, e.Score); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert score entry for user %s: %w", e.UserID, err)
		}
	}

	return tx.Commit()
}

// AddStreakMarker records a bust event. Duplicate (game, user, kind) rows are ignored.
func (s *store) AddStreakMarker(marker StreakMarker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO streak_markers (game_id, user_id, kind)
		VALUES (?, ?, ?)
		ON CONFLICT(game_id, user_id, kind) DO NOTHING;
	`, marker.GameID, marker.UserID, marker.Kind)
	return err
}

func (s *store) AddSpecialHand(hand SpecialHandRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO special_hands (id, game_id, user_id, display_name, avatar_url, hand_type, winning_tile, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, hand.ID, hand.GameID, hand.UserID, hand.DisplayName, hand.AvatarURL, hand.HandType, hand.WinningTile, hand.CreatedAt)
	return err
}

// ListGamesByYear retrieves all games created within the given calendar year,
// ordered by creation time ascending.
func (s *store) ListGamesByYear(year int) ([]Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	to := time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC).Unix()

	rows, err := s.db.Query(`
		SELECT id, room_id, round_number, created_at
		FROM games
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.RoomID, &g.RoundNumber, &g.CreatedAt); err != nil {
			log.Error("Failed to scan game row", "error", err)
			continue
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *store) ListScores(gameIDs []string) ([]ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(gameIDs) == 0 {
		return []ScoreEntry{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, game_id, user_id, display_name, COALESCE(avatar_url, ''), score
		FROM score_entries
		WHERE game_id IN (%s)
		ORDER BY rowid ASC
	`, placeholders(len(gameIDs)))

	rows, err := s.db.Query(query, ToAnySlice(gameIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		if err := rows.Scan(&e.ID, &e.GameID, &e.UserID, &e.DisplayName, &e.AvatarURL, &e.Score); err != nil {
			log.Error("Failed to scan score entry row", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListStreakMarkers retrieves markers for the given games, optionally
// restricted to one kind (pass "" for all).
func (s *store) ListStreakMarkers(gameIDs []string, kind MarkerKind) ([]StreakMarker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(gameIDs) == 0 {
		return []StreakMarker{}, nil
	}

	query := fmt.Sprintf(`
		SELECT game_id, user_id, kind
		FROM streak_markers
		WHERE game_id IN (%s)
	`, placeholders(len(gameIDs)))
	args := ToAnySlice(gameIDs)
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, string(kind))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var markers []StreakMarker
	for rows.Next() {
		var m StreakMarker
		if err := rows.Scan(&m.GameID, &m.UserID, &m.Kind); err != nil {
			log.Error("Failed to scan streak marker row", "error", err)
			continue
		}
		markers = append(markers, m)
	}
	return markers, rows.Err()
}

func (s *store) ListSpecialHands(gameIDs []string) ([]SpecialHandRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(gameIDs) == 0 {
		return []SpecialHandRecord{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, game_id, user_id, display_name, COALESCE(avatar_url, ''), hand_type, winning_tile, created_at
		FROM special_hands
		WHERE game_id IN (%s)
		ORDER BY created_at ASC
	`, placeholders(len(gameIDs)))

	rows, err := s.db.Query(query, ToAnySlice(gameIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hands []SpecialHandRecord
	for rows.Next() {
		var h SpecialHandRecord
		if err := rows.Scan(&h.ID, &h.GameID, &h.UserID, &h.DisplayName, &h.AvatarURL, &h.HandType, &h.WinningTile, &h.CreatedAt); err != nil {
			log.Error("Failed to scan special hand row", "error", err)
			continue
		}
		hands = append(hands, h)
	}
	return hands, rows.Err()
}

func (s *store) ListRooms(roomIDs []string) ([]Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(roomIDs) == 0 {
		return []Room{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, room_number, table_size, pt_rate, created_by, created_at
		FROM rooms
		WHERE id IN (%s)
	`, placeholders(len(roomIDs)))

	rows, err := s.db.Query(query, ToAnySlice(roomIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var r Room
		if err := rows.Scan(&r.ID, &r.RoomNumber, &r.TableSize, &r.PtRate, &r.CreatedBy, &r.CreatedAt); err != nil {
			log.Error("Failed to scan room row", "error", err)
			continue
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// UpdateScore corrects a score entry in place by primary key. Returns
// ErrNotFound when no row matches so callers can try the natural key.
func (s *store) UpdateScore(scoreEntryID string, newScore int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE score_entries SET score = ? WHERE id = ?", newScore, scoreEntryID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateScoreByGamePlayer is the fallback correction path matching on the
// natural key instead of the primary key.
func (s *store) UpdateScoreByGamePlayer(gameID, userID string, newScore int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE score_entries SET score = ? WHERE game_id = ? AND user_id = ?", newScore, gameID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"special_hands", "streak_markers", "score_entries", "games", "rooms"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func (s *store) ClearGame(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM games WHERE id = ?", gameID)
	if err != nil {
		log.Error("Failed to clear game", "error", err, "gameID", gameID)
	}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func ToAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
