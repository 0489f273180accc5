package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/riichi-ledger/internal/ledger"
	"github.com/mauv0809/riichi-ledger/internal/pubsub"
	"github.com/mauv0809/riichi-ledger/internal/views"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// partitionParams parses the year and table_size query parameters shared by
// every read view. Missing values default to the current year and four players.
func partitionParams(r *http.Request) (year, tableSize int) {
	year = time.Now().UTC().Year()
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err == nil && parsed > 0 {
			year = parsed
		} else {
			log.Warn("Invalid 'year' parameter provided. Defaulting to current year.", "year_param", yearStr)
		}
	}

	tableSize = 4
	if sizeStr := r.URL.Query().Get("table_size"); sizeStr != "" {
		parsed, err := strconv.Atoi(sizeStr)
		if err == nil && (parsed == 3 || parsed == 4) {
			tableSize = parsed
		} else {
			log.Warn("Invalid 'table_size' parameter provided. Defaulting to 4.", "table_size_param", sizeStr)
		}
	}
	return year, tableSize
}

func respondJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func (s *Server) RankingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			http.Error(w, "user_id is required", http.StatusBadRequest)
			return
		}
		year, tableSize := partitionParams(r)

		players, err := s.Views.Ranking(year, tableSize, userID)
		if err != nil {
			http.Error(w, "Failed to build ranking", http.StatusInternalServerError)
			log.Error("Failed to build ranking", "error", err, "userID", userID)
			return
		}

		if r.URL.Query().Get("notify") == "true" {
			if err := s.Notifier.SendRanking(players, isDryRunFromContext(r)); err != nil {
				log.Error("Failed to send ranking notification", "error", err)
			}
		}
		respondJSON(w, players)
	}
}

func (s *Server) SummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, tableSize := partitionParams(r)

		summary, err := s.Views.Summary(year, tableSize)
		if err != nil {
			http.Error(w, "Failed to build summary", http.StatusInternalServerError)
			log.Error("Failed to build summary", "error", err)
			return
		}
		respondJSON(w, summary)
	}
}

func (s *Server) SessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, tableSize := partitionParams(r)

		cursor := 0
		if cursorStr := r.URL.Query().Get("cursor"); cursorStr != "" {
			parsed, err := strconv.Atoi(cursorStr)
			if err == nil && parsed >= 0 {
				cursor = parsed
			} else {
				log.Warn("Invalid 'cursor' parameter provided. Defaulting to 0.", "cursor_param", cursorStr)
			}
		}

		page, err := s.Views.Sessions(year, tableSize, cursor)
		if err != nil {
			http.Error(w, "Failed to build sessions", http.StatusInternalServerError)
			log.Error("Failed to build sessions", "error", err)
			return
		}
		respondJSON(w, page)
	}
}

func (s *Server) AchievementsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, tableSize := partitionParams(r)

		records, err := s.Views.Achievements(year, tableSize)
		if err != nil {
			http.Error(w, "Failed to build achievements", http.StatusInternalServerError)
			log.Error("Failed to build achievements", "error", err)
			return
		}

		if r.URL.Query().Get("notify") == "true" {
			if err := s.Notifier.SendAchievements(records, isDryRunFromContext(r)); err != nil {
				log.Error("Failed to send achievements notification", "error", err)
			}
		}
		respondJSON(w, records)
	}
}

// recordGameRequest is the POST body for /record-game. Score entries carry
// their final signed scores; the entry count defines the table size.
type recordGameRequest struct {
	RoomID      string `json:"room_id"`
	RoundNumber int    `json:"round_number"`
	CreatedAt   int64  `json:"created_at"`
	Scores      []struct {
		UserID      string `json:"user_id"`
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
		Score       int    `json:"score"`
	} `json:"scores"`
	Eliminated   []string `json:"eliminated"`
	Eliminators  []string `json:"eliminators"`
	SpecialHands []struct {
		UserID      string `json:"user_id"`
		HandType    string `json:"hand_type"`
		WinningTile string `json:"winning_tile"`
	} `json:"special_hands"`
}

func (s *Server) RecordGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req recordGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode record-game request", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.RoomID == "" {
			http.Error(w, "room_id is required", http.StatusBadRequest)
			return
		}
		// The entry count defines the table size, and views only serve 3- and
		// 4-player partitions; anything else would be persisted yet invisible.
		if len(req.Scores) != 3 && len(req.Scores) != 4 {
			http.Error(w, "exactly three or four scores are required", http.StatusBadRequest)
			return
		}

		isDryRun := isDryRunFromContext(r)

		game := ledger.Game{
			ID:          uuid.NewString(),
			RoomID:      req.RoomID,
			RoundNumber: req.RoundNumber,
			CreatedAt:   req.CreatedAt,
		}
		if game.CreatedAt == 0 {
			game.CreatedAt = time.Now().Unix()
		}

		byUser := make(map[string]ledger.ScoreEntry, len(req.Scores))
		entries := make([]ledger.ScoreEntry, 0, len(req.Scores))
		for _, sc := range req.Scores {
			entry := ledger.ScoreEntry{
				ID:          uuid.NewString(),
				GameID:      game.ID,
				UserID:      sc.UserID,
				DisplayName: sc.DisplayName,
				AvatarURL:   sc.AvatarURL,
				Score:       sc.Score,
			}
			entries = append(entries, entry)
			byUser[sc.UserID] = entry
		}

		if isDryRun {
			log.Info("[Dry Run] Would record game", "gameID", game.ID, "roomID", game.RoomID, "players", len(entries))
			s.Notifier.SendGameResult(game, entries, true)
			respondJSON(w, game)
			return
		}

		if err := s.Store.RecordGame(game, entries); err != nil {
			log.Error("Failed to record game", "error", err, "gameID", game.ID)
			http.Error(w, "Failed to record game", http.StatusInternalServerError)
			return
		}
		for _, userID := range req.Eliminated {
			if err := s.Store.AddStreakMarker(ledger.StreakMarker{GameID: game.ID, UserID: userID, Kind: ledger.MarkerEliminated}); err != nil {
				log.Error("Failed to add eliminated marker", "error", err, "gameID", game.ID, "userID", userID)
			}
		}
		for _, userID := range req.Eliminators {
			if err := s.Store.AddStreakMarker(ledger.StreakMarker{GameID: game.ID, UserID: userID, Kind: ledger.MarkerEliminator}); err != nil {
				log.Error("Failed to add eliminator marker", "error", err, "gameID", game.ID, "userID", userID)
			}
		}
		for _, hand := range req.SpecialHands {
			record := ledger.SpecialHandRecord{
				ID:          uuid.NewString(),
				GameID:      game.ID,
				UserID:      hand.UserID,
				HandType:    hand.HandType,
				WinningTile: hand.WinningTile,
				CreatedAt:   game.CreatedAt,
			}
			if entry, ok := byUser[hand.UserID]; ok {
				record.DisplayName = entry.DisplayName
				record.AvatarURL = entry.AvatarURL
			}
			if err := s.Store.AddSpecialHand(record); err != nil {
				log.Error("Failed to add special hand", "error", err, "gameID", game.ID, "userID", hand.UserID)
			}
		}

		s.Metrics.IncGamesRecorded()
		s.Views.Invalidate(time.Unix(game.CreatedAt, 0).UTC().Year())

		if err := s.pubsub.SendMessage(pubsub.TopicGameRecorded, game); err != nil {
			log.Error("Failed to publish game-recorded event", "error", err, "gameID", game.ID)
		}
		if err := s.Notifier.SendGameResult(game, entries, false); err != nil {
			log.Error("Failed to send game result notification", "error", err, "gameID", game.ID)
		}

		respondJSON(w, game)
	}
}

// correctScoreRequest is the POST body for /correct-score. GameID and UserID
// back the natural-key fallback when ScoreEntryID has gone stale.
type correctScoreRequest struct {
	ScoreEntryID string `json:"score_entry_id"`
	GameID       string `json:"game_id"`
	UserID       string `json:"user_id"`
	NewScore     int    `json:"new_score"`
}

func (s *Server) CorrectScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req correctScoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode correct-score request", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.ScoreEntryID == "" && (req.GameID == "" || req.UserID == "") {
			http.Error(w, "score_entry_id or game_id and user_id are required", http.StatusBadRequest)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would correct score", "scoreEntryID", req.ScoreEntryID, "gameID", req.GameID, "userID", req.UserID, "newScore", req.NewScore)
			respondJSON(w, views.CorrectionResult{})
			return
		}

		result := s.Views.ApplyCorrection(req.ScoreEntryID, req.GameID, req.UserID, req.NewScore)
		if result.Persisted {
			if err := s.pubsub.SendMessage(pubsub.TopicScoreCorrected, req); err != nil {
				log.Error("Failed to publish score-corrected event", "error", err, "gameID", req.GameID)
			}
		}

		// The correction is optimistic: a failed persist is reported, not
		// rolled back, so the response stays 200 either way.
		respondJSON(w, result)
	}
}

func (s *Server) UpsertRoomHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var room ledger.Room
		if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
			log.Error("Failed to decode room request", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if room.ID == "" {
			room.ID = uuid.NewString()
		}
		if room.CreatedAt == 0 {
			room.CreatedAt = time.Now().Unix()
		}
		if room.TableSize != 3 && room.TableSize != 4 {
			http.Error(w, "table_size must be 3 or 4", http.StatusBadRequest)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would upsert room", "roomID", room.ID, "roomNumber", room.RoomNumber)
			respondJSON(w, room)
			return
		}

		if err := s.Store.UpsertRoom(room); err != nil {
			log.Error("Failed to upsert room", "error", err, "roomID", room.ID)
			http.Error(w, "Failed to upsert room", http.StatusInternalServerError)
			return
		}
		respondJSON(w, room)
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.URL.Query().Get("gameID")
		if gameID != "" {
			log.Info("Received request to clear a specific game", "gameID", gameID)
			s.Store.ClearGame(gameID)
			// The cleared game's year is unknown here, so drop every cached view.
			s.Views.InvalidateAll()
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared game %s from store!", gameID)
			log.Info("Successfully cleared game from store", "gameID", gameID)
		} else {
			log.Info("Received request to clear entire store")
			s.Store.Clear()
			s.Views.InvalidateAll()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
			log.Info("Store cleared successfully")
		}
	}
}
