package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/riichi-ledger/internal/database"
	"github.com/mauv0809/riichi-ledger/internal/ledger"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":        "seed.db",
		"MIGRATIONS_DIR": "./migrations",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

type seedPlayer struct {
	userID string
	name   string
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], "", "", cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	log.Info("Successfully connected to the database.", "db", cfg["DB_NAME"])

	store := ledger.New(db)

	players := []seedPlayer{
		{userID: "player-1", name: "Seeder Player A"},
		{userID: "player-2", name: "Seeder Player B"},
		{userID: "player-3", name: "Seeder Player C"},
		{userID: "player-4", name: "Seeder Player D"},
		{userID: "player-5", name: "Seeder Player E"},
	}

	const numRooms = 20
	const roundsPerRoom = 8

	log.Info("Preparing to seed a season of games...", "rooms", numRooms, "rounds_per_room", roundsPerRoom)
	startTime := time.Now()

	gamesSeeded := 0
	for i := 0; i < numRooms; i++ {
		tableSize := 4
		if i%3 == 0 {
			tableSize = 3
		}

		roomCreated := time.Now().Add(-time.Duration(rand.Intn(300*24)) * time.Hour)
		room := ledger.Room{
			ID:         uuid.NewString(),
			RoomNumber: 1000 + i,
			TableSize:  tableSize,
			PtRate:     50 * (1 + rand.Intn(3)),
			CreatedBy:  players[0].userID,
			CreatedAt:  roomCreated.Unix(),
		}
		if err := store.UpsertRoom(room); err != nil {
			log.Fatalf("Failed to seed room %d: %s", room.RoomNumber, err)
		}

		seated := make([]seedPlayer, len(players))
		copy(seated, players)
		rand.Shuffle(len(seated), func(a, b int) { seated[a], seated[b] = seated[b], seated[a] })
		seated = seated[:tableSize]

		for round := 1; round <= roundsPerRoom; round++ {
			game := ledger.Game{
				ID:          uuid.NewString(),
				RoomID:      room.ID,
				RoundNumber: round,
				CreatedAt:   roomCreated.Add(time.Duration(round) * 45 * time.Minute).Unix(),
			}

			scores := zeroSumScores(tableSize)
			entries := make([]ledger.ScoreEntry, tableSize)
			for seat, p := range seated {
				entries[seat] = ledger.ScoreEntry{
					ID:          uuid.NewString(),
					GameID:      game.ID,
					UserID:      p.userID,
					DisplayName: p.name,
					AvatarURL:   fmt.Sprintf("https://example.com/avatars/%s.png", p.userID),
					Score:       scores[seat],
				}
			}

			if err := store.RecordGame(game, entries); err != nil {
				log.Fatalf("Failed to seed game: %s", err)
			}
			gamesSeeded++

			// Roughly one round in six ends with a bust.
			if rand.Intn(6) == 0 {
				loser := entries[tableSize-1]
				winner := entries[0]
				store.AddStreakMarker(ledger.StreakMarker{GameID: game.ID, UserID: loser.UserID, Kind: ledger.MarkerEliminated})
				store.AddStreakMarker(ledger.StreakMarker{GameID: game.ID, UserID: winner.UserID, Kind: ledger.MarkerEliminator})
			}
			if rand.Intn(40) == 0 {
				winner := entries[0]
				store.AddSpecialHand(ledger.SpecialHandRecord{
					ID:          uuid.NewString(),
					GameID:      game.ID,
					UserID:      winner.UserID,
					DisplayName: winner.DisplayName,
					AvatarURL:   winner.AvatarURL,
					HandType:    "kokushi",
					WinningTile: "1z",
					CreatedAt:   game.CreatedAt,
				})
			}
		}
		log.Info("Seeded room", "room_number", room.RoomNumber, "table_size", tableSize, "rounds", roundsPerRoom)
	}

	duration := time.Since(startTime)
	log.Info("Successfully seeded the season.", "games", gamesSeeded, "duration", duration)
}

// zeroSumScores draws n-1 random signed scores and balances the last seat so
// the game sums to zero.
func zeroSumScores(n int) []int {
	scores := make([]int, n)
	sum := 0
	for i := 0; i < n-1; i++ {
		scores[i] = rand.Intn(121) - 60
		sum += scores[i]
	}
	scores[n-1] = -sum
	return scores
}
