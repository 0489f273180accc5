package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	userID    string
	year      int
	tableSize int
	cursor    int
	notify    bool
	bodyFile  string

	entryID  string
	gameID   string
	playerID string
	newScore int
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(correctCmd)
	rootCmd.AddCommand(metricsCmd)

	rankingCmd.Flags().StringVar(&userID, "user", "", "The user id whose cohort the ranking is built for")
	rankingCmd.MarkFlagRequired("user")

	for _, cmd := range []*cobra.Command{rankingCmd, summaryCmd, sessionsCmd, achievementsCmd} {
		cmd.Flags().IntVar(&year, "year", 0, "The ledger year (defaults to the current year)")
		cmd.Flags().IntVar(&tableSize, "table-size", 4, "Table size, 3 or 4 players")
	}
	sessionsCmd.Flags().IntVar(&cursor, "cursor", 0, "Session page cursor")
	rankingCmd.Flags().BoolVar(&notify, "notify", false, "Also post the result to Slack")
	achievementsCmd.Flags().BoolVar(&notify, "notify", false, "Also post the result to Slack")

	recordCmd.Flags().StringVar(&bodyFile, "file", "", "Path to a JSON file describing the game (- for stdin)")
	recordCmd.MarkFlagRequired("file")

	correctCmd.Flags().StringVar(&entryID, "entry", "", "The score entry id")
	correctCmd.Flags().StringVar(&gameID, "game", "", "The game id (natural-key fallback)")
	correctCmd.Flags().StringVar(&playerID, "player", "", "The player's user id (natural-key fallback)")
	correctCmd.Flags().IntVar(&newScore, "score", 0, "The corrected score")
	correctCmd.MarkFlagRequired("score")
}

func partitionQuery() url.Values {
	query := url.Values{}
	if year > 0 {
		query.Set("year", strconv.Itoa(year))
	}
	query.Set("table_size", strconv.Itoa(tableSize))
	return query
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health", nil)
	},
}

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Show the cumulative leaderboard for a user's cohort",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := partitionQuery()
		query.Set("user_id", userID)
		if notify {
			query.Set("notify", "true")
		}
		return performGetRequest("/ranking", query)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show per-player rate statistics for a year and table size",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/summary", partitionQuery())
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show a page of per-room sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := partitionQuery()
		query.Set("cursor", strconv.Itoa(cursor))
		return performGetRequest("/sessions", query)
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show badge counters for a year and table size",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := partitionQuery()
		if notify {
			query.Set("notify", "true")
		}
		return performGetRequest("/achievements", query)
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a finished round from a JSON description",
	RunE: func(cmd *cobra.Command, args []string) error {
		var payload []byte
		var err error
		if bodyFile == "-" {
			payload, err = io.ReadAll(os.Stdin)
		} else {
			payload, err = os.ReadFile(bodyFile)
		}
		if err != nil {
			return fmt.Errorf("failed to read game description: %w", err)
		}
		return performPostRequest("/record-game", payload)
	},
}

var correctCmd = &cobra.Command{
	Use:   "correct",
	Short: "Correct a recorded score",
	RunE: func(cmd *cobra.Command, args []string) error {
		if entryID == "" && (gameID == "" || playerID == "") {
			return fmt.Errorf("either --entry or both --game and --player are required")
		}
		payload := fmt.Sprintf(`{"score_entry_id":%q,"game_id":%q,"user_id":%q,"new_score":%d}`, entryID, gameID, playerID, newScore)
		return performPostRequest("/correct-score", []byte(payload))
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics", nil)
	},
}

func performGetRequest(endpoint string, query url.Values) error {
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Printf("Making request to %s\n", target)

	resp, err := http.Get(target)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, payload []byte) error {
	target := host + endpoint
	fmt.Printf("Making request to %s\n", target)

	resp, err := http.Post(target, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
