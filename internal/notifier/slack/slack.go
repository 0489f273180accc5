package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/riichi-ledger/internal/ledger"
	"github.com/mauv0809/riichi-ledger/internal/metrics"
	"github.com/mauv0809/riichi-ledger/internal/notifier"
	"github.com/mauv0809/riichi-ledger/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

func (s *Notifier) SendGameResult(game ledger.Game, entries []ledger.ScoreEntry, dryRun bool) error {
	return s.sendMessage(s.formatGameResult(game, entries), dryRun)
}

func (s *Notifier) SendRanking(players []stats.RankedPlayer, dryRun bool) error {
	return s.sendMessage(s.formatRanking(players), dryRun)
}

func (s *Notifier) SendAchievements(records []stats.AchievementRecord, dryRun bool) error {
	return s.sendMessage(s.formatAchievements(records), dryRun)
}

// formatGameResult creates the Slack message for a freshly recorded round using Block Kit.
func (s *Notifier) formatGameResult(game ledger.Game, entries []ledger.ScoreEntry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🀄 Round finished! 🀄", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	timeStr := time.Unix(game.CreatedAt, 0).Format("Monday 02 Jan, 15:04")
	detailsText := fmt.Sprintf("Round %d at %s", game.RoundNumber, timeStr)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, false, false), nil, nil))

	ranked := make([]ledger.ScoreEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	var resultsFields []*slack.TextBlockObject
	for i, e := range ranked {
		resultsFields = append(resultsFields, slack.NewTextBlockObject("plain_text", fmt.Sprintf("%d. %s: %+d", i+1, e.DisplayName, e.Score), true, false))
	}
	if len(resultsFields) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Scores:", true, false), resultsFields, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatRanking creates a Slack message to display the cumulative leaderboard.
func (s *Notifier) formatRanking(players []stats.RankedPlayer) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No scores recorded yet. Go play some rounds!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, p := range players {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> Total: %+d over %d games",
			rank,
			medal,
			p.DisplayName,
			p.TotalScore,
			len(p.History),
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatAchievements creates a Slack message listing badge counters per player.
func (s *Notifier) formatAchievements(records []stats.AchievementRecord) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎖️ Achievements 🎖️", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(records) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Nothing earned yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, r := range records {
		line := fmt.Sprintf("%s\n> Yakuman: %d | Tobashi: %d | Flow: %d | Fugou: %d | Antei: %d | Wipeout: %d",
			r.DisplayName,
			r.YakumanCount,
			r.TobashiCount,
			r.FlowCount,
			r.FugouCount,
			r.AnteiCount,
			r.WipeoutCount,
		)
		if r.AishouName != "" {
			line += fmt.Sprintf("\n> Nemesis: %s", r.AishouName)
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", line, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
