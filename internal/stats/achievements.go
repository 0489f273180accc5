package stats

import (
	"sort"

	"github.com/mauv0809/riichi-ledger/internal/ledger"
)

const (
	// flowRunTarget counts non-overlapping runs of consecutive 1st places.
	flowRunTarget = 3
	// anteiRunTarget counts non-overlapping runs of consecutive positive scores.
	anteiRunTarget = 5
	// fugouThreshold is the raw score a single game must reach.
	fugouThreshold = 100
	// aishouMinGames is the minimum co-games (with the subject in 1st place)
	// before an opponent qualifies as a nemesis.
	aishouMinGames = 10
)

type aishouTally struct {
	games int
	last  int
}

type achievementAcc struct {
	rec           AchievementRecord
	flowRun       int
	anteiRun      int
	tallies       map[string]*aishouTally
	opponentOrder []string
}

// BuildAchievements runs a single forward pass over a partition's games in
// chronological order and derives every streak counter plus the nemesis
// inference. Games without score rows are skipped; the wipeout check works
// off the size of the eliminated set rather than trusting that eliminated
// and eliminator markers are mutually exclusive.
func BuildAchievements(games []ledger.Game, entries []ledger.ScoreEntry, markers []ledger.StreakMarker, hands []ledger.SpecialHandRecord) []AchievementRecord {
	byGame := scoresByGame(entries)
	eliminated, eliminator := markerSets(markers)

	accs := make(map[string]*achievementAcc)
	names := make(map[string]string)
	avatars := make(map[string]string)
	var order []string

	ensure := func(userID, name, avatar string) *achievementAcc {
		acc, ok := accs[userID]
		if !ok {
			acc = &achievementAcc{
				rec:     AchievementRecord{UserID: userID},
				tallies: make(map[string]*aishouTally),
			}
			accs[userID] = acc
			order = append(order, userID)
		}
		if name != "" {
			names[userID] = name
		}
		if avatar != "" {
			avatars[userID] = avatar
		}
		return acc
	}

	for _, g := range games {
		gameEntries := byGame[g.ID]
		if len(gameEntries) == 0 {
			continue
		}
		ranked := rankEntries(gameEntries)
		tableSize := len(ranked)
		lastUserID := ranked[tableSize-1].UserID
		eliminatedSet := eliminated[g.ID]
		wipeout := len(eliminatedSet) == tableSize-1

		for i, e := range ranked {
			rank := i + 1
			acc := ensure(e.UserID, e.DisplayName, e.AvatarURL)

			if eliminator[g.ID][e.UserID] {
				acc.rec.TobashiCount++
			}
			if e.Score >= fugouThreshold {
				acc.rec.FugouCount++
			}
			if rank == 1 {
				acc.flowRun++
				if acc.flowRun == flowRunTarget {
					acc.rec.FlowCount++
					acc.flowRun = 0
				}
			} else {
				acc.flowRun = 0
			}
			if e.Score > 0 {
				acc.anteiRun++
				if acc.anteiRun == anteiRunTarget {
					acc.rec.AnteiCount++
					acc.anteiRun = 0
				}
			} else {
				acc.anteiRun = 0
			}
			if wipeout && !eliminatedSet[e.UserID] {
				acc.rec.WipeoutCount++
			}
			if rank == 1 {
				// Tally opponents in entry order so ties resolve first-seen.
				for _, opp := range gameEntries {
					if opp.UserID == e.UserID {
						continue
					}
					tally, ok := acc.tallies[opp.UserID]
					if !ok {
						tally = &aishouTally{}
						acc.tallies[opp.UserID] = tally
						acc.opponentOrder = append(acc.opponentOrder, opp.UserID)
					}
					tally.games++
					if opp.UserID == lastUserID {
						tally.last++
					}
				}
			}
		}
	}

	// Yakuman counts are not per-game capped; every record counts.
	for _, h := range hands {
		acc := ensure(h.UserID, h.DisplayName, h.AvatarURL)
		acc.rec.YakumanCount++
	}

	var result []AchievementRecord
	for _, userID := range order {
		acc := accs[userID]

		bestRate := -1.0
		for _, oppID := range acc.opponentOrder {
			tally := acc.tallies[oppID]
			if tally.games < aishouMinGames {
				continue
			}
			rate := float64(tally.last) / float64(tally.games)
			if rate > bestRate {
				bestRate = rate
				acc.rec.AishouName = names[oppID]
			}
		}

		rec := acc.rec
		rec.DisplayName = names[userID]
		rec.AvatarURL = avatars[userID]
		if countSum(rec) == 0 && rec.AishouName == "" {
			continue
		}
		result = append(result, rec)
	}

	sort.SliceStable(result, func(i, j int) bool { return countSum(result[i]) > countSum(result[j]) })
	return result
}

// countSum adds the six count fields. AishouName is not a count and is
// excluded.
func countSum(rec AchievementRecord) int {
	return rec.YakumanCount + rec.TobashiCount + rec.FlowCount + rec.FugouCount + rec.AnteiCount + rec.WipeoutCount
}
