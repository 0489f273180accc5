package views

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/riichi-ledger/internal/ledger"
	"github.com/mauv0809/riichi-ledger/internal/metrics"
	"github.com/mauv0809/riichi-ledger/internal/stats"
)

var _ Views = (*Cache)(nil)

// New creates a view cache over the given ledger store. A non-positive
// pageSize falls back to the default session page size.
func New(store ledger.LedgerStore, metrics metrics.Metrics, pageSize int) *Cache {
	if pageSize <= 0 {
		pageSize = stats.DefaultPageSize
	}
	return &Cache{
		store:    store,
		metrics:  metrics,
		pageSize: pageSize,
		years:    make(map[int]*snapshotState),
		memo:     make(map[viewKey]any),
	}
}

// snapshot returns the cached snapshot for a year, loading it on first use.
// Only one load runs per year; latecomers block on the in-flight fetch.
func (c *Cache) snapshot(year int) (*stats.Snapshot, error) {
	c.mu.Lock()
	st, ok := c.years[year]
	if ok {
		c.mu.Unlock()
		<-st.done
		// Corrections swap the snapshot pointer, so take it under the lock.
		c.mu.Lock()
		snap, loadErr := st.snap, st.err
		c.mu.Unlock()
		return snap, loadErr
	}
	st = &snapshotState{status: statusLoading, done: make(chan struct{})}
	c.years[year] = st
	c.mu.Unlock()

	snap, err := c.loadSnapshot(year)

	c.mu.Lock()
	st.snap, st.err = snap, err
	if err != nil {
		st.status = statusFailed
		// Drop the failed entry so the next request retries the fetch.
		delete(c.years, year)
	} else {
		st.status = statusLoaded
	}
	c.mu.Unlock()
	close(st.done)

	return snap, err
}

func (c *Cache) loadSnapshot(year int) (*stats.Snapshot, error) {
	games, err := c.store.ListGamesByYear(year)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for %d: %w", year, err)
	}

	gameIDs := make([]string, len(games))
	roomIDSet := make(map[string]struct{})
	for i, g := range games {
		gameIDs[i] = g.ID
		roomIDSet[g.RoomID] = struct{}{}
	}

	scores, err := c.store.ListScores(gameIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	markers, err := c.store.ListStreakMarkers(gameIDs, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list streak markers: %w", err)
	}
	hands, err := c.store.ListSpecialHands(gameIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list special hands: %w", err)
	}

	roomIDs := make([]string, 0, len(roomIDSet))
	for id := range roomIDSet {
		roomIDs = append(roomIDs, id)
	}
	roomList, err := c.store.ListRooms(roomIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	rooms := make(map[string]ledger.Room, len(roomList))
	for _, r := range roomList {
		rooms[r.ID] = r
	}

	c.metrics.IncSnapshotLoads()
	log.Info("Loaded ledger snapshot", "year", year, "games", len(games), "scores", len(scores))

	return &stats.Snapshot{
		Games:   games,
		Scores:  scores,
		Markers: markers,
		Hands:   hands,
		Rooms:   rooms,
	}, nil
}

// Ranking builds the cumulative leaderboard for the requesting user's cohort.
// It is computed per request: the cohort depends on the user, so there is no
// (year, tableSize) key to memoize under.
func (c *Cache) Ranking(year, tableSize int, userID string) ([]stats.RankedPlayer, error) {
	snap, err := c.snapshot(year)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	part := snap.Partition(tableSize)

	cohort := stats.ResolveCohort(userID, part.Scores)
	entries := stats.FilterByCohort(part.Scores, cohort)

	relevant := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		relevant[e.GameID] = struct{}{}
	}
	var ordered []string
	for _, id := range part.GameIDs() {
		if _, ok := relevant[id]; ok {
			ordered = append(ordered, id)
		}
	}

	ranking := stats.BuildRanking(entries, ordered)
	c.metrics.ObserveAggregationDuration(time.Since(start).Seconds())
	return ranking, nil
}

// Summary builds (and memoizes) the per-player rate statistics for one
// year × table-size partition.
func (c *Cache) Summary(year, tableSize int) ([]stats.PlayerStats, error) {
	key := viewKey{Year: year, TableSize: tableSize, View: viewSummary}
	if cached, ok := c.lookup(key); ok {
		return cached.([]stats.PlayerStats), nil
	}
	snap, err := c.snapshot(year)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	part := snap.Partition(tableSize)
	summary := stats.BuildSummary(part.Games, part.Scores, part.Markers)
	c.metrics.ObserveAggregationDuration(time.Since(start).Seconds())
	c.memoize(key, summary)
	return summary, nil
}

// Sessions groups the partition's games per room and returns the page at the
// given cursor. Grouping is memoized; paging is a pure slice over it, so the
// same cursor always yields the same page.
func (c *Cache) Sessions(year, tableSize, cursor int) (stats.SessionPage, error) {
	key := viewKey{Year: year, TableSize: tableSize, View: viewSessions}
	if cached, ok := c.lookup(key); ok {
		return stats.PageSessions(cached.([]stats.Session), cursor, c.pageSize), nil
	}
	snap, err := c.snapshot(year)
	if err != nil {
		return stats.SessionPage{}, err
	}
	start := time.Now()
	part := snap.Partition(tableSize)
	sessions := stats.GroupSessions(part.Games, part.Rooms)
	c.metrics.ObserveAggregationDuration(time.Since(start).Seconds())
	c.memoize(key, sessions)
	return stats.PageSessions(sessions, cursor, c.pageSize), nil
}

// Achievements builds (and memoizes) the badge counters for one partition.
func (c *Cache) Achievements(year, tableSize int) ([]stats.AchievementRecord, error) {
	key := viewKey{Year: year, TableSize: tableSize, View: viewAchievements}
	if cached, ok := c.lookup(key); ok {
		return cached.([]stats.AchievementRecord), nil
	}
	snap, err := c.snapshot(year)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	part := snap.Partition(tableSize)
	records := stats.BuildAchievements(part.Games, part.Scores, part.Markers, part.Hands)
	c.metrics.ObserveAggregationDuration(time.Since(start).Seconds())
	c.memoize(key, records)
	return records, nil
}

func (c *Cache) lookup(key viewKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cached, ok := c.memo[key]
	return cached, ok
}

func (c *Cache) memoize(key viewKey, value any) {
	c.mu.Lock()
	c.memo[key] = value
	c.mu.Unlock()
}

// Invalidate drops the year's snapshot and every derived view built from it.
// Views for other years stay cached.
func (c *Cache) Invalidate(year int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.years[year]; ok && st.status == statusLoading {
		// An in-flight load will publish its result under the old entry;
		// dropping the map slot is enough to force a fresh fetch next time.
		log.Debug("Invalidating year with load in flight", "year", year)
	}
	delete(c.years, year)
	for key := range c.memo {
		if key.Year == year {
			delete(c.memo, key)
		}
	}
}

// InvalidateAll drops every cached snapshot and derived view. Used after
// destructive store operations that can touch any year.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.years = make(map[int]*snapshotState)
	c.memo = make(map[viewKey]any)
}

// ApplyCorrection patches a score optimistically: first in every loaded
// snapshot holding the entry, then in the store. The store write tries the
// primary key and falls back to (gameID, userID) exactly once. A failed
// persist is logged and reported, never rolled back.
//
// Snapshots are immutable once handed to a builder, so the patch is
// copy-on-write: a corrected copy replaces the cached pointer under the
// lock while in-flight reads keep the snapshot they already took.
func (c *Cache) ApplyCorrection(scoreEntryID, gameID, userID string, newScore int) CorrectionResult {
	var result CorrectionResult

	c.mu.Lock()
	for year, st := range c.years {
		if st.status != statusLoaded || st.snap == nil {
			continue
		}
		for i, e := range st.snap.Scores {
			if e.ID == scoreEntryID || (e.GameID == gameID && e.UserID == userID) {
				patched := *st.snap
				patched.Scores = make([]ledger.ScoreEntry, len(st.snap.Scores))
				copy(patched.Scores, st.snap.Scores)
				patched.Scores[i].Score = newScore
				st.snap = &patched
				result.Patched = true
				// Derived views were built from the stale score.
				for key := range c.memo {
					if key.Year == year {
						delete(c.memo, key)
					}
				}
				break
			}
		}
	}
	c.mu.Unlock()

	err := c.store.UpdateScore(scoreEntryID, newScore)
	if errors.Is(err, ledger.ErrNotFound) {
		log.Warn("Score entry not found by id, retrying by game and player", "scoreEntryID", scoreEntryID, "gameID", gameID, "userID", userID)
		err = c.store.UpdateScoreByGamePlayer(gameID, userID, newScore)
	}
	if err != nil {
		c.metrics.IncCorrectionsFailed()
		log.Error("Failed to persist score correction", "error", err, "scoreEntryID", scoreEntryID, "gameID", gameID, "userID", userID)
		result.Err = err.Error()
		return result
	}

	c.metrics.IncCorrectionsApplied()
	result.Persisted = true
	return result
}
