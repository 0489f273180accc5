package views

import (
	"sync"

	"github.com/mauv0809/riichi-ledger/internal/ledger"
	"github.com/mauv0809/riichi-ledger/internal/metrics"
	"github.com/mauv0809/riichi-ledger/internal/stats"
)

type loadStatus int

const (
	statusLoading loadStatus = iota
	statusLoaded
	statusFailed
)

type viewKind string

const (
	viewSummary      viewKind = "summary"
	viewSessions     viewKind = "sessions"
	viewAchievements viewKind = "achievements"
)

// viewKey identifies one cached derived view.
type viewKey struct {
	Year      int
	TableSize int
	View      viewKind
}

// snapshotState tracks one year's ledger snapshot. done is closed once the
// fetch finishes (successfully or not), so concurrent requests for the same
// year wait on a single load instead of issuing duplicate queries.
type snapshotState struct {
	status loadStatus
	done   chan struct{}
	snap   *stats.Snapshot
	err    error
}

// Cache orchestrates the pure stats builders over cached ledger snapshots.
// Snapshots are cached per year, derived views per (year, tableSize, view).
type Cache struct {
	store    ledger.LedgerStore
	metrics  metrics.Metrics
	pageSize int

	mu    sync.Mutex
	years map[int]*snapshotState
	memo  map[viewKey]any
}

// CorrectionResult reports the outcome of the two phases of a score
// correction. Patched refers to the in-memory snapshot, Persisted to the
// store write. A patched-but-not-persisted result is deliberately left
// standing; the caller decides how to surface Err.
type CorrectionResult struct {
	Patched   bool   `json:"patched"`
	Persisted bool   `json:"persisted"`
	Err       string `json:"error,omitempty"`
}
