package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a no-op Metrics implementation that records call counts for tests.
type Mock struct {
	mu sync.Mutex

	SnapshotLoadsCalls       int
	GamesRecordedCalls       int
	AggregationObservations  []float64
	CorrectionsAppliedCalls  int
	CorrectionsFailedCalls   int
	SlackNotifSentCalls      int
	SlackNotifFailedCalls    int
	StartupTimeObservations  []float64
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncSnapshotLoads() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SnapshotLoadsCalls++
}

func (m *Mock) IncGamesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GamesRecordedCalls++
}

func (m *Mock) ObserveAggregationDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AggregationObservations = append(m.AggregationObservations, duration)
}

func (m *Mock) IncCorrectionsApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CorrectionsAppliedCalls++
}

func (m *Mock) IncCorrectionsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CorrectionsFailedCalls++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackNotifSentCalls++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackNotifFailedCalls++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimeObservations = append(m.StartupTimeObservations, duration)
}
