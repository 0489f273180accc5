package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncSnapshotLoads()
	IncGamesRecorded()
	ObserveAggregationDuration(duration float64)
	IncCorrectionsApplied()
	IncCorrectionsFailed()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
