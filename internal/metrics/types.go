package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	SnapshotLoads       prometheus.Counter
	GamesRecorded       prometheus.Counter
	AggregationDuration prometheus.Histogram
	CorrectionsApplied  prometheus.Counter
	CorrectionsFailed   prometheus.Counter
	SlackNotifSent      prometheus.Counter
	SlackNotifFailed    prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
