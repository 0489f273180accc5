package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SnapshotLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riichi_snapshot_loads_total",
			Help: "The total number of ledger snapshot loads.",
		}),
		GamesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riichi_games_recorded_total",
			Help: "The total number of game rounds recorded to the ledger.",
		}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "riichi_aggregation_duration_seconds",
			Help:    "The duration of individual view aggregations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CorrectionsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riichi_score_corrections_applied_total",
			Help: "The total number of score corrections persisted successfully.",
		}),
		CorrectionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riichi_score_corrections_failed_total",
			Help: "The total number of score corrections that failed to persist.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riichi_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "riichi_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "riichi_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.SnapshotLoads,
		s.GamesRecorded,
		s.AggregationDuration,
		s.CorrectionsApplied,
		s.CorrectionsFailed,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSnapshotLoads() {
	s.SnapshotLoads.Inc()
}

func (s *Service) IncGamesRecorded() {
	s.GamesRecorded.Inc()
}

func (s *Service) ObserveAggregationDuration(duration float64) {
	s.AggregationDuration.Observe(duration)
}

func (s *Service) IncCorrectionsApplied() {
	s.CorrectionsApplied.Inc()
}

func (s *Service) IncCorrectionsFailed() {
	s.CorrectionsFailed.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
