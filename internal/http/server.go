package http

import (
	"net/http"

	"github.com/mauv0809/riichi-ledger/internal/config"
	"github.com/mauv0809/riichi-ledger/internal/ledger"
	"github.com/mauv0809/riichi-ledger/internal/metrics"
	"github.com/mauv0809/riichi-ledger/internal/notifier"
	"github.com/mauv0809/riichi-ledger/internal/pubsub"
	"github.com/mauv0809/riichi-ledger/internal/views"
)

func NewServer(store ledger.LedgerStore, viewCache views.Views, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Views:          viewCache,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/ranking", Chain(s.RankingHandler(), paramsMiddleware))
	s.Router.Handle("/summary", Chain(s.SummaryHandler(), paramsMiddleware))
	s.Router.Handle("/sessions", Chain(s.SessionsHandler(), paramsMiddleware))
	s.Router.Handle("/achievements", Chain(s.AchievementsHandler(), paramsMiddleware))
	s.Router.Handle("/record-game", Chain(s.RecordGameHandler(), paramsMiddleware))
	s.Router.Handle("/correct-score", Chain(s.CorrectScoreHandler(), paramsMiddleware))
	s.Router.Handle("/rooms", Chain(s.UpsertRoomHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
