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

type Server struct {
	Store          ledger.LedgerStore
	Views          views.Views
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
