package metrics

import (
	"net/http"

	"github.com/Brawl345/gatekeeper/gatekeeper"
	"github.com/Brawl345/gatekeeper/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var log = logger.New("metrics")

var (
	// JoinRequests counts evaluated join requests by decision.
	JoinRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatekeeper_join_requests_total",
			Help: "Total number of evaluated join requests",
		},
		[]string{"outcome", "reason"},
	)

	// TelegramErrors counts failed Telegram API calls.
	TelegramErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatekeeper_telegram_errors_total",
			Help: "Total number of failed Telegram API calls",
		},
		[]string{"operation"}, // operation: approve, decline, notify, welcome
	)

	// StorageErrors counts failed settings/stats operations.
	StorageErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatekeeper_storage_errors_total",
			Help: "Total number of failed storage operations",
		},
		[]string{"operation"}, // operation: get_settings, set_settings, record, snapshot
	)

	// SuppressedNotifications counts admin notifications held back by the flood guard.
	SuppressedNotifications = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gatekeeper_suppressed_notifications_total",
			Help: "Total number of admin notifications suppressed by the flood guard",
		},
	)
)

func init() {
	prometheus.MustRegister(JoinRequests)
	prometheus.MustRegister(TelegramErrors)
	prometheus.MustRegister(StorageErrors)
	prometheus.MustRegister(SuppressedNotifications)
}

func CountDecision(decision gatekeeper.Decision) {
	JoinRequests.WithLabelValues(string(decision.Outcome), string(decision.Reason)).Inc()
}

// Serve exposes /metrics on addr in a background goroutine and returns the
// server so the caller can shut it down.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Metrics endpoint listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Metrics server failed")
		}
	}()

	return srv
}
