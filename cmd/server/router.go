package main

import (
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/health-assistant/internal/handler"
	"github.com/angeloszaimis/health-assistant/internal/healthcheck"
	"github.com/angeloszaimis/health-assistant/internal/metrics"
)

func setupRouter(log *slog.Logger, chatHandler *handler.ChatHandler, metricsCollector *metrics.Collector, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/chat", chatHandler)
	mux.HandleFunc(healthcheck.Path, handler.Health)
	mux.HandleFunc("/metrics", metricsCollector.Handler())

	return handler.Logging(log, handler.CORS(allowedOrigins, mux))
}
