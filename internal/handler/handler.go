package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/angeloszaimis/health-assistant/internal/api"
	"github.com/angeloszaimis/health-assistant/internal/metrics"
)

const maxBodyBytes = 64 << 10

// MessageHandler is the conversation engine behind /chat.
type MessageHandler interface {
	HandleMessage(ctx context.Context, sessionID, input, lang, action string) (api.ChatResponse, error)
}

type ChatHandler struct {
	logger           *slog.Logger
	engine           MessageHandler
	metricsCollector *metrics.Collector
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func NewChatHandler(logger *slog.Logger, engine MessageHandler, collector *metrics.Collector) *ChatHandler {
	return &ChatHandler{
		logger:           logger,
		engine:           engine,
		metricsCollector: collector,
	}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
	defer func() {
		h.metricsCollector.Emit(metrics.MetricEvent{
			Type:       metrics.EventResponseCompleted,
			Duration:   time.Since(start),
			StatusCode: wrapped.statusCode,
		})
	}()

	if r.Method != http.MethodPost {
		wrapped.Header().Set("Allow", http.MethodPost)
		writeError(wrapped, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req api.ChatRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Rejected malformed chat request",
			slog.String("from", extractClientIP(r)),
			slog.Any("err", err))
		writeError(wrapped, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Normalize()

	h.metricsCollector.Emit(metrics.MetricEvent{
		Type: metrics.EventMessageReceived,
		Lang: req.Lang,
	})

	action := ""
	if req.Action != nil {
		action = *req.Action
	}

	resp, err := h.engine.HandleMessage(r.Context(), req.Session(), req.Message, req.Lang, action)
	if err != nil {
		h.logger.Error("Failed to handle chat message",
			slog.String("session", req.Session()),
			slog.String("lang", req.Lang),
			slog.Any("err", err))
		writeError(wrapped, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(wrapped, http.StatusOK, resp)
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorResponse{Error: msg})
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}
