package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angeloszaimis/health-assistant/config"
	"github.com/angeloszaimis/health-assistant/internal/ai"
	"github.com/angeloszaimis/health-assistant/internal/assistant"
	"github.com/angeloszaimis/health-assistant/internal/environment"
	"github.com/angeloszaimis/health-assistant/internal/handler"
	"github.com/angeloszaimis/health-assistant/internal/httpserver"
	"github.com/angeloszaimis/health-assistant/internal/intent"
	"github.com/angeloszaimis/health-assistant/internal/knowledgebase"
	"github.com/angeloszaimis/health-assistant/internal/metrics"
	"github.com/angeloszaimis/health-assistant/internal/session"
	"github.com/angeloszaimis/health-assistant/internal/translate"
	"github.com/angeloszaimis/health-assistant/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	collector := metrics.NewCollector(cfg.Metrics.BufferSize, log)
	collector.Start(ctx)

	engine, err := newEngine(cfg, log, collector)
	if err != nil {
		log.Error("Failed to initialize assistant", slog.Any("err", err))
		os.Exit(1)
	}

	chatHandler := handler.NewChatHandler(log, engine, collector)

	srv, err := httpserver.New(cfg.Server.Address,
		setupRouter(log, chatHandler, collector, cfg.CORS.AllowedOrigins),
		httpserver.WithWriteTimeout(writeTimeout(cfg)))
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("Starting health assistant",
		slog.String("addr", srv.Addr()),
		slog.String("client_base_url", environment.APIBaseURL().String()))

	if err := srv.Run(ctx); err != nil {
		log.Error("Server stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("Shut down gracefully")
}

const responseMargin = 5 * time.Second

// writeTimeout covers the slowest /chat answer: a translation each way
// around the AI call.
func writeTimeout(cfg *config.Config) time.Duration {
	d := config.Duration(cfg.AI.Timeout) + responseMargin
	if cfg.Translation.Enabled {
		d += 2 * config.Duration(cfg.Translation.Timeout)
	}
	return d
}

func newEngine(cfg *config.Config, log *slog.Logger, collector *metrics.Collector) (*assistant.Engine, error) {
	kb, err := knowledgebase.NewStore(cfg.KnowledgeBase.Dir)
	if err != nil {
		return nil, err
	}

	// Fail at startup rather than on the first message.
	if _, err := kb.Load(knowledgebase.DefaultLang); err != nil {
		return nil, err
	}

	asker := ai.NewOpenAIAsker(ai.Config{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		Timeout:     config.Duration(cfg.AI.Timeout),
	}, log)
	if cfg.AI.APIKey == "" {
		log.Warn("No AI API key configured, unmatched questions get a canned reply")
	}

	return assistant.NewEngine(
		log,
		kb,
		intent.NewMatcher(cfg.KnowledgeBase.MatchThreshold),
		session.NewStore(),
		asker,
		newTranslator(cfg, log),
		collector,
	), nil
}

func newTranslator(cfg *config.Config, log *slog.Logger) translate.Translator {
	if !cfg.Translation.Enabled {
		return translate.Noop()
	}
	return translate.NewGoogle(cfg.Translation.Endpoint, config.Duration(cfg.Translation.Timeout), log)
}
