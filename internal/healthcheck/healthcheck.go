package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/angeloszaimis/health-assistant/internal/endpoint"
)

const Path = "/health"

var ErrUnhealthy = errors.New("backend unhealthy")

var defaultClient = &http.Client{
	Timeout: 5 * time.Second,
}

// Probe sends one GET to the endpoint's /health and records the outcome on
// the endpoint. A nil client uses a 5 second timeout.
func Probe(ctx context.Context, client *http.Client, ep *endpoint.Endpoint) error {
	if client == nil {
		client = defaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL(Path), nil)
	if err != nil {
		return err
	}

	res, err := client.Do(req)
	if err != nil {
		ep.SetHealthy(false)
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	healthy := res.StatusCode == http.StatusOK
	ep.SetHealthy(healthy)

	if !healthy {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, res.StatusCode)
	}
	return nil
}

// HealthCheck probes the endpoint every interval until ctx is cancelled,
// logging when it goes down or comes back.
func HealthCheck(
	ctx context.Context,
	ep *endpoint.Endpoint,
	interval time.Duration,
	logger *slog.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Health check stopped",
				slog.String("server", ep.BaseURL().String()))
			return

		case <-ticker.C:
			wasHealthy := ep.IsHealthy()
			err := Probe(ctx, nil, ep)
			if ctx.Err() != nil {
				continue
			}

			healthy := err == nil
			if healthy == wasHealthy {
				continue
			}

			if healthy {
				logger.Info("Server is back up",
					slog.String("server", ep.BaseURL().String()))
			} else {
				logger.Warn("Server is down",
					slog.String("server", ep.BaseURL().String()),
					slog.Any("err", err))
			}
		}
	}
}
