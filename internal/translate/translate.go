// Package translate moves text between the user's language and English so
// the AI fallback only ever sees English.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"

// Translator never fails; on error the input text is returned unchanged.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) string
}

type noop struct{}

// Noop returns a Translator that hands text back untouched.
func Noop() Translator { return noop{} }

func (noop) Translate(_ context.Context, text, _, _ string) string { return text }

// Google talks to the free Google Translate web endpoint.
type Google struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

func NewGoogle(endpoint string, timeout time.Duration, logger *slog.Logger) *Google {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Google{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (g *Google) Translate(ctx context.Context, text, source, target string) string {
	if strings.TrimSpace(text) == "" || source == target {
		return text
	}

	translated, err := g.translate(ctx, text, source, target)
	if err != nil {
		g.logger.Warn("Translation failed, using original text",
			slog.String("source", source),
			slog.String("target", target),
			slog.Any("err", err))
		return text
	}
	return translated
}

func (g *Google) translate(ctx context.Context, text, source, target string) (string, error) {
	if source == "" {
		source = "auto"
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	res, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate: unexpected status %d", res.StatusCode)
	}

	var payload []any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("translate: decode response: %w", err)
	}

	return joinSegments(payload)
}

// joinSegments extracts the translation from [[["seg", "orig", ...], ...], ...].
func joinSegments(payload []any) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("translate: empty response")
	}
	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("translate: unexpected response shape")
	}

	var sb strings.Builder
	for _, s := range segments {
		parts, ok := s.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if str, ok := parts[0].(string); ok {
			sb.WriteString(str)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("translate: no translated text")
	}
	return sb.String(), nil
}
