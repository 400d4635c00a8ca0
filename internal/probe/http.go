package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Target describes where and how a model can be probed.
type Target struct {
	Endpoint string
	APIKey   string
}

// completionRequest is the minimal test completion sent to a provider
// endpoint to verify the model answers at all.
type completionRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HTTP probes models by sending a minimal completion request to their
// provider endpoint. A model is healthy iff the provider answers with
// a 2xx status within the timeout.
type HTTP struct {
	targets map[string]Target
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTP creates an HTTP prober for the given id -> target catalog.
// The timeout is a hard bound on every probe attempt.
func NewHTTP(targets map[string]Target, timeout time.Duration, logger *slog.Logger) *HTTP {
	return &HTTP{
		targets: targets,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Probe reports whether the model answered a test completion request.
// Unknown ids, request errors, timeouts and non-2xx statuses all fold
// into false.
func (p *HTTP) Probe(ctx context.Context, modelID string) bool {
	start := time.Now()

	target, known := p.targets[modelID]
	if !known {
		p.logger.Warn("Probe requested for unknown model",
			slog.String("model", modelID))
		return false
	}

	body, err := json.Marshal(completionRequest{
		Model: modelID,
		Messages: []message{
			{Role: "user", Content: "ping"},
		},
		MaxTokens: 1,
	})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, target.Endpoint, bytes.NewReader(body))
	if err != nil {
		p.logger.Warn("Failed to build probe request",
			slog.String("model", modelID),
			slog.String("error", err.Error()))
		return false
	}

	req.Header.Set("Content-Type", "application/json")
	if target.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+target.APIKey)
	}

	res, err := p.client.Do(req)
	if err != nil {
		p.logger.Info("Probe failed",
			slog.String("model", modelID),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return false
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	healthy := res.StatusCode >= 200 && res.StatusCode < 300

	p.logger.Info("Probe completed",
		slog.String("model", modelID),
		slog.Bool("healthy", healthy),
		slog.Int("status", res.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	return healthy
}
