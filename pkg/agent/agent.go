// Package agent is the client boundary to the externally hosted agent service that
// performs rule extraction, rule mapping, gap analysis, and version comparison.
// Agent replies arrive either as JSON or as a JSON-encoded string; Response models
// both and Decode unwraps them explicitly.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const maxErrorBody = 512

// Sender delivers a message to a hosted agent. *Client implements it.
type Sender interface {
	Send(ctx context.Context, agentID, sessionID, message string) (Response, error)
}

// Client sends messages to agents hosted by the agent service.
type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	userID   string
	logger   *slog.Logger
}

type chatRequest struct {
	UserID    string `json:"user_id"`
	AgentID   string `json:"agent_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// New creates a Client from the given configuration.
func New(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: cfg.TimeoutDuration()},
		endpoint: cfg.Endpoint(),
		apiKey:   cfg.APIKey,
		userID:   cfg.UserID,
		logger:   logger.With("system", "agent"),
	}
}

// Send delivers message to the agent identified by agentID within sessionID
// and classifies the reply.
func (c *Client) Send(ctx context.Context, agentID, sessionID, message string) (Response, error) {
	payload, err := json.Marshal(chatRequest{
		UserID:    c.userID,
		AgentID:   agentID,
		SessionID: sessionID,
		Message:   message,
	})
	if err != nil {
		return Response{}, fmt.Errorf("encode agent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("build agent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("agent %s: %w", agentID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("agent %s: read response: %w", agentID, err)
	}

	c.logger.InfoContext(
		ctx, "agent call complete",
		"agent_id", agentID,
		"session_id", sessionID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, fmt.Errorf(
			"%w: agent %s: status %d: %s",
			ErrRequestFailed, agentID, resp.StatusCode, truncate(body),
		)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return Response{}, fmt.Errorf("%w: agent %s", ErrEmptyResponse, agentID)
	}

	return ParseResponse(body)
}

// Call sends message through s and decodes the reply into T.
func Call[T any](ctx context.Context, s Sender, agentID, sessionID, message string) (T, error) {
	var zero T

	resp, err := s.Send(ctx, agentID, sessionID, message)
	if err != nil {
		return zero, err
	}

	result, err := Decode[T](resp)
	if err != nil {
		return zero, fmt.Errorf("agent %s: decode %s response: %w", agentID, resp.Kind(), err)
	}
	return result, nil
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
