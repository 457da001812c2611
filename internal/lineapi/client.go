package lineapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	pushEndpoint = "https://api.line.me/v2/bot/message/push"
	httpTimeout  = 10 * time.Second
)

// ErrNotConfigured is returned when no channel access token is set.
var ErrNotConfigured = errors.New("line channel access token not configured")

// Message is a LINE Messaging API message object. Only text messages are
// sent from this service, but the shape is kept open for the client-built
// payloads the broadcast endpoint relays.
type Message struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// TextMessage builds a plain text message.
func TextMessage(text string) Message {
	return Message{Type: "text", Text: text}
}

// Client pushes messages to LINE groups through the Messaging API.
type Client struct {
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a LINE Messaging API client. An empty token produces a
// client whose pushes fail with ErrNotConfigured.
func NewClient(channelAccessToken string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		token:      channelAccessToken,
		httpClient: &http.Client{Timeout: httpTimeout},
		logger:     logger,
	}
}

// Configured reports whether a channel access token is present.
func (c *Client) Configured() bool { return c.token != "" }

type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

type apiError struct {
	Message string `json:"message"`
}

// Push sends messages to the given group or user id. The upstream error
// message is surfaced so operators see what LINE rejected.
func (c *Client) Push(ctx context.Context, to string, messages []Message) error {
	if c.token == "" {
		return ErrNotConfigured
	}
	if to == "" {
		return errors.New("push target is required")
	}
	if len(messages) == 0 {
		return errors.New("at least one message is required")
	}

	body, err := json.Marshal(pushRequest{To: to, Messages: messages})
	if err != nil {
		return fmt.Errorf("marshal push request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pushEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("line push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("line push failed (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("line push failed (%d)", resp.StatusCode)
	}
	c.logger.Debug("line push delivered", zap.String("to", to), zap.Int("messages", len(messages)))
	return nil
}
