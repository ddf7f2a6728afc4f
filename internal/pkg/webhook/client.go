package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/notification"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Client posts attendance events to a chat webhook.
type Client struct {
	url        string
	format     string
	httpClient *http.Client
}

var _ notification.Sink = (*Client)(nil)

// NewClient creates a webhook client. format is "text" for a plain body or
// "json" for a {"text": ...} payload.
func NewClient(url string, format string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		url:        url,
		format:     format,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type jsonPayload struct {
	Text string `json:"text"`
}

// Send performs exactly one POST. Non-2xx responses are returned as errors.
func (c *Client) Send(ctx context.Context, event notification.Event) error {
	body, contentType, err := c.encode(event.Text())
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", notification.ErrSinkRejected, resp.StatusCode, bytes.TrimSpace(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) encode(text string) ([]byte, string, error) {
	if c.format == FormatJSON {
		body, err := json.Marshal(jsonPayload{Text: text})
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode webhook payload: %w", err)
		}
		return body, "application/json", nil
	}
	return []byte(text), "text/plain; charset=utf-8", nil
}
