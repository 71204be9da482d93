// Package gateway is the HTTP client for the document gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const maxResponseBytes = 8 << 20

// StatusError is a non-2xx answer from the gateway.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway: status %d", e.Code)
	}
	return fmt.Sprintf("gateway: status %d: %s", e.Code, e.Message)
}

type Client struct {
	url  string
	http *http.Client
	now  func() time.Time
}

// New targets the document URL (e.g. http://host:8080/document). A zero
// timeout means none.
func New(url string, timeout time.Duration) *Client {
	return &Client{url: url, http: &http.Client{Timeout: timeout}, now: time.Now}
}

// Fetch returns the stored document as sent by the gateway.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

// Push replaces the stored document. Every call carries a fresh request id so
// the gateway can drop a duplicate delivery.
func (c *Client) Push(ctx context.Context, doc []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(doc))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	req.Header.Set("X-Request-At", c.now().UTC().Format(time.RFC3339))

	b, err := c.do(req)
	if err != nil {
		return err
	}
	var ack struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &ack); err != nil {
		return fmt.Errorf("gateway: unreadable acknowledgement: %w", err)
	}
	if !ack.Success {
		return &StatusError{Code: http.StatusOK, Message: ack.Message}
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode}
		var body struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(b, &body) == nil {
			se.Message = body.Message
		}
		return nil, se
	}
	return b, nil
}
