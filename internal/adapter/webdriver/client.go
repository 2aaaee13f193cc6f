// Package webdriver drives a browser through a WebDriver remote end such as
// chromedriver, speaking the W3C wire protocol over JSON/HTTP.
package webdriver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/leastlogic/fwlookup/internal/domain"
)

// elementKey is the W3C web element identifier used in wire payloads.
const elementKey = "element-6066-11e4-a52e-4f735466cecf"

const defaultTimeout = 30 * time.Second

// Client is a minimal W3C WebDriver wire client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client for the remote end at baseURL, e.g.
// http://localhost:9515.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		log: log,
	}
}

// Error is a WebDriver wire-protocol error that has no dedicated sentinel.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("webdriver: %s: %s", e.Code, e.Message)
}

// envelope is the {"value": ...} wrapper every wire response carries.
type envelope struct {
	Value json.RawMessage `json:"value"`
}

type wireError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

// do issues one wire-protocol request. A non-nil result receives the decoded
// "value" member of the response.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if method == http.MethodPost {
		// The remote end rejects POSTs without a JSON body.
		if body == nil {
			body = struct{}{}
		}
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	c.log.Trace().Str("method", method).Str("path", path).Msg("webdriver request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decoding response for %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		var werr wireError
		if err := json.Unmarshal(env.Value, &werr); err != nil {
			return &Error{Code: resp.Status, Message: string(raw)}
		}
		return mapWireError(werr)
	}

	if result != nil {
		if err := json.Unmarshal(env.Value, result); err != nil {
			return fmt.Errorf("decoding value for %s: %w", path, err)
		}
	}

	return nil
}

// mapWireError converts protocol error codes to domain sentinels. A closed
// window or a torn-down session both mean the operator ended the run.
func mapWireError(werr wireError) error {
	switch werr.Code {
	case "no such window", "invalid session id":
		return fmt.Errorf("%w: %s", domain.ErrSessionGone, werr.Message)
	case "no such element", "stale element reference":
		return fmt.Errorf("%w: %s", domain.ErrNoSuchElement, werr.Message)
	default:
		return &Error{Code: werr.Code, Message: werr.Message}
	}
}

// Status reports whether the remote end is ready for a new session.
func (c *Client) Status(ctx context.Context) (bool, error) {
	var status struct {
		Ready bool `json:"ready"`
	}
	if err := c.do(ctx, http.MethodGet, "/status", nil, &status); err != nil {
		return false, err
	}

	return status.Ready, nil
}

// NewSession creates a remote session with the given capabilities.
func (c *Client) NewSession(ctx context.Context, capabilities map[string]any) (*Session, error) {
	var created struct {
		SessionID string `json:"sessionId"`
	}
	body := map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": capabilities,
		},
	}
	if err := c.do(ctx, http.MethodPost, "/session", body, &created); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{
		client: c,
		id:     created.SessionID,
		log:    c.log.With().Str("session_id", created.SessionID).Logger(),
	}, nil
}
