// Package backend is the REST client for the remote catalog and ticket
// service.  It owns the wire formats: duck-typed reference fields are
// normalized into model structs here, transport failures are collapsed
// into a single error category, and every request carries the JSON
// content type, the Vietnamese Accept-Language and, when a session token
// is known, a bearer Authorization header.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TokenSource supplies the bearer token attached to upstream requests.
// Returning an empty string sends the request unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

// StaticToken is a TokenSource around a fixed string, used in tests and
// for service accounts.
type StaticToken string

// Token returns the wrapped token.
func (s StaticToken) Token(context.Context) string { return string(s) }

// Client calls the remote booking backend.  Construct it with New; the
// zero value is not usable.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
}

// New returns a Client for the given base URL.  tokens may be nil when
// no authenticated endpoints will be called.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		base:   baseURL,
		http:   &http.Client{Timeout: 15 * time.Second},
		tokens: tokens,
	}
}

// envelope is the common {success, data, error} response wrapper used by
// the verify/validate/create endpoints.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "vi")
	if c.tokens != nil {
		if tok := c.tokens.Token(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode >= 400 {
		// Prefer the backend's own message when the body is well formed.
		var env envelope
		if jsonErr := json.Unmarshal(raw, &env); jsonErr == nil {
			msg := env.Error
			if msg == "" {
				msg = env.Message
			}
			if msg != "" {
				return &APIError{Status: resp.StatusCode, Message: msg}
			}
		}
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}
