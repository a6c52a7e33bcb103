// Package api implements the remote service client. Every response
// travels in a {code, message, data} envelope: HTTP 200 with code 0 is
// success, 200 with a nonzero code is an application error, and a 401 at
// any point revokes the local session.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cairnapp/cairn/internal/session"
	"github.com/cairnapp/cairn/pkg/types"
)

// DefaultTimeout bounds every request; the queue and cache layers carry
// no timeouts of their own.
const DefaultTimeout = 10 * time.Second

// Error is a remote rejection carrying an HTTP-like status and message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote: %s (%d)", e.Message, e.Status)
	}
	return fmt.Sprintf("remote: HTTP %d", e.Status)
}

// Unwrap lets errors.Is recognize a revoked session through the
// wrapped sentinel.
func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return types.ErrUnauthorized
	}
	return nil
}

// envelope is the wire format of every response body.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the remote habit service.
type Client struct {
	baseURL string
	http    *http.Client
	sess    session.Session
	log     *zap.Logger
}

// New creates a client for the service at baseURL. A nil logger is
// replaced with a no-op logger.
func New(baseURL string, sess session.Session, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		sess:    sess,
		log:     log,
	}
}

// request performs one call and returns the decoded data payload.
func (c *Client) request(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.sess.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	return c.decode(resp, method, path)
}

func (c *Client) decode(resp *http.Response, method, path string) (json.RawMessage, error) {
	switch {
	case resp.StatusCode == http.StatusOK:
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
		if env.Code != 0 {
			return nil, &Error{Status: resp.StatusCode, Message: env.Message}
		}
		return env.Data, nil

	case resp.StatusCode == http.StatusUnauthorized:
		// Token expired or revoked: end the session. The queue treats
		// this as fatal and stops retrying.
		c.log.Warn("session revoked by remote", zap.String("path", path))
		c.sess.Logout()
		return nil, &Error{Status: http.StatusUnauthorized, Message: "session expired"}

	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &Error{Status: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.request(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, path, payload)
}

func (c *Client) put(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPut, path, payload)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.request(ctx, http.MethodDelete, path, nil)
	return err
}

// Upload posts the file at filePath as multipart form data and returns
// the URL the remote stored it under.
func (c *Client) Upload(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token := c.sess.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := c.decode(resp, http.MethodPost, "/upload")
	if err != nil {
		return "", err
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return out.URL, nil
}
