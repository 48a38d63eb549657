package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/reels/pkg/logger"
	"github.com/papercomputeco/reels/pkg/sse"
)

// defaultTimeout bounds every request to the agent server.
// Agent responses can be slow when the model is thinking or calling tools.
const defaultTimeout = 5 * time.Minute

// maxErrorBody caps how much of an error response body is kept for messages.
const maxErrorBody = 2048

// Config is the explicit client configuration, passed at construction.
type Config struct {
	// Target is the agent server base URL (scheme + host + port).
	Target string

	// App is the agent app name. Empty means discover it from the server's
	// app listing via ResolveApp.
	App string

	// UserID scopes sessions on the server. Empty means a generated
	// per-process id.
	UserID string

	// Timeout overrides the default per-request timeout when non-zero.
	Timeout time.Duration
}

// Client talks to one ADK-style agent server. It is a plain sequential
// client: one request at a time, no retries, no shared state beyond the
// underlying http.Client.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// Option configures a Client created with NewClient.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. Mostly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithLogger sets the client's logger. Defaults to a nop logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the agent server described by cfg.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.UserID == "" {
		cfg.UserID = "reels-" + uuid.NewString()[:8]
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// UserID returns the user id sessions are created under, including a
// generated one.
func (c *Client) UserID() string {
	return c.cfg.UserID
}

// Session is a server-issued identifier scoping one conversation.
type Session struct {
	ID      string `json:"id"`
	AppName string `json:"appName"`
	UserID  string `json:"userId"`
}

// runRequest is the /run_sse message submission payload.
type runRequest struct {
	AppName    string  `json:"appName"`
	UserID     string  `json:"userId"`
	SessionID  string  `json:"sessionId"`
	NewMessage Content `json:"newMessage"`
	Streaming  bool    `json:"streaming"`
}

// Health checks the agent server's health endpoint. A nil return means the
// server is up.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Target+"/health", nil)
	if err != nil {
		return fmt.Errorf("creating health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("checking agent server health: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "/health"); err != nil {
		return err
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// ListApps returns the agent app names the server exposes.
func (c *Client) ListApps(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Target+"/list-apps", nil)
	if err != nil {
		return nil, fmt.Errorf("creating list-apps request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing agent apps: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "/list-apps"); err != nil {
		return nil, err
	}

	var apps []string
	if err := json.NewDecoder(resp.Body).Decode(&apps); err != nil {
		return nil, &DecodeError{Endpoint: "/list-apps", Err: err}
	}

	return apps, nil
}

// Probe confirms the server is reachable and returns its app listing.
// Any failure of either call is returned; callers treat a probe failure as
// fatal for a run.
func (c *Client) Probe(ctx context.Context) ([]string, error) {
	if err := c.Health(ctx); err != nil {
		return nil, err
	}

	return c.ListApps(ctx)
}

// ResolveApp returns the configured app name, or the first app the server
// lists when none is configured.
func (c *Client) ResolveApp(ctx context.Context) (string, error) {
	if c.cfg.App != "" {
		return c.cfg.App, nil
	}

	apps, err := c.ListApps(ctx)
	if err != nil {
		return "", err
	}
	if len(apps) == 0 {
		return "", ErrNoApps
	}

	c.logger.Debug("resolved agent app from listing", "app", apps[0])
	return apps[0], nil
}

// CreateSession obtains a fresh session from the agent server. Every call
// yields either a valid session or an error; callers must not submit a
// message without one.
func (c *Client) CreateSession(ctx context.Context, app string) (*Session, error) {
	endpoint := fmt.Sprintf("/apps/%s/users/%s/sessions", app, c.cfg.UserID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Target+endpoint, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, fmt.Errorf("creating session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, endpoint); err != nil {
		return nil, err
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Err: err}
	}
	if session.ID == "" {
		return nil, &DecodeError{Endpoint: endpoint, Err: errors.New("missing session id")}
	}

	// Older ADK servers echo only the id.
	if session.AppName == "" {
		session.AppName = app
	}
	if session.UserID == "" {
		session.UserID = c.cfg.UserID
	}

	c.logger.Debug("created session",
		"session_id", session.ID,
		"app", app,
		"user_id", c.cfg.UserID,
	)

	return &session, nil
}

// Run submits one user message to the session and collects the SSE response.
// It returns the agent's accumulated textual answer; function calls and tool
// reports are dispatched to obs as they appear in the stream.
func (c *Client) Run(ctx context.Context, session *Session, text string, obs Observer) (string, error) {
	body, err := json.Marshal(runRequest{
		AppName:    session.AppName,
		UserID:     session.UserID,
		SessionID:  session.ID,
		NewMessage: NewTextContent("user", text),
		Streaming:  false,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling run request: %w", err)
	}

	c.logger.Debug("sending run request",
		"target", c.cfg.Target,
		"session_id", session.ID,
		"app", session.AppName,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Target+"/run_sse", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating run request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending run request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "/run_sse"); err != nil {
		return "", err
	}

	return Collect(sse.NewReader(resp.Body), obs)
}

// Ask is the full question lifecycle: resolve the app, create a fresh
// session, submit the question, collect the answer. Session creation failure
// short-circuits; no message is submitted without a session.
func (c *Client) Ask(ctx context.Context, text string, obs Observer) (string, error) {
	app, err := c.ResolveApp(ctx)
	if err != nil {
		return "", err
	}

	session, err := c.CreateSession(ctx, app)
	if err != nil {
		return "", err
	}

	return c.Run(ctx, session, text, obs)
}

// checkStatus converts a non-2xx response into a StatusError carrying a
// bounded slice of the body.
func checkStatus(resp *http.Response, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Endpoint: endpoint,
		Code:     resp.StatusCode,
		Body:     string(bytes.TrimSpace(body)),
	}
}
