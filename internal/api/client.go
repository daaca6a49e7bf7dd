package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/omrstudio/pilotctl/internal/state"
)

// DefaultTimeout caps every facade call.
const DefaultTimeout = 20 * time.Second

// Envelope is the normalized successful response.
type Envelope struct {
	Status int
	OK     bool
	Data   json.RawMessage
	Meta   json.RawMessage
}

// CallRecord describes one facade call for the local call log.
type CallRecord struct {
	TS           time.Time
	RequestID    string
	Action       string
	Status       int
	ErrorCode    string
	DurationMS   int64
	RequestBody  string
	ResponseBody string
}

// Recorder receives a record for every call, success or failure. Recording
// is best effort; failures are the recorder's problem.
type Recorder interface {
	RecordCall(CallRecord) error
}

// Config holds the webhook endpoint settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client speaks the single-endpoint action protocol: POST {action, payload,
// auth} and a normalized {ok, data, error, meta} response. Identity is read
// from the state store at call time, so a call issued while unauthenticated
// carries null identity.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	store      *state.Store
	logger     *slog.Logger
	recorder   Recorder
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRecorder attaches a call-log recorder.
func WithRecorder(r Recorder) ClientOption {
	return func(c *Client) { c.recorder = r }
}

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds the facade over the given endpoint and store.
func NewClient(cfg Config, store *state.Store, logger *slog.Logger, opts ...ClientOption) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		// No transport-level timeout: the per-call deadline below is the
		// only guard, matching the single race-against-timer contract.
		httpClient: &http.Client{},
		store:      store,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Options adjust a single Execute call.
type Options struct {
	Auth bool
}

// Option adjusts a single Execute call.
type Option func(*Options)

// WithoutAuth suppresses the identity block in the request envelope.
func WithoutAuth() Option {
	return func(o *Options) { o.Auth = false }
}

type requestAuth struct {
	UserID       *string `json:"user_id"`
	SessionToken *string `json:"session_token"`
}

type requestBody struct {
	Action  string       `json:"action"`
	Payload any          `json:"payload"`
	Auth    *requestAuth `json:"auth,omitempty"`
	Meta    requestMeta  `json:"meta"`
}

type requestMeta struct {
	RequestID string `json:"request_id"`
}

type responseBody struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *Error          `json:"error"`
	Meta  json.RawMessage `json:"meta"`
}

// Execute performs one action call. Every call races the request against
// the configured timeout; on timeout it fails with REQUEST_TIMEOUT and the
// underlying result is abandoned. Failures always normalize to *Error.
func (c *Client) Execute(ctx context.Context, action string, payload any, opts ...Option) (*Envelope, error) {
	options := Options{Auth: true}
	for _, opt := range opts {
		opt(&options)
	}

	requestID := uuid.NewString()
	body := requestBody{
		Action:  action,
		Payload: payload,
		Meta:    requestMeta{RequestID: requestID},
	}
	if options.Auth {
		body.Auth = c.currentAuth()
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, NewError(CodeInternal, fmt.Sprintf("falha ao codificar requisição: %v", err))
	}

	c.logger.Debug("api call", "action", action, "request_id", requestID)
	start := time.Now()

	env, callErr := c.post(ctx, encoded)

	record := CallRecord{
		TS:          start,
		RequestID:   requestID,
		Action:      action,
		DurationMS:  time.Since(start).Milliseconds(),
		RequestBody: string(encoded),
	}
	if env != nil {
		record.Status = env.Status
		record.ResponseBody = string(env.Data)
	}
	if callErr != nil {
		record.ErrorCode = AsError(callErr).Code
		c.logger.Error("api call failed", "action", action, "code", record.ErrorCode, "error", callErr)
	} else {
		c.logger.Debug("api call ok", "action", action, "status", env.Status, "duration_ms", record.DurationMS)
	}
	if c.recorder != nil {
		if err := c.recorder.RecordCall(record); err != nil {
			c.logger.Error("record call failed", "error", err)
		}
	}

	if callErr != nil {
		return nil, callErr
	}

	// The one action-specific coupling between facade and store: a
	// successful logout clears the session and routes to the login view.
	if action == "auth.logout" {
		c.store.Commit("logout", func(st *state.AppState) {
			st.Auth = state.Auth{}
			st.CurrentView = state.ViewLogin
		})
	}

	return env, nil
}

func (c *Client) post(ctx context.Context, encoded []byte) (*Envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, NewError(CodeInternal, fmt.Sprintf("falha ao montar requisição: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewError(CodeRequestTimeout, "Tempo limite excedido.")
		}
		return nil, NewError(CodeInternal, err.Error())
	}
	defer resp.Body.Close()

	var wire responseBody
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		wire = responseBody{}
	}

	env := &Envelope{
		Status: resp.StatusCode,
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300 && wire.OK,
		Data:   wire.Data,
		Meta:   wire.Meta,
	}
	if !env.OK {
		if wire.Error != nil {
			return env, wire.Error
		}
		return env, NewError(CodeInternal, "Erro inesperado")
	}
	return env, nil
}

// currentAuth reads identity from the store at call time.
func (c *Client) currentAuth() *requestAuth {
	auth := c.store.Get().Auth
	ra := &requestAuth{}
	if auth.User != nil && auth.User.ID != "" {
		id := auth.User.ID
		ra.UserID = &id
	}
	if auth.SessionToken != "" {
		token := auth.SessionToken
		ra.SessionToken = &token
	}
	return ra
}
