package provider

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

	"github.com/omrstudio/pilotctl/internal/api"
	"github.com/omrstudio/pilotctl/internal/state"
	"github.com/omrstudio/pilotctl/internal/types"
)

// Config holds the hosted-provider connection settings. Both values are
// required; startup fails without them.
type Config struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
}

// Client issues typed calls against the hosted auth + row provider and
// translates every provider-specific failure into the console's single
// {code, message} error shape. The session token is read from the state
// store at call time.
type Client struct {
	cfg        Config
	httpClient *http.Client
	store      *state.Store
	logger     *slog.Logger
}

// New builds a provider client. The base URL and anon key must be set.
func New(cfg Config, store *state.Store, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" || cfg.AnonKey == "" {
		return nil, fmt.Errorf("provider requires a base URL and anon key")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = api.DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		store:      store,
		logger:     logger,
	}, nil
}

// sessionToken returns the current token or an AUTH_REQUIRED error.
func (c *Client) sessionToken() (string, error) {
	token := c.store.Get().Auth.SessionToken
	if token == "" {
		return "", api.NewError(api.CodeAuthRequired, "Sessão expirada. Faça login novamente.")
	}
	return token, nil
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string   `json:"access_token"`
	User        authUser `json:"user"`
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*types.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, c.authURL("token?grant_type=password"), "", body, nil, &out)
	if err != nil {
		return nil, translateAuthError(err, api.CodeAuthInvalid, "Não foi possível autenticar.")
	}
	if out.AccessToken == "" {
		return nil, api.NewError(api.CodeAuthInvalid, "Não foi possível autenticar.")
	}
	return &types.Session{
		User:         types.User{ID: out.User.ID, Email: out.User.Email},
		SessionToken: out.AccessToken,
	}, nil
}

// SignUp registers a new account. When the provider returns a session the
// matching usuario row is synced best-effort.
func (c *Client) SignUp(ctx context.Context, req types.SignupRequest) error {
	body := map[string]any{
		"email":    req.Email,
		"password": req.Password,
		"data": map[string]string{
			"full_name": req.FullName,
			"whatsapp":  req.WhatsApp,
		},
	}
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, c.authURL("signup"), "", body, nil, &out); err != nil {
		return translateAuthError(err, api.CodeAuthError, "Não foi possível criar a conta.")
	}
	if out.AccessToken != "" && out.User.ID != "" {
		if err := c.ensureUsuario(ctx, out.AccessToken, out.User.ID, req.Email); err != nil {
			c.logger.Warn("usuario sync after signup failed", "error", err)
		}
	}
	return nil
}

// SignOut invalidates the current session with the provider.
func (c *Client) SignOut(ctx context.Context) error {
	token, err := c.sessionToken()
	if err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPost, c.authURL("logout"), token, nil, nil, nil); err != nil {
		return translateAuthError(err, api.CodeAuthError, "Falha ao encerrar sessão.")
	}
	return nil
}

// currentUser fetches the authenticated user for the current token.
func (c *Client) currentUser(ctx context.Context, token string) (*authUser, error) {
	var out authUser
	if err := c.do(ctx, http.MethodGet, c.authURL("user"), token, nil, nil, &out); err != nil {
		return nil, translateAuthError(err, api.CodeAuthError, "Falha ao consultar sessão.")
	}
	if out.ID == "" {
		return nil, api.NewError(api.CodeAuthRequired, "Sessão expirada. Faça login novamente.")
	}
	return &out, nil
}

func (c *Client) authURL(path string) string {
	return c.cfg.BaseURL + "/auth/v1/" + path
}

func (c *Client) restURL(table, query string) string {
	u := c.cfg.BaseURL + "/rest/v1/" + table
	if query != "" {
		u += "?" + query
	}
	return u
}

// providerError is the wire shape of provider failures; different
// subsystems use different field names.
type providerError struct {
	Code             string `json:"code"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e *providerError) text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Msg != "":
		return e.Msg
	default:
		return e.ErrorDescription
	}
}

// do performs one provider request. extraHeaders may be nil. out may be
// nil when the response body is irrelevant.
func (c *Client) do(ctx context.Context, method, url, token string, body any, extraHeaders map[string]string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return api.NewError(api.CodeInternal, fmt.Sprintf("falha ao codificar requisição: %v", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return api.NewError(api.CodeInternal, fmt.Sprintf("falha ao montar requisição: %v", err))
	}
	req.Header.Set("apikey", c.cfg.AnonKey)
	if token == "" {
		token = c.cfg.AnonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return api.NewError(api.CodeRequestTimeout, "Tempo limite excedido.")
		}
		return api.NewError(api.CodeInternal, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return api.NewError(api.CodeInternal, fmt.Sprintf("falha ao ler resposta: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var perr providerError
		_ = json.Unmarshal(data, &perr)
		code := perr.Code
		if code == "" {
			code = api.CodeInternal
		}
		msg := perr.text()
		if msg == "" {
			msg = fmt.Sprintf("provider returned status %d", resp.StatusCode)
		}
		return api.NewError(code, msg)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return api.NewError(api.CodeInternal, fmt.Sprintf("falha ao decodificar resposta: %v", err))
		}
	}
	return nil
}

// translateAuthError keeps timeout and already-coded auth errors, and
// recodes everything else for the auth subsystem.
func translateAuthError(err error, fallbackCode, fallbackMsg string) error {
	coded := api.AsError(err)
	switch coded.Code {
	case api.CodeRequestTimeout, api.CodeAuthRequired, api.CodeAuthInvalid, api.CodeAuthError:
		return coded
	}
	msg := coded.Message
	if msg == "" {
		msg = fallbackMsg
	}
	return api.NewError(fallbackCode, msg)
}
