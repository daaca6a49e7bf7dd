// Package backend hides which data-access variant serves the console. The
// webhook variant speaks the single-endpoint action protocol for everything;
// the provider variant talks to the hosted auth + row API for identity and
// workspace data and keeps the action protocol for the bot-side operations.
// Call sites only ever see the coded {code, message} failure shape.
package backend

import (
	"context"

	"github.com/omrstudio/pilotctl/internal/types"
)

// Backend is every remote operation the console performs.
type Backend interface {
	// Login exchanges credentials for a session. No session required.
	Login(ctx context.Context, email, password string) (*types.Session, error)
	// Signup submits an access request. No session required.
	Signup(ctx context.Context, req types.SignupRequest) error
	// Logout invalidates the current session remotely.
	Logout(ctx context.Context) error
	// FetchContext loads the workspace for the authenticated user.
	FetchContext(ctx context.Context) (*types.Workspace, error)
	// SaveDados persists the profile submission and returns the committed
	// workspace.
	SaveDados(ctx context.Context, payload types.DadosPayload) (*types.Workspace, error)
	// SendChat runs one simulator round trip and returns the bot reply.
	SendChat(ctx context.Context, persona, message string) (string, error)
	// RefreshInstance re-reads one connection instance.
	RefreshInstance(ctx context.Context, instanceID string) (*types.Instancia, error)
	// DisconnectInstance tears down the instance pairing.
	DisconnectInstance(ctx context.Context, instanceID string) (*types.Instancia, error)
	// SaveInstance persists the behavior toggles of an instance.
	SaveInstance(ctx context.Context, instanceID string, settings types.InstanciaSettings) (*types.Instancia, error)
	// SendSupport sends a support message and returns the acknowledgement.
	SendSupport(ctx context.Context, message string) (string, error)
}
