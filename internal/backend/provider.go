package backend

import (
	"context"

	"github.com/omrstudio/pilotctl/internal/api"
	"github.com/omrstudio/pilotctl/internal/provider"
	"github.com/omrstudio/pilotctl/internal/types"
)

// providerBackend serves identity and workspace data straight from the
// hosted provider and keeps the action protocol for the bot-side calls
// (simulator, instances, support), which only the webhook knows how to do.
type providerBackend struct {
	Backend
	provider *provider.Client
}

// NewProvider builds the provider-variant backend. webhook carries the
// operations the provider cannot serve.
func NewProvider(p *provider.Client, webhook *api.Client) Backend {
	return &providerBackend{
		Backend:  NewWebhook(webhook),
		provider: p,
	}
}

func (b *providerBackend) Login(ctx context.Context, email, password string) (*types.Session, error) {
	return b.provider.SignIn(ctx, email, password)
}

func (b *providerBackend) Signup(ctx context.Context, req types.SignupRequest) error {
	return b.provider.SignUp(ctx, req)
}

func (b *providerBackend) Logout(ctx context.Context) error {
	return b.provider.SignOut(ctx)
}

func (b *providerBackend) FetchContext(ctx context.Context) (*types.Workspace, error) {
	return b.provider.FetchWorkspace(ctx)
}

func (b *providerBackend) SaveDados(ctx context.Context, payload types.DadosPayload) (*types.Workspace, error) {
	return b.provider.SaveWorkspace(ctx, payload)
}
