package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/omrstudio/pilotctl/internal/api"
	"github.com/omrstudio/pilotctl/internal/types"
)

// Webhook actions.
const (
	actionLogin          = "auth.login"
	actionSignup         = "auth.signup"
	actionLogout         = "auth.logout"
	actionMe             = "auth.me"
	actionDadosSave      = "dados.save"
	actionSimChat        = "sim.chat"
	actionInstRefresh    = "inst.refresh"
	actionInstDisconnect = "inst.disconnect"
	actionInstUpdate     = "inst.update"
	actionSupportChat    = "support.chat"
)

// webhookBackend serves every operation through the action protocol.
type webhookBackend struct {
	client *api.Client
}

// NewWebhook builds the webhook-variant backend over the facade.
func NewWebhook(client *api.Client) Backend {
	return &webhookBackend{client: client}
}

func decodeData[T any](env *api.Envelope) (*T, error) {
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, api.NewError(api.CodeInternal, fmt.Sprintf("resposta inesperada: %v", err))
	}
	return &out, nil
}

func (b *webhookBackend) Login(ctx context.Context, email, password string) (*types.Session, error) {
	payload := map[string]string{"email": email, "password": password}
	env, err := b.client.Execute(ctx, actionLogin, payload, api.WithoutAuth())
	if err != nil {
		return nil, err
	}
	return decodeData[types.Session](env)
}

func (b *webhookBackend) Signup(ctx context.Context, req types.SignupRequest) error {
	_, err := b.client.Execute(ctx, actionSignup, req, api.WithoutAuth())
	return err
}

func (b *webhookBackend) Logout(ctx context.Context) error {
	_, err := b.client.Execute(ctx, actionLogout, nil)
	return err
}

func (b *webhookBackend) FetchContext(ctx context.Context) (*types.Workspace, error) {
	env, err := b.client.Execute(ctx, actionMe, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[types.Workspace](env)
}

func (b *webhookBackend) SaveDados(ctx context.Context, payload types.DadosPayload) (*types.Workspace, error) {
	env, err := b.client.Execute(ctx, actionDadosSave, payload)
	if err != nil {
		return nil, err
	}
	return decodeData[types.Workspace](env)
}

type chatReply struct {
	Reply string `json:"reply"`
}

func (b *webhookBackend) SendChat(ctx context.Context, persona, message string) (string, error) {
	payload := map[string]string{"persona": persona, "message": message}
	env, err := b.client.Execute(ctx, actionSimChat, payload)
	if err != nil {
		return "", err
	}
	reply, err := decodeData[chatReply](env)
	if err != nil {
		return "", err
	}
	return reply.Reply, nil
}

func (b *webhookBackend) instanceCall(ctx context.Context, action string, payload any) (*types.Instancia, error) {
	env, err := b.client.Execute(ctx, action, payload)
	if err != nil {
		return nil, err
	}
	return decodeData[types.Instancia](env)
}

func (b *webhookBackend) RefreshInstance(ctx context.Context, instanceID string) (*types.Instancia, error) {
	return b.instanceCall(ctx, actionInstRefresh, map[string]string{"instance_id": instanceID})
}

func (b *webhookBackend) DisconnectInstance(ctx context.Context, instanceID string) (*types.Instancia, error) {
	return b.instanceCall(ctx, actionInstDisconnect, map[string]string{"instance_id": instanceID})
}

func (b *webhookBackend) SaveInstance(ctx context.Context, instanceID string, settings types.InstanciaSettings) (*types.Instancia, error) {
	payload := map[string]any{"instance_id": instanceID, "settings": settings}
	return b.instanceCall(ctx, actionInstUpdate, payload)
}

func (b *webhookBackend) SendSupport(ctx context.Context, message string) (string, error) {
	env, err := b.client.Execute(ctx, actionSupportChat, map[string]string{"message": message})
	if err != nil {
		return "", err
	}
	reply, err := decodeData[chatReply](env)
	if err != nil {
		return "", err
	}
	return reply.Reply, nil
}
