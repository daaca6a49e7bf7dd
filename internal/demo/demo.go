// Package demo is the fully local backend: a seeded workspace, canned
// persona replies, and instance transitions that never leave the process.
// It exists so the console can be exercised without any credentials.
package demo

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"

	"github.com/omrstudio/pilotctl/internal/api"
	"github.com/omrstudio/pilotctl/internal/backend"
	"github.com/omrstudio/pilotctl/internal/types"
)

//go:embed seed.jsonc
var seedJSONC []byte

// Credentials the demo session reports. Any login input is accepted.
const (
	UserID    = "demo-user"
	UserEmail = "demo@pilotctl.local"
	Token     = "demo-session"
)

// LoadSeed parses the embedded workspace seed.
func LoadSeed() (*types.Workspace, error) {
	var ws types.Workspace
	if err := json.Unmarshal(jsonc.ToJSON(seedJSONC), &ws); err != nil {
		return nil, fmt.Errorf("failed to parse demo seed: %w", err)
	}
	return &ws, nil
}

type demoBackend struct {
	mu sync.Mutex
	ws *types.Workspace
}

// New builds the demo backend from the embedded seed.
func New() (backend.Backend, error) {
	ws, err := LoadSeed()
	if err != nil {
		return nil, err
	}
	return &demoBackend{ws: ws}, nil
}

func (d *demoBackend) Login(ctx context.Context, email, password string) (*types.Session, error) {
	if strings.TrimSpace(email) == "" {
		return nil, api.NewError(api.CodeInvalidInput, "Informe um e-mail.")
	}
	return &types.Session{
		User:         types.User{ID: UserID, Email: UserEmail},
		SessionToken: Token,
	}, nil
}

func (d *demoBackend) Signup(ctx context.Context, req types.SignupRequest) error {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		return api.NewError(api.CodeInvalidInput, "Preencha e-mail e senha.")
	}
	return nil
}

func (d *demoBackend) Logout(ctx context.Context) error { return nil }

func (d *demoBackend) FetchContext(ctx context.Context) (*types.Workspace, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot(), nil
}

func (d *demoBackend) snapshot() *types.Workspace {
	return &types.Workspace{
		Empresa:    d.ws.Empresa.Clone(),
		Instancias: types.CloneInstancias(d.ws.Instancias),
	}
}

func (d *demoBackend) SaveDados(ctx context.Context, payload types.DadosPayload) (*types.Workspace, error) {
	if strings.TrimSpace(payload.Empresa.Nome) == "" {
		return nil, api.NewError(api.CodeInvalidInput, "Informe o nome do negócio.")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	empresa := d.ws.Empresa
	if empresa == nil {
		empresa = &types.Empresa{ID: "demo-empresa", UserID: UserID}
		d.ws.Empresa = empresa
	}
	empresa.EmpresaFields = payload.Empresa
	empresa.Nome = strings.TrimSpace(payload.Empresa.Nome)
	empresa.Produtos = nil
	for n, p := range payload.Produtos {
		if strings.TrimSpace(p.Nome) == "" && strings.TrimSpace(p.Descricao) == "" && strings.TrimSpace(p.Preco) == "" {
			continue
		}
		p.ID = fmt.Sprintf("demo-p%d", n+1)
		empresa.Produtos = append(empresa.Produtos, p)
	}
	empresa.Faqs = nil
	for n, f := range payload.Faqs {
		if strings.TrimSpace(f.Pergunta) == "" && strings.TrimSpace(f.Resposta) == "" {
			continue
		}
		f.ID = fmt.Sprintf("demo-f%d", n+1)
		empresa.Faqs = append(empresa.Faqs, f)
	}

	return d.snapshot(), nil
}

func (d *demoBackend) SendChat(ctx context.Context, persona, message string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Reply(persona, message, d.ws.Empresa), nil
}

func (d *demoBackend) findInstance(instanceID string) (*types.Instancia, error) {
	for n := range d.ws.Instancias {
		if d.ws.Instancias[n].ID == instanceID {
			return &d.ws.Instancias[n], nil
		}
	}
	return nil, api.NewError(api.CodeInvalidInput, "Instância desconhecida.")
}

func (d *demoBackend) RefreshInstance(ctx context.Context, instanceID string) (*types.Instancia, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	inst, err := d.findInstance(instanceID)
	if err != nil {
		return nil, err
	}
	// A refresh on a torn-down instance starts a new pairing.
	if inst.Status == types.InstanceStatusDisconnected {
		inst.Status = types.InstanceStatusConnecting
		inst.QRPayload = "pilotctl-demo-pairing-" + instanceID
		inst.LastEvent = "QR code gerado"
	} else if inst.Status == types.InstanceStatusConnecting {
		inst.Status = types.InstanceStatusConnected
		inst.QRPayload = ""
		inst.LastEvent = "Conectado"
	}
	out := inst.Clone()
	return &out, nil
}

func (d *demoBackend) DisconnectInstance(ctx context.Context, instanceID string) (*types.Instancia, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	inst, err := d.findInstance(instanceID)
	if err != nil {
		return nil, err
	}
	inst.Status = types.InstanceStatusDisconnected
	inst.QRPayload = ""
	inst.LastEvent = "Desconectado a pedido"
	out := inst.Clone()
	return &out, nil
}

func (d *demoBackend) SaveInstance(ctx context.Context, instanceID string, settings types.InstanciaSettings) (*types.Instancia, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	inst, err := d.findInstance(instanceID)
	if err != nil {
		return nil, err
	}
	inst.InstanciaSettings = settings
	inst.LastEvent = "Preferências salvas"
	out := inst.Clone()
	return &out, nil
}

func (d *demoBackend) SendSupport(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", api.NewError(api.CodeInvalidInput, "Escreva sua mensagem.")
	}
	return "Recebido! No modo demonstração ninguém responde, mas na vida real a equipe retorna em até um dia útil.", nil
}
