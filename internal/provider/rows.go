package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Row shapes mirror the hosted tables. Timestamps stay as opaque strings;
// the console never does arithmetic on them.

type usuarioRow struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type empresaRow struct {
	ID                   string `json:"id,omitempty"`
	UserID               string `json:"user_id"`
	Nome                 string `json:"nome"`
	Tipo                 string `json:"tipo,omitempty"`
	HorarioFuncionamento string `json:"horario_funcionamento,omitempty"`
	ContatosExtras       string `json:"contatos_extras,omitempty"`
	Endereco             string `json:"endereco,omitempty"`
	Observacoes          string `json:"observacoes,omitempty"`
	Persona              string `json:"persona,omitempty"`
	CreatedAt            string `json:"created_at,omitempty"`
	UpdatedAt            string `json:"updated_at,omitempty"`
}

type produtoRow struct {
	ID        string   `json:"id,omitempty"`
	EmpresaID string   `json:"empresa_id"`
	Nome      string   `json:"nome"`
	Descricao string   `json:"descricao,omitempty"`
	Preco     *float64 `json:"preco"`
}

type faqRow struct {
	ID        string `json:"id,omitempty"`
	EmpresaID string `json:"empresa_id"`
	Pergunta  string `json:"pergunta"`
	Resposta  string `json:"resposta"`
}

type instanciaRow struct {
	ID                  string          `json:"id"`
	EmpresaID           string          `json:"empresa_id"`
	EvolutionInstanceID string          `json:"evolution_instance_id"`
	Status              string          `json:"status"`
	Settings            json.RawMessage `json:"settings"`
	LastEvent           string          `json:"last_event,omitempty"`
	CreatedAt           string          `json:"created_at,omitempty"`
}

// selectRows runs a filtered GET against a table and decodes the row list.
func selectRows[T any](ctx context.Context, c *Client, table string, filter url.Values) ([]T, error) {
	var rows []T
	if err := c.do(ctx, http.MethodGet, c.restURL(table, filter.Encode()), c.tokenOrAnon(), nil, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// insertRows inserts a batch and returns the stored representation.
func insertRows[T any](ctx context.Context, c *Client, table string, rows []T) ([]T, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	headers := map[string]string{"Prefer": "return=representation"}
	var stored []T
	if err := c.do(ctx, http.MethodPost, c.restURL(table, ""), c.tokenOrAnon(), rows, headers, &stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// updateRows patches every row matching the filter.
func updateRows(ctx context.Context, c *Client, table string, filter url.Values, patch any) error {
	return c.do(ctx, http.MethodPatch, c.restURL(table, filter.Encode()), c.tokenOrAnon(), patch, nil, nil)
}

// deleteRows removes every row matching the filter.
func deleteRows(ctx context.Context, c *Client, table string, filter url.Values) error {
	return c.do(ctx, http.MethodDelete, c.restURL(table, filter.Encode()), c.tokenOrAnon(), nil, nil, nil)
}

func (c *Client) tokenOrAnon() string {
	return c.store.Get().Auth.SessionToken
}

func eqFilter(column, value string) url.Values {
	v := url.Values{}
	v.Set(column, "eq."+value)
	return v
}
