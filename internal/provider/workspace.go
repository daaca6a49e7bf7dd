package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/omrstudio/pilotctl/internal/api"
	"github.com/omrstudio/pilotctl/internal/types"
)

// ensureUsuario keeps the usuarios mirror row in sync with the auth account.
func (c *Client) ensureUsuario(ctx context.Context, token, userID, email string) error {
	row := usuarioRow{ID: userID, Email: email}
	headers := map[string]string{"Prefer": "resolution=merge-duplicates"}
	return c.do(ctx, http.MethodPost, c.restURL("usuarios", ""), token, row, headers, nil)
}

// FetchWorkspace loads the authenticated context: the business profile with
// its catalogs, plus the connection instances. A user without a business yet
// gets an empty workspace, not an error.
func (c *Client) FetchWorkspace(ctx context.Context) (*types.Workspace, error) {
	token, err := c.sessionToken()
	if err != nil {
		return nil, err
	}
	user, err := c.currentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := c.ensureUsuario(ctx, token, user.ID, user.Email); err != nil {
		c.logger.Warn("usuario sync failed", "error", err)
	}

	filter := eqFilter("user_id", user.ID)
	filter.Set("order", "created_at.asc")
	filter.Set("limit", "1")
	empresas, err := selectRows[empresaRow](ctx, c, "empresas", filter)
	if err != nil {
		return nil, err
	}
	if len(empresas) == 0 {
		return &types.Workspace{}, nil
	}

	empresa := empresaFromRow(empresas[0])
	empresa.UserID = user.ID

	// The three catalogs are independent; load them in parallel.
	g, gctx := errgroup.WithContext(ctx)
	var (
		produtos   []produtoRow
		faqs       []faqRow
		instancias []instanciaRow
	)
	g.Go(func() error {
		var err error
		produtos, err = selectRows[produtoRow](gctx, c, "produtos", childFilter(empresa.ID))
		return err
	})
	g.Go(func() error {
		var err error
		faqs, err = selectRows[faqRow](gctx, c, "faqs", childFilter(empresa.ID))
		return err
	})
	g.Go(func() error {
		var err error
		instancias, err = selectRows[instanciaRow](gctx, c, "instancias", childFilter(empresa.ID))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	empresa.Produtos = produtosFromRows(produtos)
	empresa.Faqs = faqsFromRows(faqs)
	return &types.Workspace{
		Empresa:    &empresa,
		Instancias: instanciasFromRows(instancias),
	}, nil
}

func childFilter(empresaID string) url.Values {
	f := eqFilter("empresa_id", empresaID)
	f.Set("order", "created_at.asc")
	return f
}

// SaveWorkspace persists a profile submission: upsert the empresa row, then
// replace both catalogs wholesale. Returns the re-fetched workspace so the
// caller commits exactly what the rows now hold.
func (c *Client) SaveWorkspace(ctx context.Context, payload types.DadosPayload) (*types.Workspace, error) {
	if strings.TrimSpace(payload.Empresa.Nome) == "" {
		return nil, api.NewError(api.CodeInvalidInput, "Informe o nome do negócio.")
	}
	token, err := c.sessionToken()
	if err != nil {
		return nil, err
	}
	user, err := c.currentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := c.ensureUsuario(ctx, token, user.ID, user.Email); err != nil {
		c.logger.Warn("usuario sync failed", "error", err)
	}

	existing, err := selectRows[empresaRow](ctx, c, "empresas", eqFilter("user_id", user.ID))
	if err != nil {
		return nil, err
	}

	fields := payload.Empresa
	row := empresaRow{
		UserID:               user.ID,
		Nome:                 strings.TrimSpace(fields.Nome),
		Tipo:                 fields.Tipo,
		HorarioFuncionamento: fields.HorarioFuncionamento,
		ContatosExtras:       fields.ContatosExtras,
		Endereco:             fields.Endereco,
		Observacoes:          fields.Observacoes,
		Persona:              fields.Persona,
	}

	var empresaID string
	if len(existing) > 0 {
		empresaID = existing[0].ID
		if err := updateRows(ctx, c, "empresas", eqFilter("id", empresaID), row); err != nil {
			return nil, err
		}
	} else {
		stored, err := insertRows(ctx, c, "empresas", []empresaRow{row})
		if err != nil {
			return nil, err
		}
		if len(stored) == 0 || stored[0].ID == "" {
			return nil, api.NewError(api.CodeInternal, "Falha ao criar o cadastro do negócio.")
		}
		empresaID = stored[0].ID
	}

	// Catalogs are replaced, never merged: the form edits the full list.
	if err := deleteRows(ctx, c, "produtos", eqFilter("empresa_id", empresaID)); err != nil {
		return nil, err
	}
	if _, err := insertRows(ctx, c, "produtos", produtoRowsForSave(empresaID, payload.Produtos)); err != nil {
		return nil, err
	}
	if err := deleteRows(ctx, c, "faqs", eqFilter("empresa_id", empresaID)); err != nil {
		return nil, err
	}
	if _, err := insertRows(ctx, c, "faqs", faqRowsForSave(empresaID, payload.Faqs)); err != nil {
		return nil, err
	}

	return c.FetchWorkspace(ctx)
}
