package provider

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/omrstudio/pilotctl/internal/types"
)

var precoJunk = regexp.MustCompile(`[^0-9,.\-]`)

// ParsePreco turns a free-form price string ("R$ 12,50", "12.50", "1.234,56")
// into a numeric value. Unparseable input yields nil rather than an error:
// the original rows store null prices and render them as "—".
func ParsePreco(raw string) *float64 {
	cleaned := precoJunk.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return nil
	}
	// Brazilian formatting uses "." for thousands and "," for decimals.
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

// FormatPreco renders a stored price back into the comma-decimal form the
// forms edit. A nil price renders empty.
func FormatPreco(preco *float64) string {
	if preco == nil {
		return ""
	}
	return strings.ReplaceAll(strconv.FormatFloat(*preco, 'f', 2, 64), ".", ",")
}

func empresaFromRow(row empresaRow) types.Empresa {
	return types.Empresa{
		ID: row.ID,
		EmpresaFields: types.EmpresaFields{
			Nome:                 row.Nome,
			Tipo:                 row.Tipo,
			HorarioFuncionamento: row.HorarioFuncionamento,
			ContatosExtras:       row.ContatosExtras,
			Endereco:             row.Endereco,
			Observacoes:          row.Observacoes,
			Persona:              row.Persona,
		},
	}
}

func produtosFromRows(rows []produtoRow) []types.Produto {
	out := make([]types.Produto, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.Produto{
			ID:        r.ID,
			Nome:      r.Nome,
			Descricao: r.Descricao,
			Preco:     FormatPreco(r.Preco),
		})
	}
	return out
}

func faqsFromRows(rows []faqRow) []types.Faq {
	out := make([]types.Faq, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.Faq{ID: r.ID, Pergunta: r.Pergunta, Resposta: r.Resposta})
	}
	return out
}

func instanciasFromRows(rows []instanciaRow) []types.Instancia {
	out := make([]types.Instancia, 0, len(rows))
	for _, r := range rows {
		inst := types.Instancia{
			ID:                  r.ID,
			EmpresaID:           r.EmpresaID,
			EvolutionInstanceID: r.EvolutionInstanceID,
			Status:              r.Status,
			LastEvent:           r.LastEvent,
		}
		if len(r.Settings) > 0 {
			_ = json.Unmarshal(r.Settings, &inst.InstanciaSettings)
		}
		out = append(out, inst)
	}
	return out
}

// produtoRowsForSave filters out fully empty entries and parses prices.
func produtoRowsForSave(empresaID string, produtos []types.Produto) []produtoRow {
	rows := make([]produtoRow, 0, len(produtos))
	for _, p := range produtos {
		if strings.TrimSpace(p.Nome) == "" && strings.TrimSpace(p.Descricao) == "" && strings.TrimSpace(p.Preco) == "" {
			continue
		}
		rows = append(rows, produtoRow{
			EmpresaID: empresaID,
			Nome:      strings.TrimSpace(p.Nome),
			Descricao: strings.TrimSpace(p.Descricao),
			Preco:     ParsePreco(p.Preco),
		})
	}
	return rows
}

func faqRowsForSave(empresaID string, faqs []types.Faq) []faqRow {
	rows := make([]faqRow, 0, len(faqs))
	for _, f := range faqs {
		if strings.TrimSpace(f.Pergunta) == "" && strings.TrimSpace(f.Resposta) == "" {
			continue
		}
		rows = append(rows, faqRow{
			EmpresaID: empresaID,
			Pergunta:  strings.TrimSpace(f.Pergunta),
			Resposta:  strings.TrimSpace(f.Resposta),
		})
	}
	return rows
}
