package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/omrstudio/pilotctl/internal/types"
)

// faqSource adapts the committed FAQ list for fuzzy matching over both the
// question and the answer.
type faqSource []types.Faq

func (f faqSource) String(i int) string { return f[i].Pergunta + " " + f[i].Resposta }
func (f faqSource) Len() int            { return len(f) }

// searchFaqs filters the FAQ list by a fuzzy query; an empty query returns
// everything in order.
func searchFaqs(faqs []types.Faq, query string) []types.Faq {
	if query == "" {
		return faqs
	}
	matches := fuzzy.FindFrom(query, faqSource(faqs))
	out := make([]types.Faq, 0, len(matches))
	for _, match := range matches {
		out = append(out, faqs[match.Index])
	}
	return out
}

func (m *Model) renderAjuda(s styles) string {
	var lines []string
	lines = append(lines, s.title.Render("Ajuda"))
	lines = append(lines, s.subtle.Render("Fale com a gente ou consulte as respostas do seu próprio atendente."))
	lines = append(lines, "")

	lines = append(lines, s.title.Render("Suporte"))
	lines = append(lines, fieldLine(s, m.focus == ajudaFieldSupport, "Mensagem", m.supportInput.View()))
	lines = append(lines, "")

	lines = append(lines, s.title.Render("Perguntas frequentes"))
	lines = append(lines, fieldLine(s, m.focus == ajudaFieldSearch, "Buscar", m.faqQuery.View()))

	var faqs []types.Faq
	if m.st.Empresa != nil {
		faqs = m.st.Empresa.Faqs
	}
	results := searchFaqs(faqs, m.faqQuery.Value())
	switch {
	case len(faqs) == 0:
		lines = append(lines, s.subtle.Render("  Cadastre perguntas na aba Dados para vê-las aqui."))
	case len(results) == 0:
		lines = append(lines, s.subtle.Render("  Nada encontrado."))
	default:
		for _, faq := range results {
			lines = append(lines, s.value.Render("  "+faq.Pergunta))
			lines = append(lines, s.subtle.Render("    "+faq.Resposta))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
