package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) renderDados(s styles) string {
	var lines []string
	lines = append(lines, s.title.Render("Dados do negócio"))
	lines = append(lines, s.subtle.Render("É com isso que o atendente responde seus clientes."))
	lines = append(lines, "")

	for i := 0; i < dadosProfileFieldCount; i++ {
		lines = append(lines, fieldLine(s, m.focus == i, dadosFieldLabels[i], m.dados.profile[i].View()))
	}
	lines = append(lines, fieldLine(s, false, "Persona", s.value.Render(personaDisplayName(m.dados.persona))+s.subtle.Render("  (ctrl+p troca)")))

	lines = append(lines, "")
	lines = append(lines, s.title.Render(fmt.Sprintf("Produtos e serviços (%d)", len(m.dados.produtos))))
	if len(m.dados.produtos) == 0 {
		lines = append(lines, s.subtle.Render("  Nenhum ainda. ctrl+j adiciona o primeiro."))
	}
	base := dadosProfileFieldCount
	for row, inputs := range m.dados.produtos {
		idx := base + row*3
		lines = append(lines,
			fieldLine(s, m.focus == idx, "Nome", inputs[0].View()),
			fieldLine(s, m.focus == idx+1, "Descrição", inputs[1].View()),
			fieldLine(s, m.focus == idx+2, "Preço", inputs[2].View()),
			"",
		)
	}

	lines = append(lines, s.title.Render(fmt.Sprintf("Perguntas frequentes (%d)", len(m.dados.faqs))))
	if len(m.dados.faqs) == 0 {
		lines = append(lines, s.subtle.Render("  Nenhuma ainda. ctrl+f adiciona a primeira."))
	}
	base += 3 * len(m.dados.produtos)
	for row, inputs := range m.dados.faqs {
		idx := base + row*2
		lines = append(lines,
			fieldLine(s, m.focus == idx, "Pergunta", inputs[0].View()),
			fieldLine(s, m.focus == idx+1, "Resposta", inputs[1].View()),
			"",
		)
	}

	if m.st.Forms.Dados != nil && !m.st.Pending.DadosSave {
		lines = append(lines, s.warning.Render("Alterações não salvas de uma tentativa anterior foram mantidas."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, strings.TrimRight(strings.Join(lines, "\n"), "\n"))
}
