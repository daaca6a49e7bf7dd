package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var signupFieldLabels = []string{"Nome", "E-mail", "WhatsApp", "Senha"}

func (m *Model) renderSignup(s styles) string {
	var lines []string
	lines = append(lines, s.title.Render("Pedir acesso"))
	lines = append(lines, s.subtle.Render("A gente entra em contato assim que liberar sua conta."))
	lines = append(lines, "")
	for i, in := range m.signupInputs {
		lines = append(lines, fieldLine(s, m.focus == i, signupFieldLabels[i], in.View()))
	}
	lines = append(lines, "")
	lines = append(lines, s.subtle.Render("enter no último campo envia · esc volta"))

	return lipgloss.JoinVertical(lipgloss.Left, "", s.box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}
