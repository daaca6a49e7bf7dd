package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) renderLogin(s styles) string {
	title := s.title.Render("◈ Pilot — painel do seu atendente")
	subtitle := s.subtle.Render("Entre para acompanhar e treinar o atendimento do seu negócio.")

	email := fieldLine(s, m.focus == loginFieldEmail, "E-mail", m.loginInputs[loginFieldEmail].View())
	password := fieldLine(s, m.focus == loginFieldPassword, "Senha", m.loginInputs[loginFieldPassword].View())

	action := s.subtle.Render("enter para entrar")
	if m.st.Pending.Login {
		action = s.warning.Render("⋯ entrando")
	}

	card := s.box.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		email,
		password,
		"",
		action,
	))

	footer := s.subtle.Render("Ainda não tem conta? ctrl+n para pedir acesso.")
	return lipgloss.JoinVertical(lipgloss.Left, "", card, footer)
}
