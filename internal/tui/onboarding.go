package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/omrstudio/pilotctl/internal/state"
)

// The first-run tour is built lazily: nothing is assembled until an
// authenticated session actually wants it, and the result is dropped if
// the user dismissed the tour while it was being prepared.

func (m *Model) tourShowing() bool {
	return m.st.Auth.Authenticated() && m.st.IsTourVisible && m.tour != ""
}

func (m *Model) loadTourCmd() tea.Cmd {
	empresa := m.st.Empresa
	return func() tea.Msg {
		steps := []string{
			"1. Preencha os Dados do negócio — é a memória do seu atendente.",
			"2. Use o Test-drive para conversar com ele antes dos clientes.",
			"3. Em Conexões, escaneie o QR para ligar o WhatsApp do negócio.",
			"4. Qualquer dúvida, a aba Ajuda fala direto com a gente.",
		}
		if empresa != nil && empresa.Nome != "" {
			steps[0] = "1. Revise os Dados de " + empresa.Nome + " — é a memória do seu atendente."
		}
		return tourReadyMsg{content: strings.Join(steps, "\n")}
	}
}

func (m *Model) onTourReady(msg tourReadyMsg) (tea.Model, tea.Cmd) {
	m.tourLoad = false
	// Dismissed while loading: drop the content instead of flashing it.
	if !m.st.IsTourVisible || !m.st.Auth.Authenticated() {
		return m, nil
	}
	m.tour = msg.content
	return m, nil
}

func (m *Model) onTourKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", " ":
		m.store.Commit("tour:dismiss", func(st *state.AppState) {
			st.IsTourVisible = false
		})
	}
	return m, nil
}

func (m *Model) renderTour(s styles) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		s.title.Render("Bem-vindo ao Pilot!"),
		"",
		s.value.Render(m.tour),
		"",
		s.subtle.Render("enter para começar"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, "", s.box.Render(body))
}
