package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/omrstudio/pilotctl/internal/state"
)

// palette is the theme-dependent color set. The theme is an application
// setting, not a terminal capability, so plain colors are used instead of
// adaptive ones.
type palette struct {
	accent  lipgloss.Color
	text    lipgloss.Color
	subtle  lipgloss.Color
	success lipgloss.Color
	danger  lipgloss.Color
	warning lipgloss.Color
	border  lipgloss.Color
}

func paletteFor(theme state.Theme) palette {
	if theme == state.ThemeDark {
		return palette{
			accent:  lipgloss.Color("#7aa2f7"),
			text:    lipgloss.Color("#c0caf5"),
			subtle:  lipgloss.Color("#565f89"),
			success: lipgloss.Color("#9ece6a"),
			danger:  lipgloss.Color("#f7768e"),
			warning: lipgloss.Color("#e0af68"),
			border:  lipgloss.Color("#3b4261"),
		}
	}
	return palette{
		accent:  lipgloss.Color("#2a5ad7"),
		text:    lipgloss.Color("#1a1b26"),
		subtle:  lipgloss.Color("#787c99"),
		success: lipgloss.Color("#33635c"),
		danger:  lipgloss.Color("#8c1c13"),
		warning: lipgloss.Color("#8f5e15"),
		border:  lipgloss.Color("#9aa5ce"),
	}
}

type styles struct {
	title       lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	label       lipgloss.Style
	value       lipgloss.Style
	subtle      lipgloss.Style
	success     lipgloss.Style
	danger      lipgloss.Style
	warning     lipgloss.Style
	box         lipgloss.Style
	focusMark   lipgloss.Style
}

func newStyles(p palette) styles {
	return styles{
		title:       lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		tabActive:   lipgloss.NewStyle().Bold(true).Foreground(p.accent).Underline(true),
		tabInactive: lipgloss.NewStyle().Foreground(p.subtle),
		label:       lipgloss.NewStyle().Foreground(p.subtle),
		value:       lipgloss.NewStyle().Foreground(p.text),
		subtle:      lipgloss.NewStyle().Foreground(p.subtle),
		success:     lipgloss.NewStyle().Foreground(p.success),
		danger:      lipgloss.NewStyle().Foreground(p.danger),
		warning:     lipgloss.NewStyle().Foreground(p.warning),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		focusMark: lipgloss.NewStyle().Bold(true).Foreground(p.accent),
	}
}

var viewTitles = map[state.View]string{
	state.ViewDados:     "Dados do negócio",
	state.ViewTestDrive: "Test-drive",
	state.ViewConexoes:  "Conexões",
	state.ViewAjuda:     "Ajuda",
}

var tabOrder = []state.View{state.ViewDados, state.ViewTestDrive, state.ViewConexoes, state.ViewAjuda}

func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	s := newStyles(paletteFor(m.st.Theme))

	var body string
	switch {
	case m.inspect.open:
		body = m.renderInspect(s)
	case m.st.IsSignupOpen:
		body = m.renderSignup(s)
	case m.tourShowing():
		body = m.renderTour(s)
	case m.st.CurrentView == state.ViewLogin:
		body = m.renderLogin(s)
	default:
		body = m.renderShell(s)
	}

	sections := []string{body}
	if m.st.Toast != nil {
		sections = append(sections, m.renderToast(s))
	}
	sections = append(sections, m.renderStatusBar(s))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderShell(s styles) string {
	header := m.renderHeader(s)
	var content string
	switch m.st.CurrentView {
	case state.ViewDados:
		content = m.renderDados(s)
	case state.ViewTestDrive:
		content = m.renderTestDrive(s)
	case state.ViewConexoes:
		content = m.renderConexoes(s)
	case state.ViewAjuda:
		content = m.renderAjuda(s)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}

func (m *Model) renderHeader(s styles) string {
	brand := s.title.Render("◈ Pilot")
	email := ""
	if m.st.Auth.User != nil {
		email = s.subtle.Render(m.st.Auth.User.Email)
	}

	// Narrow terminals collapse the tabs into a drawer.
	if m.st.Layout.IsMobile {
		hint := s.subtle.Render("ctrl+b menu")
		line := lipgloss.JoinHorizontal(lipgloss.Center, brand, "  ", hint, "  ", email)
		if !m.st.IsDrawerOpen {
			return line
		}
		var items []string
		for i, view := range tabOrder {
			label := fmt.Sprintf("%d. %s", i+1, viewTitles[view])
			if view == m.st.CurrentView {
				items = append(items, s.tabActive.Render(label))
			} else {
				items = append(items, s.tabInactive.Render(label))
			}
		}
		drawer := s.box.Render(strings.Join(items, "\n"))
		return lipgloss.JoinVertical(lipgloss.Left, line, drawer)
	}

	var tabs []string
	for i, view := range tabOrder {
		label := fmt.Sprintf("%s ⌥%d", viewTitles[view], i+1)
		if view == m.st.CurrentView {
			tabs = append(tabs, s.tabActive.Render(label))
		} else {
			tabs = append(tabs, s.tabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		brand, "  ", strings.Join(tabs, s.subtle.Render(" │ ")), "  ", email)
}

func (m *Model) renderToast(s styles) string {
	toast := m.st.Toast
	style := s.subtle
	prefix := "ℹ"
	switch toast.Tone {
	case state.ToneSuccess:
		style = s.success
		prefix = "✓"
	case state.ToneError:
		style = s.danger
		prefix = "✗"
	}
	return style.Render(prefix + " " + toast.Message)
}

func (m *Model) renderStatusBar(s styles) string {
	var hints []string
	if busy := m.pendingLabel(); busy != "" {
		hints = append(hints, s.warning.Render("⋯ "+busy))
	}

	switch {
	case m.inspect.open:
		hints = append(hints, "↑/↓ registro", "tab consulta", "c copiar", "esc fechar")
	case m.st.IsSignupOpen:
		hints = append(hints, "tab campo", "enter enviar", "esc fechar")
	case m.tourShowing():
		hints = append(hints, "enter começar")
	case m.st.CurrentView == state.ViewLogin:
		hints = append(hints, "enter entrar", "ctrl+n criar conta", "ctrl+d demo", "ctrl+c sair")
	case m.st.CurrentView == state.ViewDados:
		hints = append(hints, "tab campo", "ctrl+s salvar", "ctrl+j +produto", "ctrl+f +pergunta", "ctrl+x remover")
	case m.st.CurrentView == state.ViewTestDrive:
		hints = append(hints, "enter enviar", "ctrl+p persona", "ctrl+g sugestão")
	case m.st.CurrentView == state.ViewConexoes:
		hints = append(hints, "espaço alternar", "ctrl+r atualizar", "ctrl+x desconectar", "ctrl+s salvar")
	case m.st.CurrentView == state.ViewAjuda:
		hints = append(hints, "tab buscar/suporte", "enter enviar")
	}
	if m.st.CurrentView != state.ViewLogin && !m.st.IsSignupOpen && !m.inspect.open {
		hints = append(hints, "ctrl+t tema", "ctrl+y chamadas", "ctrl+l sair")
	}
	return s.subtle.Render(strings.Join(hints, " · "))
}

// pendingLabel names the in-flight operation shown in the status bar.
func (m *Model) pendingLabel() string {
	p := m.st.Pending
	switch {
	case p.Login:
		return "entrando"
	case p.DadosSave:
		return "salvando dados"
	case p.ChatSend:
		return "enviando mensagem"
	case p.InstRefresh:
		return "atualizando instância"
	case p.InstDisconnect:
		return "desconectando"
	case p.InstSave:
		return "salvando preferências"
	case p.SupportSend:
		return "enviando para o suporte"
	}
	return ""
}

// fieldLine renders one labeled input with a focus marker.
func fieldLine(s styles, focused bool, label, rendered string) string {
	mark := "  "
	if focused {
		mark = s.focusMark.Render("▸ ")
	}
	return mark + s.label.Render(label+": ") + rendered
}
