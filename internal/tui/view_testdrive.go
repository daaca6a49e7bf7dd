package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/omrstudio/pilotctl/internal/state"
	"github.com/omrstudio/pilotctl/internal/types"
)

// chatSuggestions are the canned opening questions offered to new users.
var chatSuggestions = []string{
	"Quais são os preços?",
	"Qual o horário de funcionamento?",
	"Vocês fazem entrega?",
	"Onde fica a loja?",
}

func personaDisplayName(persona string) string {
	switch persona {
	case "clara":
		return "Clara (direta ao ponto)"
	case "", state.DefaultPersona:
		return "Josi (calorosa)"
	}
	return persona
}

func nextPersona(persona string) string {
	if persona == "clara" {
		return state.DefaultPersona
	}
	return "clara"
}

// refreshChatView rebuilds the transcript viewport from the snapshot and
// keeps it scrolled to the latest message.
func (m *Model) refreshChatView() {
	s := newStyles(paletteFor(m.st.Theme))
	var b strings.Builder
	for _, msg := range m.st.Chat.Messages {
		b.WriteString(renderBubble(s, msg))
		b.WriteString("\n")
	}
	if m.st.Pending.ChatSend {
		b.WriteString(s.subtle.Render("  ⋯ digitando"))
		b.WriteString("\n")
	}
	m.chatView.SetContent(b.String())
	m.chatView.GotoBottom()
}

func renderBubble(s styles, msg types.ChatMessage) string {
	author := s.label.Render(msg.Author + ":")
	if msg.Role == types.ChatRoleUser {
		author = s.title.Render(msg.Author + ":")
	}
	return author + " " + s.value.Render(msg.Message)
}

func (m *Model) renderTestDrive(s styles) string {
	var lines []string
	lines = append(lines, s.title.Render("Test-drive do atendente"))
	persona := m.st.Forms.ChatPersona
	if persona == "" {
		persona = state.DefaultPersona
	}
	lines = append(lines, s.subtle.Render("Conversando com ")+s.value.Render(personaDisplayName(persona)))
	lines = append(lines, "")

	if len(m.st.Chat.Messages) == 0 && !m.st.Pending.ChatSend {
		var chips []string
		for _, suggestion := range chatSuggestions {
			chips = append(chips, s.subtle.Render("["+suggestion+"]"))
		}
		lines = append(lines, s.subtle.Render("Sem mensagens ainda. Experimente (ctrl+g):"))
		lines = append(lines, strings.Join(chips, " "))
	} else {
		lines = append(lines, m.chatView.View())
	}

	lines = append(lines, "")
	lines = append(lines, fieldLine(s, true, "Mensagem", m.chatInput.View()))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
