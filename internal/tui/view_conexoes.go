package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mdp/qrterminal/v3"

	"github.com/omrstudio/pilotctl/internal/types"
)

func statusBadge(s styles, status string) string {
	switch status {
	case types.InstanceStatusConnected:
		return s.success.Render("● conectado")
	case types.InstanceStatusConnecting:
		return s.warning.Render("◐ conectando")
	default:
		return s.danger.Render("○ desconectado")
	}
}

// renderQR draws the pairing payload as a scannable QR block.
func renderQR(payload string) string {
	var b strings.Builder
	qrterminal.GenerateWithConfig(payload, qrterminal.Config{
		Level:     qrterminal.L,
		Writer:    &b,
		BlackChar: qrterminal.BLACK,
		WhiteChar: qrterminal.WHITE,
		QuietZone: 1,
	})
	return b.String()
}

func (m *Model) renderConexoes(s styles) string {
	var lines []string
	lines = append(lines, s.title.Render("Conexões"))

	inst := m.selectedInstance()
	if inst == nil {
		lines = append(lines, s.subtle.Render("Nenhuma instância de WhatsApp configurada ainda."))
		lines = append(lines, s.subtle.Render("Salve os dados do negócio primeiro; a instância é criada em seguida."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.label.Render("Instância ")+s.value.Render(inst.EvolutionInstanceID)+"  "+statusBadge(s, inst.Status))
	if inst.LastEvent != "" {
		lines = append(lines, s.subtle.Render("Último evento: "+inst.LastEvent))
	}
	lines = append(lines, "")

	if inst.Status == types.InstanceStatusConnecting && inst.QRPayload != "" {
		lines = append(lines, s.value.Render("Escaneie com o WhatsApp do negócio:"))
		lines = append(lines, renderQR(inst.QRPayload))
		lines = append(lines, "")
	}

	settings := m.currentSettings()
	lines = append(lines, s.title.Render("Comportamento"))
	for i := 0; i < conexoesToggleCount; i++ {
		mark := "☐"
		if toggleValue(settings, i) {
			mark = "☑"
		}
		line := fmt.Sprintf("%s %s", mark, conexoesToggleLabels[i])
		if m.focus == i {
			lines = append(lines, s.focusMark.Render("▸ ")+s.value.Render(line))
		} else {
			lines = append(lines, "  "+s.value.Render(line))
		}
	}
	lines = append(lines, fieldLine(s, m.focus == conexoesToggleCount, "Resposta a chamadas", m.conexoes.rejectMsg.View()))

	if m.st.Forms.Instancias != nil && !m.st.Pending.InstSave {
		lines = append(lines, s.warning.Render("Preferências alteradas e ainda não salvas (ctrl+s)."))
	}

	if len(inst.Logs) > 0 {
		lines = append(lines, "")
		lines = append(lines, s.title.Render("Atividade recente"))
		start := len(inst.Logs) - 5
		if start < 0 {
			start = 0
		}
		for _, ev := range inst.Logs[start:] {
			lines = append(lines, s.subtle.Render("  · "+ev.Message))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
