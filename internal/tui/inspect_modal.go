package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jmespath/go-jmespath"

	"github.com/omrstudio/pilotctl/internal/api"
	"github.com/omrstudio/pilotctl/internal/state"
)

// inspectRecordLimit caps how much of the call log the modal shows.
const inspectRecordLimit = 25

// inspectModal is the call-log inspector: the recent backend calls with
// their bodies, an optional jmespath projection, and copy-to-clipboard.
// body and queryErr are recomputed whenever the selection or the query
// changes, so rendering is a pure read.
type inspectModal struct {
	open         bool
	records      []api.CallRecord
	selected     int
	query        textinput.Model
	queryFocused bool
	body         string
	queryErr     string
}

func (m *Model) openInspect() tea.Cmd {
	if m.archive == nil {
		m.store.ShowToast("Registro local de chamadas desativado.", state.ToneInfo)
		return nil
	}
	archive := m.archive
	return func() tea.Msg {
		records, err := archive.RecentCalls(inspectRecordLimit)
		return inspectLoadedMsg{records: records, err: err}
	}
}

func (m *Model) onInspectLoaded(msg inspectLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.store.ShowToast("Não foi possível carregar as chamadas.", state.ToneError)
		return m, nil
	}
	m.inspect.open = true
	m.inspect.records = msg.records
	m.inspect.selected = 0
	m.inspect.query.SetValue("")
	m.inspect.queryFocused = false
	m.refreshInspectBody()
	return m, nil
}

func (m *Model) onInspectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+y":
		m.inspect.open = false
		return m, nil
	case "tab":
		m.inspect.queryFocused = !m.inspect.queryFocused
		if m.inspect.queryFocused {
			m.inspect.query.Focus()
		} else {
			m.inspect.query.Blur()
		}
		return m, nil
	}

	if m.inspect.queryFocused {
		var cmd tea.Cmd
		m.inspect.query, cmd = m.inspect.query.Update(msg)
		m.refreshInspectBody()
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.inspect.selected > 0 {
			m.inspect.selected--
			m.refreshInspectBody()
		}
		return m, nil
	case "down", "j":
		if m.inspect.selected < len(m.inspect.records)-1 {
			m.inspect.selected++
			m.refreshInspectBody()
		}
		return m, nil
	case "c":
		return m, m.copyInspectBody()
	}
	return m, nil
}

func (m *Model) copyInspectBody() tea.Cmd {
	body := m.inspect.body
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(body)}
	}
}

// refreshInspectBody projects the selected record's body through the
// current query. An invalid query shows the raw body plus its error.
func (m *Model) refreshInspectBody() {
	m.inspect.body = ""
	m.inspect.queryErr = ""
	if len(m.inspect.records) == 0 {
		return
	}
	rec := m.inspect.records[m.inspect.selected]
	body := rec.ResponseBody
	if body == "" {
		body = rec.RequestBody
	}

	projected, err := projectJSON(body, strings.TrimSpace(m.inspect.query.Value()))
	if err != nil {
		m.inspect.body = body
		m.inspect.queryErr = err.Error()
		return
	}
	m.inspect.body = projected
}

// projectJSON pretty-prints a JSON body, applying a jmespath expression
// first when one is given. Non-JSON bodies pass through untouched.
func projectJSON(body, query string) (string, error) {
	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return body, nil
	}
	if query != "" {
		result, err := jmespath.Search(query, doc)
		if err != nil {
			return "", fmt.Errorf("consulta inválida: %w", err)
		}
		doc = result
	}
	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return body, nil
	}
	return string(pretty), nil
}

// highlightJSON colorizes a JSON body for the terminal; on any failure the
// plain text is shown instead.
func highlightJSON(body string, theme state.Theme) string {
	style := "solarized-light"
	if theme == state.ThemeDark {
		style = "monokai"
	}
	var b strings.Builder
	if err := quick.Highlight(&b, body, "json", "terminal256", style); err != nil {
		return body
	}
	return b.String()
}

func (m *Model) renderInspect(s styles) string {
	var lines []string
	lines = append(lines, s.title.Render("Chamadas recentes"))
	if len(m.inspect.records) == 0 {
		lines = append(lines, s.subtle.Render("Nenhuma chamada registrada ainda."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, rec := range m.inspect.records {
		status := s.success.Render("ok")
		if rec.ErrorCode != "" {
			status = s.danger.Render(rec.ErrorCode)
		}
		line := fmt.Sprintf("%s  %s  %dms", rec.TS.Format("15:04:05"), rec.Action, rec.DurationMS)
		if i == m.inspect.selected {
			lines = append(lines, s.focusMark.Render("▸ ")+s.value.Render(line)+"  "+status)
		} else {
			lines = append(lines, "  "+s.subtle.Render(line)+"  "+status)
		}
	}

	lines = append(lines, "")
	lines = append(lines, fieldLine(s, m.inspect.queryFocused, "Filtro", m.inspect.query.View()))
	if m.inspect.queryErr != "" {
		lines = append(lines, s.danger.Render("  "+m.inspect.queryErr))
	}
	lines = append(lines, "")
	lines = append(lines, highlightJSON(m.inspect.body, m.st.Theme))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
