package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/omrstudio/pilotctl/internal/state"
)

// onKey routes a key press by surface. Modals win over the tour, which
// wins over the active view. Global chords use alt/ctrl so they never
// collide with typing.
func (m *Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.inspect.open {
		return m.onInspectKey(msg)
	}
	if m.st.IsSignupOpen {
		return m.onSignupKey(msg)
	}
	if m.tourShowing() {
		return m.onTourKey(msg)
	}
	if m.st.CurrentView == state.ViewLogin {
		return m.onLoginKey(msg)
	}

	// Shell chrome chords, available on every authenticated view.
	switch key {
	case "alt+1":
		return m, m.navigateTo(state.ViewDados)
	case "alt+2":
		return m, m.navigateTo(state.ViewTestDrive)
	case "alt+3":
		return m, m.navigateTo(state.ViewConexoes)
	case "alt+4":
		return m, m.navigateTo(state.ViewAjuda)
	case "alt+left":
		m.nav.Back()
		return m, nil
	case "alt+right":
		m.nav.Forward()
		return m, nil
	case "ctrl+t":
		m.toggleTheme()
		return m, nil
	case "ctrl+b":
		m.store.Commit("drawer:toggle", func(st *state.AppState) {
			st.IsDrawerOpen = !st.IsDrawerOpen
		})
		return m, nil
	case "ctrl+l":
		return m, m.submitLogout()
	case "ctrl+y":
		return m, m.openInspect()
	}

	switch m.st.CurrentView {
	case state.ViewDados:
		return m.onDadosKey(msg)
	case state.ViewTestDrive:
		return m.onTestDriveKey(msg)
	case state.ViewConexoes:
		return m.onConexoesKey(msg)
	case state.ViewAjuda:
		return m.onAjudaKey(msg)
	}
	return m, nil
}

// navigateTo commits a view change; the router mirrors it to the fragment.
func (m *Model) navigateTo(view state.View) tea.Cmd {
	if m.st.CurrentView == view {
		return nil
	}
	m.store.Commit("nav", func(st *state.AppState) {
		st.CurrentView = view
		st.IsDrawerOpen = false
	})
	return nil
}

func (m *Model) toggleTheme() {
	m.store.Commit("theme:toggle", func(st *state.AppState) {
		if st.Theme == state.ThemeDark {
			st.Theme = state.ThemeLight
		} else {
			st.Theme = state.ThemeDark
		}
	})
}

func (m *Model) onLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.loginInputs)
		m.applyLoginFocus()
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + len(m.loginInputs) - 1) % len(m.loginInputs)
		m.applyLoginFocus()
		return m, nil
	case "enter":
		return m, m.submitLogin()
	case "ctrl+n":
		m.store.Commit("signup:open", func(st *state.AppState) {
			st.IsSignupOpen = true
		})
		m.focus = 0
		m.applySignupFocus()
		return m, nil
	case "ctrl+d":
		// Demo shortcut: prefill throwaway credentials and submit.
		m.loginInputs[loginFieldEmail].SetValue("demo@pilotctl.local")
		m.loginInputs[loginFieldPassword].SetValue("demo")
		return m, m.submitLogin()
	case "ctrl+t":
		m.toggleTheme()
		return m, nil
	}

	var cmd tea.Cmd
	m.loginInputs[m.focus], cmd = m.loginInputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) applyLoginFocus() {
	for i := range m.loginInputs {
		if i == m.focus {
			m.loginInputs[i].Focus()
		} else {
			m.loginInputs[i].Blur()
		}
	}
}

func (m *Model) onSignupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.store.Commit("signup:close", func(st *state.AppState) {
			st.IsSignupOpen = false
		})
		m.focus = 0
		m.applyLoginFocus()
		return m, nil
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.signupInputs)
		m.applySignupFocus()
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + len(m.signupInputs) - 1) % len(m.signupInputs)
		m.applySignupFocus()
		return m, nil
	case "enter":
		if m.focus < len(m.signupInputs)-1 {
			m.focus++
			m.applySignupFocus()
			return m, nil
		}
		return m, m.submitSignup()
	}

	var cmd tea.Cmd
	m.signupInputs[m.focus], cmd = m.signupInputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) applySignupFocus() {
	for i := range m.signupInputs {
		if i == m.focus {
			m.signupInputs[i].Focus()
		} else {
			m.signupInputs[i].Blur()
		}
	}
}

func (m *Model) onDadosKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := m.dados.fieldCount()
	switch msg.String() {
	case "tab", "down":
		if count > 0 {
			m.focus = (m.focus + 1) % count
			m.applyDadosFocus()
		}
		return m, nil
	case "shift+tab", "up":
		if count > 0 {
			m.focus = (m.focus + count - 1) % count
			m.applyDadosFocus()
		}
		return m, nil
	case "ctrl+s", "enter":
		return m, m.submitDadosSave()
	case "ctrl+j":
		m.dados.addProduto()
		return m, nil
	case "ctrl+f":
		m.dados.addFaq()
		return m, nil
	case "ctrl+x":
		catalog, row := m.dados.rowAt(m.focus)
		switch catalog {
		case "produtos":
			m.dados.removeProduto(row)
		case "faqs":
			m.dados.removeFaq(row)
		}
		if m.focus >= m.dados.fieldCount() {
			m.focus = max(0, m.dados.fieldCount()-1)
		}
		m.applyDadosFocus()
		return m, nil
	case "ctrl+p":
		m.dados.persona = nextPersona(m.dados.persona)
		return m, nil
	}

	if in := m.dados.input(m.focus); in != nil {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) applyDadosFocus() {
	count := m.dados.fieldCount()
	for i := 0; i < count; i++ {
		in := m.dados.input(i)
		if i == m.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m *Model) onTestDriveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.submitChat()
	case "ctrl+p":
		m.cyclePersona()
		return m, nil
	case "ctrl+g":
		m.insertSuggestion()
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}

	if !m.chatInput.Focused() {
		m.chatInput.Focus()
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

// cyclePersona switches the simulator persona; the choice is state, not a
// buffer, so it survives view switches.
func (m *Model) cyclePersona() {
	m.store.Commit("chat:persona", func(st *state.AppState) {
		st.Forms.ChatPersona = nextPersona(st.Forms.ChatPersona)
	})
}

// insertSuggestion cycles the canned opening questions through the input.
func (m *Model) insertSuggestion() {
	current := m.chatInput.Value()
	for i, s := range chatSuggestions {
		if s == current {
			m.chatInput.SetValue(chatSuggestions[(i+1)%len(chatSuggestions)])
			m.chatInput.CursorEnd()
			return
		}
	}
	m.chatInput.SetValue(chatSuggestions[0])
	m.chatInput.CursorEnd()
}

func (m *Model) onConexoesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fieldCount := conexoesToggleCount + 1 // toggles plus the rejection message
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % fieldCount
		m.applyConexoesFocus()
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		m.applyConexoesFocus()
		return m, nil
	case " ", "enter":
		if m.focus < conexoesToggleCount {
			m.flipFocusedToggle()
			return m, nil
		}
	case "ctrl+r":
		return m, m.submitInstRefresh()
	case "ctrl+x":
		return m, m.submitInstDisconnect()
	case "ctrl+s":
		return m, m.submitInstSave()
	}

	if m.focus == conexoesToggleCount {
		var cmd tea.Cmd
		m.conexoes.rejectMsg, cmd = m.conexoes.rejectMsg.Update(msg)
		return m, cmd
	}
	return m, nil
}

// flipFocusedToggle edits the settings draft in the store, creating it from
// the committed settings on first touch.
func (m *Model) flipFocusedToggle() {
	idx := m.focus
	settings := m.currentSettings()
	flipToggle(&settings, idx)
	m.store.Commit("inst:draft", func(st *state.AppState) {
		draft := settings
		st.Forms.Instancias = &draft
	})
}

func (m *Model) applyConexoesFocus() {
	if m.focus == conexoesToggleCount {
		m.conexoes.rejectMsg.Focus()
	} else {
		m.conexoes.rejectMsg.Blur()
	}
}

const (
	ajudaFieldSupport = iota
	ajudaFieldSearch
)

func (m *Model) onAjudaKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focus = (m.focus + 1) % 2
		m.applyAjudaFocus()
		return m, nil
	case "enter":
		if m.focus == ajudaFieldSupport {
			return m, m.submitSupport()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == ajudaFieldSupport {
		if !m.supportInput.Focused() {
			m.supportInput.Focus()
		}
		m.supportInput, cmd = m.supportInput.Update(msg)
	} else {
		if !m.faqQuery.Focused() {
			m.faqQuery.Focus()
		}
		m.faqQuery, cmd = m.faqQuery.Update(msg)
	}
	return m, cmd
}

func (m *Model) applyAjudaFocus() {
	if m.focus == ajudaFieldSupport {
		m.supportInput.Focus()
		m.faqQuery.Blur()
	} else {
		m.faqQuery.Focus()
		m.supportInput.Blur()
	}
}
