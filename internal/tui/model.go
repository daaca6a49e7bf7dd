// Package tui is the terminal rendition of the pilot console. It follows
// the Elm shape end to end: the injected store owns the application state,
// every commit flows back in as one snapshot message, and View derives the
// whole screen from the latest snapshot plus per-widget editing buffers.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/omrstudio/pilotctl/internal/backend"
	"github.com/omrstudio/pilotctl/internal/events"
	"github.com/omrstudio/pilotctl/internal/history"
	"github.com/omrstudio/pilotctl/internal/router"
	"github.com/omrstudio/pilotctl/internal/state"
)

// resizeDebounce is how long a resize burst may settle before the layout
// commit happens.
const resizeDebounce = 180 * time.Millisecond

// Login/signup/dados field indexes, used by focus handling.
const (
	loginFieldEmail = iota
	loginFieldPassword
)

const (
	signupFieldName = iota
	signupFieldEmail
	signupFieldWhatsApp
	signupFieldPassword
)

type Model struct {
	store   *state.Store
	backend backend.Backend
	nav     *router.History
	archive *history.Manager // nil when the local archive is disabled
	logger  *slog.Logger

	eventsURL string

	st     state.AppState
	states chan state.AppState

	width, height int
	resizeGen     int

	// Per-view editing buffers. These are view models, not application
	// state: the store stays the single source of truth for anything a
	// reload must survive.
	loginInputs  []textinput.Model
	signupInputs []textinput.Model
	dados        dadosForm
	chatInput    textinput.Model
	chatView     viewport.Model
	supportInput textinput.Model
	faqQuery     textinput.Model

	focus int // focused widget within the active surface

	conexoes conexoesPanel
	inspect  inspectModal
	tour     string // lazily built, empty until first needed
	tourLoad bool

	eventCh     <-chan events.Event
	eventCancel context.CancelFunc
}

// New wires the console model. The store must already be hydrated; the
// router is expected to be running so CurrentView is authoritative.
func New(store *state.Store, be backend.Backend, nav *router.History, archive *history.Manager, eventsURL string, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		store:     store,
		backend:   be,
		nav:       nav,
		archive:   archive,
		logger:    logger,
		eventsURL: eventsURL,
		st:        store.Get(),
		states:    make(chan state.AppState, 64),
	}
	m.initInputs()
	m.syncDadosForm()
	m.syncConexoesDraft()

	store.Subscribe(m.pushState)
	return m
}

// pushState coalesces commits into the snapshot channel: when the loop is
// behind, the oldest pending snapshot is dropped in favor of the newest.
// Rendering only ever needs the latest state.
func (m *Model) pushState(st state.AppState) {
	for {
		select {
		case m.states <- st:
			return
		default:
			select {
			case <-m.states:
			default:
			}
		}
	}
}

func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateChangedMsg{st: <-m.states}
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForState(), textinput.Blink}
	if m.st.Auth.Authenticated() {
		cmds = append(cmds, m.fetchContextCmd(), m.loadChatHistoryCmd())
		if m.eventsURL != "" {
			cmds = append(cmds, m.subscribeEventsCmd())
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		return m.onStateChanged(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chatView.Width = max(20, msg.Width-8)
		m.chatView.Height = max(4, msg.Height-14)
		m.resizeGen++
		gen := m.resizeGen
		return m, tea.Tick(resizeDebounce, func(time.Time) tea.Msg {
			return resizeSettledMsg{gen: gen}
		})

	case resizeSettledMsg:
		// A newer resize restarted the window; let its tick do the work.
		if msg.gen != m.resizeGen {
			return m, nil
		}
		layout := state.LayoutFor(m.width)
		// Same layout, same render; the commit would only cause a
		// redundant re-render.
		if layout == m.st.Layout {
			return m, nil
		}
		m.store.Commit("layout:resize", func(st *state.AppState) {
			st.Layout = layout
		})
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)

	case loginResultMsg:
		return m.onLoginResult(msg)
	case signupResultMsg:
		return m.onSignupResult(msg)
	case logoutResultMsg:
		return m.onLogoutResult(msg)
	case contextResultMsg:
		return m.onContextResult(msg)
	case chatHistoryMsg:
		return m.onChatHistory(msg)
	case dadosSaveResultMsg:
		return m.onDadosSaveResult(msg)
	case chatResultMsg:
		return m.onChatResult(msg)
	case instResultMsg:
		return m.onInstResult(msg)
	case supportResultMsg:
		return m.onSupportResult(msg)
	case tourReadyMsg:
		return m.onTourReady(msg)
	case eventFeedOpenedMsg:
		m.eventCh = msg.ch
		return m, m.waitForEvent()
	case eventFeedMsg:
		return m.onEvent(msg)
	case eventFeedClosedMsg:
		return m.onEventFeedClosed()
	case inspectLoadedMsg:
		return m.onInspectLoaded(msg)
	case copiedMsg:
		if msg.err != nil {
			m.store.ShowToast("Não foi possível copiar.", state.ToneError)
		} else {
			m.store.ShowToast("Copiado!", state.ToneSuccess)
		}
		return m, nil
	}

	return m, m.updateFocusedInput(msg)
}

// onStateChanged is the single place a commit becomes visible to the view
// layer. The snapshot replaces the previous one wholesale.
func (m *Model) onStateChanged(msg stateChangedMsg) (tea.Model, tea.Cmd) {
	prev := m.st
	m.st = msg.st

	var cmds []tea.Cmd
	cmds = append(cmds, m.waitForState())

	// Crossing into an authenticated session pulls the workspace context
	// and, lazily, the first-run tour.
	if !prev.Auth.Authenticated() && m.st.Auth.Authenticated() {
		cmds = append(cmds, m.fetchContextCmd(), m.loadChatHistoryCmd())
		if m.eventsURL != "" {
			cmds = append(cmds, m.subscribeEventsCmd())
		}
	}
	if m.st.Auth.Authenticated() && m.st.IsTourVisible && m.tour == "" && !m.tourLoad {
		m.tourLoad = true
		cmds = append(cmds, m.loadTourCmd())
	}

	if prev.CurrentView != m.st.CurrentView {
		m.focus = 0
		m.applyViewFocus()
	}
	if m.st.CurrentView == state.ViewTestDrive {
		m.refreshChatView()
	}

	return m, tea.Batch(cmds...)
}

// applyViewFocus puts the cursor on the first widget of the active view.
func (m *Model) applyViewFocus() {
	switch m.st.CurrentView {
	case state.ViewLogin:
		m.applyLoginFocus()
	case state.ViewDados:
		m.applyDadosFocus()
	case state.ViewTestDrive:
		m.chatInput.Focus()
	case state.ViewConexoes:
		m.applyConexoesFocus()
	case state.ViewAjuda:
		m.applyAjudaFocus()
	}
}

// updateFocusedInput forwards non-key messages (cursor blink ticks) to the
// text inputs so their cursors stay alive.
func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := range m.loginInputs {
		var cmd tea.Cmd
		m.loginInputs[i], cmd = m.loginInputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	for i := range m.signupInputs {
		var cmd tea.Cmd
		m.signupInputs[i], cmd = m.signupInputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
