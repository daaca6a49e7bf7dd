package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/omrstudio/pilotctl/internal/api"
	"github.com/omrstudio/pilotctl/internal/events"
	"github.com/omrstudio/pilotctl/internal/state"
	"github.com/omrstudio/pilotctl/internal/types"
)

// Every submission follows the same machine: refuse while its pending flag
// is up, raise the flag in the same commit that records the draft, run the
// backend call off the loop, and settle flag + outcome in a single commit
// in the result handler. The draft survives failure and clears on success.

// submitLogin dispatches the credential exchange.
func (m *Model) submitLogin() tea.Cmd {
	if m.st.Pending.Login {
		return nil
	}
	email := strings.TrimSpace(m.loginInputs[loginFieldEmail].Value())
	password := m.loginInputs[loginFieldPassword].Value()
	if email == "" || password == "" {
		m.store.ShowToast("Preencha e-mail e senha.", state.ToneError)
		return nil
	}

	m.store.Commit("login:submit", func(st *state.AppState) {
		st.Pending.Login = true
		st.Forms.Login.Email = email
	})

	be := m.backend
	return func() tea.Msg {
		session, err := be.Login(context.Background(), email, password)
		return loginResultMsg{session: session, err: err}
	}
}

func (m *Model) onLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.store.Commit("login:failure", func(st *state.AppState) {
			st.Pending.Login = false
		})
		m.loginInputs[loginFieldPassword].SetValue("")
		m.store.ShowToast(api.AsError(msg.err).Message, state.ToneError)
		return m, nil
	}

	session := msg.session
	m.store.Commit("login:success", func(st *state.AppState) {
		st.Pending.Login = false
		user := session.User
		st.Auth = state.Auth{User: &user, SessionToken: session.SessionToken}
		st.CurrentView = state.DefaultView
		st.Forms.Login = state.LoginForm{}
	})
	m.loginInputs[loginFieldEmail].SetValue("")
	m.loginInputs[loginFieldPassword].SetValue("")
	m.store.ShowToast("Bem-vindo de volta!", state.ToneSuccess)
	// Context and transcript loading are triggered by the auth transition
	// in onStateChanged.
	return m, nil
}

func (m *Model) submitSignup() tea.Cmd {
	req := types.SignupRequest{
		FullName: strings.TrimSpace(m.signupInputs[signupFieldName].Value()),
		Email:    strings.TrimSpace(m.signupInputs[signupFieldEmail].Value()),
		WhatsApp: strings.TrimSpace(m.signupInputs[signupFieldWhatsApp].Value()),
		Password: m.signupInputs[signupFieldPassword].Value(),
	}
	if req.Email == "" || req.Password == "" {
		m.store.ShowToast("Preencha pelo menos e-mail e senha.", state.ToneError)
		return nil
	}

	be := m.backend
	return func() tea.Msg {
		return signupResultMsg{err: be.Signup(context.Background(), req)}
	}
}

func (m *Model) onSignupResult(msg signupResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.store.ShowToast(api.AsError(msg.err).Message, state.ToneError)
		return m, nil
	}
	m.store.Commit("signup:success", func(st *state.AppState) {
		st.IsSignupOpen = false
	})
	for i := range m.signupInputs {
		m.signupInputs[i].SetValue("")
	}
	m.store.ShowToast("Solicitação enviada! Vamos entrar em contato.", state.ToneSuccess)
	return m, nil
}

func (m *Model) submitLogout() tea.Cmd {
	be := m.backend
	return func() tea.Msg {
		return logoutResultMsg{err: be.Logout(context.Background())}
	}
}

func (m *Model) onLogoutResult(msg logoutResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.store.ShowToast(api.AsError(msg.err).Message, state.ToneError)
		return m, nil
	}
	if m.eventCancel != nil {
		m.eventCancel()
		m.eventCancel = nil
	}
	m.store.Commit("logout", func(st *state.AppState) {
		st.ResetForLogout()
	})
	m.syncDadosForm()
	m.syncConexoesDraft()
	return m, nil
}

// fetchContextCmd loads the workspace after authentication.
func (m *Model) fetchContextCmd() tea.Cmd {
	be := m.backend
	return func() tea.Msg {
		ws, err := be.FetchContext(context.Background())
		return contextResultMsg{ws: ws, err: err}
	}
}

func (m *Model) onContextResult(msg contextResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.store.ShowToast(api.AsError(msg.err).Message, state.ToneError)
		return m, nil
	}
	ws := msg.ws
	m.store.Commit("context:loaded", func(st *state.AppState) {
		st.Empresa = ws.Empresa.Clone()
		st.Instancias = types.CloneInstancias(ws.Instancias)
		st.HasHydrated = true
	})
	m.syncDadosForm()
	m.syncConexoesDraft()
	m.applyViewFocus()
	return m, nil
}

// loadChatHistoryCmd restores the simulator transcript from the archive.
func (m *Model) loadChatHistoryCmd() tea.Cmd {
	if m.archive == nil {
		return nil
	}
	archive := m.archive
	userID := ""
	if m.st.Auth.User != nil {
		userID = m.st.Auth.User.ID
	}
	logger := m.logger
	return func() tea.Msg {
		messages, err := archive.LoadChat(userID)
		if err != nil {
			logger.Warn("load chat transcript failed", "error", err)
			return chatHistoryMsg{}
		}
		return chatHistoryMsg{messages: messages}
	}
}

func (m *Model) onChatHistory(msg chatHistoryMsg) (tea.Model, tea.Cmd) {
	if len(msg.messages) == 0 {
		return m, nil
	}
	messages := msg.messages
	m.store.Commit("chat:restore", func(st *state.AppState) {
		// An already-started transcript wins over the archived one.
		if len(st.Chat.Messages) == 0 {
			st.Chat.Messages = messages
		}
	})
	return m, nil
}

func (m *Model) submitDadosSave() tea.Cmd {
	if m.st.Pending.DadosSave {
		return nil
	}
	payload := m.dados.collect()
	if payload.Empresa.Nome == "" {
		m.store.ShowToast("Informe o nome do negócio.", state.ToneError)
		return nil
	}

	m.store.Commit("dados:submit", func(st *state.AppState) {
		st.Pending.DadosSave = true
		draft := payload.Clone()
		st.Forms.Dados = &draft
	})

	be := m.backend
	return func() tea.Msg {
		ws, err := be.SaveDados(context.Background(), payload)
		return dadosSaveResultMsg{ws: ws, err: err}
	}
}

func (m *Model) onDadosSaveResult(msg dadosSaveResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The draft stays; the user keeps everything typed so far.
		m.store.Commit("dados:failure", func(st *state.AppState) {
			st.Pending.DadosSave = false
		})
		m.store.ShowToast(api.AsError(msg.err).Message, state.ToneError)
		return m, nil
	}
	ws := msg.ws
	m.store.Commit("dados:success", func(st *state.AppState) {
		st.Pending.DadosSave = false
		st.Forms.Dados = nil
		st.Empresa = ws.Empresa.Clone()
		if len(ws.Instancias) > 0 {
			st.Instancias = types.CloneInstancias(ws.Instancias)
		}
	})
	m.syncDadosForm()
	m.store.ShowToast("Dados salvos!", state.ToneSuccess)
	return m, nil
}

func (m *Model) submitChat() tea.Cmd {
	if m.st.Pending.ChatSend {
		return nil
	}
	text := strings.TrimSpace(m.chatInput.Value())
	if text == "" {
		return nil
	}
	persona := m.st.Forms.ChatPersona
	if persona == "" {
		persona = state.DefaultPersona
	}

	userMsg := types.NewChatMessage("Você", types.ChatRoleUser, text)
	m.store.Commit("chat:submit", func(st *state.AppState) {
		st.Pending.ChatSend = true
		st.Chat.Messages = append(st.Chat.Messages, userMsg)
	})
	m.chatInput.SetValue("")
	m.archiveChat(userMsg)

	be := m.backend
	return func() tea.Msg {
		reply, err := be.SendChat(context.Background(), persona, text)
		return chatResultMsg{reply: reply, err: err}
	}
}

func (m *Model) onChatResult(msg chatResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.store.Commit("chat:failure", func(st *state.AppState) {
			st.Pending.ChatSend = false
		})
		m.store.ShowToast(api.AsError(msg.err).Message, state.ToneError)
		return m, nil
	}
	persona := m.st.Forms.ChatPersona
	if persona == "" {
		persona = state.DefaultPersona
	}
	agentMsg := types.NewChatMessage(personaDisplayName(persona), types.ChatRoleAgent, msg.reply)
	m.store.Commit("chat:success", func(st *state.AppState) {
		st.Pending.ChatSend = false
		st.Chat.Messages = append(st.Chat.Messages, agentMsg)
	})
	m.archiveChat(agentMsg)
	return m, nil
}

func (m *Model) archiveChat(msg types.ChatMessage) {
	if m.archive == nil || m.st.Auth.User == nil {
		return
	}
	if err := m.archive.SaveChatMessage(m.st.Auth.User.ID, msg); err != nil {
		m.logger.Warn("archive chat message failed", "error", err)
	}
}

func (m *Model) submitInstRefresh() tea.Cmd {
	if m.st.Pending.InstRefresh {
		return nil
	}
	inst := m.selectedInstance()
	if inst == nil {
		m.store.ShowToast("Nenhuma instância configurada.", state.ToneInfo)
		return nil
	}
	id := inst.ID
	m.store.Commit("inst:refresh:submit", func(st *state.AppState) {
		st.Pending.InstRefresh = true
	})

	be := m.backend
	return func() tea.Msg {
		updated, err := be.RefreshInstance(context.Background(), id)
		return instResultMsg{op: instOpRefresh, inst: updated, err: err}
	}
}

func (m *Model) submitInstDisconnect() tea.Cmd {
	if m.st.Pending.InstDisconnect {
		return nil
	}
	inst := m.selectedInstance()
	if inst == nil {
		m.store.ShowToast("Nenhuma instância configurada.", state.ToneInfo)
		return nil
	}
	id := inst.ID
	m.store.Commit("inst:disconnect:submit", func(st *state.AppState) {
		st.Pending.InstDisconnect = true
	})

	be := m.backend
	return func() tea.Msg {
		updated, err := be.DisconnectInstance(context.Background(), id)
		return instResultMsg{op: instOpDisconnect, inst: updated, err: err}
	}
}

func (m *Model) submitInstSave() tea.Cmd {
	if m.st.Pending.InstSave {
		return nil
	}
	inst := m.selectedInstance()
	if inst == nil {
		m.store.ShowToast("Nenhuma instância configurada.", state.ToneInfo)
		return nil
	}
	id := inst.ID
	settings := m.currentSettings()
	settings.MensagemRejeicao = strings.TrimSpace(m.conexoes.rejectMsg.Value())

	m.store.Commit("inst:save:submit", func(st *state.AppState) {
		st.Pending.InstSave = true
		draft := settings
		st.Forms.Instancias = &draft
	})

	be := m.backend
	return func() tea.Msg {
		updated, err := be.SaveInstance(context.Background(), id, settings)
		return instResultMsg{op: instOpSave, inst: updated, err: err}
	}
}

func (m *Model) onInstResult(msg instResultMsg) (tea.Model, tea.Cmd) {
	settle := func(st *state.AppState) {
		switch msg.op {
		case instOpRefresh:
			st.Pending.InstRefresh = false
		case instOpDisconnect:
			st.Pending.InstDisconnect = false
		case instOpSave:
			st.Pending.InstSave = false
		}
	}

	if msg.err != nil {
		m.store.Commit("inst:"+msg.op+":failure", settle)
		m.store.ShowToast(api.AsError(msg.err).Message, state.ToneError)
		return m, nil
	}

	updated := msg.inst
	m.store.Commit("inst:"+msg.op+":success", func(st *state.AppState) {
		settle(st)
		replaceInstance(st, updated)
		if msg.op == instOpSave {
			st.Forms.Instancias = nil
		}
	})
	if msg.op == instOpSave {
		m.syncConexoesDraft()
		m.store.ShowToast("Preferências salvas!", state.ToneSuccess)
	}
	return m, nil
}

// replaceInstance swaps the updated instance into the committed list by id,
// keeping the locally accumulated event log.
func replaceInstance(st *state.AppState, updated *types.Instancia) {
	if updated == nil {
		return
	}
	for i := range st.Instancias {
		if st.Instancias[i].ID == updated.ID {
			logs := st.Instancias[i].Logs
			st.Instancias[i] = updated.Clone()
			st.Instancias[i].Logs = logs
			return
		}
	}
	st.Instancias = append(st.Instancias, updated.Clone())
}

func (m *Model) submitSupport() tea.Cmd {
	if m.st.Pending.SupportSend {
		return nil
	}
	text := strings.TrimSpace(m.supportInput.Value())
	if text == "" {
		m.store.ShowToast("Escreva sua mensagem.", state.ToneError)
		return nil
	}

	m.store.Commit("support:submit", func(st *state.AppState) {
		st.Pending.SupportSend = true
		st.Forms.Support = text
	})

	be := m.backend
	return func() tea.Msg {
		reply, err := be.SendSupport(context.Background(), text)
		return supportResultMsg{reply: reply, err: err}
	}
}

func (m *Model) onSupportResult(msg supportResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.store.Commit("support:failure", func(st *state.AppState) {
			st.Pending.SupportSend = false
		})
		m.store.ShowToast(api.AsError(msg.err).Message, state.ToneError)
		return m, nil
	}
	m.store.Commit("support:success", func(st *state.AppState) {
		st.Pending.SupportSend = false
		st.Forms.Support = ""
	})
	m.supportInput.SetValue("")
	reply := msg.reply
	if reply == "" {
		reply = "Mensagem enviada!"
	}
	m.store.ShowToast(reply, state.ToneSuccess)
	return m, nil
}

// subscribeEventsCmd opens the instance event feed. The channel lands back
// in the model via eventFeedOpenedMsg and is then drained one event per
// command, the usual bubbletea listening loop.
func (m *Model) subscribeEventsCmd() tea.Cmd {
	if m.eventCancel != nil {
		m.eventCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.eventCancel = cancel

	url := m.eventsURL
	token := m.st.Auth.SessionToken
	logger := m.logger
	return func() tea.Msg {
		stream := events.New(url, token, logger)
		ch, err := stream.Run(ctx)
		if err != nil {
			logger.Warn("event feed unavailable", "error", err)
			return eventFeedClosedMsg{}
		}
		return eventFeedOpenedMsg{ch: ch}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	ch := m.eventCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventFeedClosedMsg{}
		}
		return eventFeedMsg{ev: ev}
	}
}

func (m *Model) onEvent(msg eventFeedMsg) (tea.Model, tea.Cmd) {
	ev := msg.ev
	m.store.Commit("inst:event", func(st *state.AppState) {
		for i := range st.Instancias {
			if st.Instancias[i].ID != ev.InstanceID {
				continue
			}
			if ev.Status != "" {
				st.Instancias[i].Status = ev.Status
			}
			st.Instancias[i].LastEvent = ev.Message
			st.Instancias[i].Logs = append(st.Instancias[i].Logs, types.InstanciaEvent{
				TS:      ev.TS,
				Message: ev.Message,
			})
		}
	})
	return m, m.waitForEvent()
}

func (m *Model) onEventFeedClosed() (tea.Model, tea.Cmd) {
	// Stay quiet; the connections tab shows the last known state. The
	// feed comes back on the next authenticated transition.
	m.eventCh = nil
	return m, nil
}
