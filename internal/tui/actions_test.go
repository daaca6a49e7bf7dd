package tui

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/omrstudio/pilotctl/internal/api"
	"github.com/omrstudio/pilotctl/internal/backend"
	"github.com/omrstudio/pilotctl/internal/events"
	"github.com/omrstudio/pilotctl/internal/router"
	"github.com/omrstudio/pilotctl/internal/state"
	"github.com/omrstudio/pilotctl/internal/types"
)

// stubBackend records calls and answers from canned fields.
type stubBackend struct {
	mu    sync.Mutex
	calls []string

	session  *types.Session
	loginErr error

	signupErr error

	ws       *types.Workspace
	fetchErr error

	savedPayload *types.DadosPayload
	saveWS       *types.Workspace
	saveErr      error

	chatPersona string
	chatReply   string
	chatErr     error

	inst    *types.Instancia
	instErr error

	savedSettings *types.InstanciaSettings

	supportReply string
	supportErr   error
}

func (b *stubBackend) record(name string) {
	b.mu.Lock()
	b.calls = append(b.calls, name)
	b.mu.Unlock()
}

func (b *stubBackend) callCount(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (b *stubBackend) Login(ctx context.Context, email, password string) (*types.Session, error) {
	b.record("login")
	if b.loginErr != nil {
		return nil, b.loginErr
	}
	return b.session, nil
}

func (b *stubBackend) Signup(ctx context.Context, req types.SignupRequest) error {
	b.record("signup")
	return b.signupErr
}

func (b *stubBackend) Logout(ctx context.Context) error {
	b.record("logout")
	return nil
}

func (b *stubBackend) FetchContext(ctx context.Context) (*types.Workspace, error) {
	b.record("fetch")
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	return b.ws, nil
}

func (b *stubBackend) SaveDados(ctx context.Context, payload types.DadosPayload) (*types.Workspace, error) {
	b.record("save-dados")
	b.mu.Lock()
	p := payload.Clone()
	b.savedPayload = &p
	b.mu.Unlock()
	if b.saveErr != nil {
		return nil, b.saveErr
	}
	return b.saveWS, nil
}

func (b *stubBackend) SendChat(ctx context.Context, persona, message string) (string, error) {
	b.record("chat")
	b.mu.Lock()
	b.chatPersona = persona
	b.mu.Unlock()
	if b.chatErr != nil {
		return "", b.chatErr
	}
	return b.chatReply, nil
}

func (b *stubBackend) RefreshInstance(ctx context.Context, instanceID string) (*types.Instancia, error) {
	b.record("inst-refresh")
	if b.instErr != nil {
		return nil, b.instErr
	}
	return b.inst, nil
}

func (b *stubBackend) DisconnectInstance(ctx context.Context, instanceID string) (*types.Instancia, error) {
	b.record("inst-disconnect")
	if b.instErr != nil {
		return nil, b.instErr
	}
	return b.inst, nil
}

func (b *stubBackend) SaveInstance(ctx context.Context, instanceID string, settings types.InstanciaSettings) (*types.Instancia, error) {
	b.record("inst-save")
	b.mu.Lock()
	s := settings
	b.savedSettings = &s
	b.mu.Unlock()
	if b.instErr != nil {
		return nil, b.instErr
	}
	return b.inst, nil
}

func (b *stubBackend) SendSupport(ctx context.Context, message string) (string, error) {
	b.record("support")
	if b.supportErr != nil {
		return "", b.supportErr
	}
	return b.supportReply, nil
}

var _ backend.Backend = (*stubBackend)(nil)

func newTestStore() *state.Store {
	return state.New(&state.MemoryPersister{}, slog.New(slog.DiscardHandler), 100)
}

func newTestModel(store *state.Store, be backend.Backend) *Model {
	m := New(store, be, router.NewHistory(""), nil, "", slog.New(slog.DiscardHandler))
	m.width, m.height = 100, 32
	return m
}

// drain applies every queued snapshot, leaving the model on the latest one,
// the way the running program does between commands.
func drain(m *Model) {
	for {
		select {
		case st := <-m.states:
			m.st = st
		default:
			return
		}
	}
}

// seedWorkspace commits an authenticated session with a small profile and
// one connected instance.
func seedWorkspace(store *state.Store) {
	store.Commit("seed", func(st *state.AppState) {
		st.Auth = state.Auth{
			User:         &types.User{ID: "u1", Email: "dona@exemplo.com"},
			SessionToken: "tok-1",
		}
		st.CurrentView = state.ViewDados
		st.IsTourVisible = false
		st.HasHydrated = true
		st.Empresa = &types.Empresa{
			ID: "e1",
			EmpresaFields: types.EmpresaFields{
				Nome:    "Padaria da Praça",
				Persona: "josi",
			},
			Produtos: []types.Produto{{ID: "p1", Nome: "Pão francês", Preco: "1,20"}},
			Faqs:     []types.Faq{{ID: "f1", Pergunta: "Vocês fazem entrega?", Resposta: "Sim, no bairro."}},
		}
		st.Instancias = []types.Instancia{{
			ID:     "inst-1",
			Status: types.InstanceStatusConnected,
			Logs:   []types.InstanciaEvent{{TS: 1, Message: "conectado"}},
		}}
	})
}

func TestLoginHappyPath(t *testing.T) {
	be := &stubBackend{session: &types.Session{
		User:         types.User{ID: "u1", Email: "dona@exemplo.com"},
		SessionToken: "tok-1",
	}}
	m := newTestModel(newTestStore(), be)

	m.loginInputs[loginFieldEmail].SetValue("dona@exemplo.com")
	m.loginInputs[loginFieldPassword].SetValue("segredo")

	cmd := m.submitLogin()
	if cmd == nil {
		t.Fatal("expected a dispatch command")
	}
	drain(m)
	if !m.st.Pending.Login {
		t.Error("pending flag should be up while the call is in flight")
	}
	if m.st.Forms.Login.Email != "dona@exemplo.com" {
		t.Errorf("typed e-mail not recorded: %q", m.st.Forms.Login.Email)
	}

	m.Update(cmd())
	drain(m)

	if m.st.Pending.Login {
		t.Error("pending flag should settle with the result")
	}
	if !m.st.Auth.Authenticated() {
		t.Fatal("expected an authenticated session")
	}
	if m.st.Auth.User.Email != "dona@exemplo.com" {
		t.Errorf("wrong user: %+v", m.st.Auth.User)
	}
	if m.st.CurrentView != state.DefaultView {
		t.Errorf("expected landing on %s, got %s", state.DefaultView, m.st.CurrentView)
	}
	if m.st.Forms.Login.Email != "" {
		t.Error("login form should clear on success")
	}
	if m.loginInputs[loginFieldPassword].Value() != "" {
		t.Error("password buffer should clear on success")
	}
}

func TestLoginFailureKeepsEmail(t *testing.T) {
	be := &stubBackend{loginErr: api.NewError(api.CodeAuthInvalid, "E-mail ou senha incorretos.")}
	m := newTestModel(newTestStore(), be)

	m.loginInputs[loginFieldEmail].SetValue("dona@exemplo.com")
	m.loginInputs[loginFieldPassword].SetValue("errada")

	cmd := m.submitLogin()
	m.Update(cmd())
	drain(m)

	if m.st.Pending.Login {
		t.Error("pending flag should settle on failure")
	}
	if m.st.Auth.Authenticated() {
		t.Error("a failed login must not authenticate")
	}
	if m.st.Forms.Login.Email != "dona@exemplo.com" {
		t.Error("the typed e-mail should survive a failed attempt")
	}
	if m.loginInputs[loginFieldEmail].Value() != "dona@exemplo.com" {
		t.Error("e-mail buffer should survive a failed attempt")
	}
	if m.loginInputs[loginFieldPassword].Value() != "" {
		t.Error("password buffer should clear on failure")
	}
	if m.st.Toast == nil || m.st.Toast.Message != "E-mail ou senha incorretos." {
		t.Errorf("expected the provider message in the toast, got %+v", m.st.Toast)
	}
}

func TestLoginRefusedWhilePending(t *testing.T) {
	be := &stubBackend{session: &types.Session{SessionToken: "tok-1"}}
	m := newTestModel(newTestStore(), be)

	m.loginInputs[loginFieldEmail].SetValue("dona@exemplo.com")
	m.loginInputs[loginFieldPassword].SetValue("segredo")

	if cmd := m.submitLogin(); cmd == nil {
		t.Fatal("first submission should dispatch")
	}
	drain(m)
	if cmd := m.submitLogin(); cmd != nil {
		t.Error("second submission should be refused while pending")
	}
	if got := be.callCount("login"); got != 0 {
		t.Errorf("backend reached before the command ran: %d calls", got)
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	m := newTestModel(newTestStore(), &stubBackend{})
	m.loginInputs[loginFieldEmail].SetValue("dona@exemplo.com")

	if cmd := m.submitLogin(); cmd != nil {
		t.Error("missing password should not dispatch")
	}
	drain(m)
	if m.st.Pending.Login {
		t.Error("refused submission must not raise the flag")
	}
	if m.st.Toast == nil || m.st.Toast.Tone != state.ToneError {
		t.Error("expected an error toast")
	}
}

func TestDadosSaveFailureKeepsDraft(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	be := &stubBackend{saveErr: api.NewError(api.CodeInternal, "Algo deu errado.")}
	m := newTestModel(store, be)

	m.dados.profile[dadosFieldNome].SetValue("Padaria Nova")
	m.dados.profile[dadosFieldHorario].SetValue("6h às 18h")

	cmd := m.submitDadosSave()
	if cmd == nil {
		t.Fatal("expected a dispatch command")
	}
	drain(m)
	if !m.st.Pending.DadosSave {
		t.Error("pending flag should be up")
	}
	if m.st.Forms.Dados == nil || m.st.Forms.Dados.Empresa.Nome != "Padaria Nova" {
		t.Fatalf("draft not recorded with the submission: %+v", m.st.Forms.Dados)
	}

	m.Update(cmd())
	drain(m)

	if m.st.Pending.DadosSave {
		t.Error("pending flag should settle on failure")
	}
	if m.st.Forms.Dados == nil {
		t.Fatal("draft must survive a failed save")
	}
	if m.st.Forms.Dados.Empresa.HorarioFuncionamento != "6h às 18h" {
		t.Errorf("draft lost edits: %+v", m.st.Forms.Dados.Empresa)
	}
	if m.st.Empresa.Nome != "Padaria da Praça" {
		t.Error("committed profile must not change on failure")
	}
	if m.dados.profile[dadosFieldNome].Value() != "Padaria Nova" {
		t.Error("editing buffers must keep the typed values")
	}
}

func TestDadosSaveSuccessClearsDraft(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	be := &stubBackend{saveWS: &types.Workspace{
		Empresa: &types.Empresa{
			ID:            "e1",
			EmpresaFields: types.EmpresaFields{Nome: "Padaria Nova", Persona: "josi"},
			Produtos:      []types.Produto{{ID: "p1", Nome: "Pão francês", Preco: "1,20"}},
		},
	}}
	m := newTestModel(store, be)

	m.dados.profile[dadosFieldNome].SetValue("Padaria Nova")
	cmd := m.submitDadosSave()
	m.Update(cmd())
	drain(m)

	if m.st.Forms.Dados != nil {
		t.Error("draft should clear on success")
	}
	if m.st.Empresa.Nome != "Padaria Nova" {
		t.Errorf("committed profile should adopt the saved workspace, got %q", m.st.Empresa.Nome)
	}
	if m.st.Toast == nil || m.st.Toast.Message != "Dados salvos!" {
		t.Errorf("expected the save confirmation toast, got %+v", m.st.Toast)
	}
	if be.savedPayload == nil || be.savedPayload.Empresa.Nome != "Padaria Nova" {
		t.Errorf("backend received the wrong payload: %+v", be.savedPayload)
	}
}

func TestDadosSaveRequiresNome(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	m := newTestModel(store, &stubBackend{})

	m.dados.profile[dadosFieldNome].SetValue("   ")
	if cmd := m.submitDadosSave(); cmd != nil {
		t.Error("an empty business name must not dispatch")
	}
	drain(m)
	if m.st.Pending.DadosSave {
		t.Error("refused submission must not raise the flag")
	}
}

func TestChatRoundTrip(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	be := &stubBackend{chatReply: "Temos pão francês a R$ 1,20!"}
	m := newTestModel(store, be)

	m.chatInput.SetValue("Quais são os preços?")
	cmd := m.submitChat()
	if cmd == nil {
		t.Fatal("expected a dispatch command")
	}
	drain(m)

	if !m.st.Pending.ChatSend {
		t.Error("pending flag should be up")
	}
	if len(m.st.Chat.Messages) != 1 {
		t.Fatalf("expected the optimistic user bubble, got %d messages", len(m.st.Chat.Messages))
	}
	if got := m.st.Chat.Messages[0]; got.Role != types.ChatRoleUser || got.Message != "Quais são os preços?" {
		t.Errorf("wrong optimistic bubble: %+v", got)
	}
	if m.chatInput.Value() != "" {
		t.Error("chat input should clear on dispatch")
	}
	if m.submitChat() != nil {
		t.Error("a second send should be refused while pending")
	}

	m.Update(cmd())
	drain(m)

	if m.st.Pending.ChatSend {
		t.Error("pending flag should settle with the reply")
	}
	if len(m.st.Chat.Messages) != 2 {
		t.Fatalf("expected the agent bubble, got %d messages", len(m.st.Chat.Messages))
	}
	agent := m.st.Chat.Messages[1]
	if agent.Role != types.ChatRoleAgent || agent.Message != "Temos pão francês a R$ 1,20!" {
		t.Errorf("wrong agent bubble: %+v", agent)
	}
	if agent.Author != personaDisplayName(state.DefaultPersona) {
		t.Errorf("agent bubble should carry the persona name, got %q", agent.Author)
	}
	if be.chatPersona != state.DefaultPersona {
		t.Errorf("backend should receive the selected persona, got %q", be.chatPersona)
	}
}

func TestChatFailureKeepsUserBubble(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	be := &stubBackend{chatErr: api.NewError(api.CodeRequestTimeout, "Tempo limite excedido.")}
	m := newTestModel(store, be)

	m.chatInput.SetValue("Oi!")
	cmd := m.submitChat()
	m.Update(cmd())
	drain(m)

	if m.st.Pending.ChatSend {
		t.Error("pending flag should settle on failure")
	}
	if len(m.st.Chat.Messages) != 1 {
		t.Errorf("the user bubble stays even when the reply fails, got %d messages", len(m.st.Chat.Messages))
	}
	if m.st.Toast == nil || m.st.Toast.Message != "Tempo limite excedido." {
		t.Errorf("expected the timeout message, got %+v", m.st.Toast)
	}
}

func TestChatIgnoresEmptyInput(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	m := newTestModel(store, &stubBackend{})

	m.chatInput.SetValue("   ")
	if cmd := m.submitChat(); cmd != nil {
		t.Error("whitespace-only input must not dispatch")
	}
}

func TestInstSaveRoundTrip(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	be := &stubBackend{inst: &types.Instancia{
		ID:     "inst-1",
		Status: types.InstanceStatusConnected,
		InstanciaSettings: types.InstanciaSettings{
			RejeitarChamadas: true,
			MensagemRejeicao: "Só atendemos por mensagem.",
		},
	}}
	m := newTestModel(store, be)

	m.focus = 0 // "rejeitar chamadas" toggle
	m.flipFocusedToggle()
	drain(m)
	if m.st.Forms.Instancias == nil || !m.st.Forms.Instancias.RejeitarChamadas {
		t.Fatalf("toggle should land in the settings draft: %+v", m.st.Forms.Instancias)
	}

	m.conexoes.rejectMsg.SetValue("  Só atendemos por mensagem.  ")
	cmd := m.submitInstSave()
	if cmd == nil {
		t.Fatal("expected a dispatch command")
	}
	drain(m)
	if !m.st.Pending.InstSave {
		t.Error("pending flag should be up")
	}

	m.Update(cmd())
	drain(m)

	if m.st.Pending.InstSave {
		t.Error("pending flag should settle")
	}
	if m.st.Forms.Instancias != nil {
		t.Error("settings draft should clear on success")
	}
	if be.savedSettings == nil {
		t.Fatal("backend never saw the settings")
	}
	if !be.savedSettings.RejeitarChamadas {
		t.Error("toggle value lost on the way to the backend")
	}
	if be.savedSettings.MensagemRejeicao != "Só atendemos por mensagem." {
		t.Errorf("rejection message should be trimmed, got %q", be.savedSettings.MensagemRejeicao)
	}
	if len(m.st.Instancias) != 1 || !m.st.Instancias[0].RejeitarChamadas {
		t.Errorf("committed instance should adopt the saved settings: %+v", m.st.Instancias)
	}
}

func TestInstSaveFailureKeepsDraft(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	be := &stubBackend{instErr: api.NewError(api.CodeInternal, "Algo deu errado.")}
	m := newTestModel(store, be)

	m.focus = 1 // "ignorar grupos"
	m.flipFocusedToggle()
	drain(m)

	cmd := m.submitInstSave()
	m.Update(cmd())
	drain(m)

	if m.st.Pending.InstSave {
		t.Error("pending flag should settle on failure")
	}
	if m.st.Forms.Instancias == nil || !m.st.Forms.Instancias.IgnorarGrupos {
		t.Errorf("settings draft must survive a failed save: %+v", m.st.Forms.Instancias)
	}
}

func TestInstResultKeepsEventLog(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	be := &stubBackend{inst: &types.Instancia{
		ID:     "inst-1",
		Status: types.InstanceStatusConnecting,
		// The backend never returns the locally accumulated log.
	}}
	m := newTestModel(store, be)

	cmd := m.submitInstRefresh()
	m.Update(cmd())
	drain(m)

	if len(m.st.Instancias) != 1 {
		t.Fatalf("expected one instance, got %d", len(m.st.Instancias))
	}
	inst := m.st.Instancias[0]
	if inst.Status != types.InstanceStatusConnecting {
		t.Errorf("status not updated: %q", inst.Status)
	}
	if len(inst.Logs) != 1 || inst.Logs[0].Message != "conectado" {
		t.Errorf("local event log lost on replace: %+v", inst.Logs)
	}
}

func TestInstOpsWithoutInstance(t *testing.T) {
	store := newTestStore()
	store.Commit("seed", func(st *state.AppState) {
		st.Auth = state.Auth{SessionToken: "tok-1"}
		st.CurrentView = state.ViewConexoes
	})
	m := newTestModel(store, &stubBackend{})

	if m.submitInstRefresh() != nil || m.submitInstDisconnect() != nil || m.submitInstSave() != nil {
		t.Error("instance operations must not dispatch without an instance")
	}
	drain(m)
	if m.st.Toast == nil || m.st.Toast.Tone != state.ToneInfo {
		t.Errorf("expected an informational toast, got %+v", m.st.Toast)
	}
}

func TestSupportRoundTrip(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	be := &stubBackend{supportReply: "Recebemos sua mensagem!"}
	m := newTestModel(store, be)

	m.supportInput.SetValue("O atendente parou de responder.")
	cmd := m.submitSupport()
	if cmd == nil {
		t.Fatal("expected a dispatch command")
	}
	drain(m)
	if !m.st.Pending.SupportSend {
		t.Error("pending flag should be up")
	}
	if m.st.Forms.Support != "O atendente parou de responder." {
		t.Errorf("draft not recorded: %q", m.st.Forms.Support)
	}

	m.Update(cmd())
	drain(m)

	if m.st.Pending.SupportSend {
		t.Error("pending flag should settle")
	}
	if m.st.Forms.Support != "" {
		t.Error("support draft should clear on success")
	}
	if m.supportInput.Value() != "" {
		t.Error("support buffer should clear on success")
	}
	if m.st.Toast == nil || m.st.Toast.Message != "Recebemos sua mensagem!" {
		t.Errorf("expected the acknowledgement toast, got %+v", m.st.Toast)
	}
}

func TestLogoutResetsEverything(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	store.Commit("chat", func(st *state.AppState) {
		st.Chat.Messages = []types.ChatMessage{types.NewChatMessage("Você", types.ChatRoleUser, "oi")}
		st.Forms.Support = "rascunho"
	})
	m := newTestModel(store, &stubBackend{})

	m.Update(logoutResultMsg{})
	drain(m)

	if m.st.Auth.Authenticated() {
		t.Error("logout must clear the session")
	}
	if m.st.CurrentView != state.ViewLogin {
		t.Errorf("logout should land on login, got %s", m.st.CurrentView)
	}
	if m.st.Empresa != nil || len(m.st.Instancias) != 0 {
		t.Error("workspace data must clear on logout")
	}
	if len(m.st.Chat.Messages) != 0 || m.st.Forms.Support != "" {
		t.Error("transcript and drafts must clear on logout")
	}
}

func TestContextResultHydratesWorkspace(t *testing.T) {
	store := newTestStore()
	store.Commit("seed", func(st *state.AppState) {
		st.Auth = state.Auth{SessionToken: "tok-1"}
		st.CurrentView = state.ViewDados
	})
	m := newTestModel(store, &stubBackend{})

	ws := &types.Workspace{
		Empresa: &types.Empresa{
			EmpresaFields: types.EmpresaFields{Nome: "Padaria da Praça"},
			Faqs:          []types.Faq{{Pergunta: "Vocês fazem entrega?", Resposta: "Sim."}},
		},
		Instancias: []types.Instancia{{ID: "inst-1", Status: types.InstanceStatusDisconnected}},
	}
	m.Update(contextResultMsg{ws: ws})
	drain(m)

	if !m.st.HasHydrated {
		t.Error("context load should mark the state hydrated")
	}
	if m.st.Empresa == nil || m.st.Empresa.Nome != "Padaria da Praça" {
		t.Errorf("profile not committed: %+v", m.st.Empresa)
	}
	if m.dados.profile[dadosFieldNome].Value() != "Padaria da Praça" {
		t.Error("editing buffers should pick up the loaded profile")
	}
}

func TestChatHistoryRestoresOnlyWhenEmpty(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	m := newTestModel(store, &stubBackend{})

	archived := []types.ChatMessage{types.NewChatMessage("Você", types.ChatRoleUser, "do arquivo")}
	m.Update(chatHistoryMsg{messages: archived})
	drain(m)
	if len(m.st.Chat.Messages) != 1 || m.st.Chat.Messages[0].Message != "do arquivo" {
		t.Fatalf("archive should fill an empty transcript: %+v", m.st.Chat.Messages)
	}

	// A transcript already under way wins over a late archive load.
	m.Update(chatHistoryMsg{messages: []types.ChatMessage{
		types.NewChatMessage("Você", types.ChatRoleUser, "atrasado"),
	}})
	drain(m)
	if len(m.st.Chat.Messages) != 1 || m.st.Chat.Messages[0].Message != "do arquivo" {
		t.Errorf("late archive load must not replace the transcript: %+v", m.st.Chat.Messages)
	}
}

func TestEventUpdatesInstance(t *testing.T) {
	store := newTestStore()
	seedWorkspace(store)
	m := newTestModel(store, &stubBackend{})

	m.Update(eventFeedMsg{ev: eventFor("inst-1", types.InstanceStatusDisconnected, "caiu a conexão")})
	drain(m)

	inst := m.st.Instancias[0]
	if inst.Status != types.InstanceStatusDisconnected {
		t.Errorf("event status not applied: %q", inst.Status)
	}
	if inst.LastEvent != "caiu a conexão" {
		t.Errorf("last event not applied: %q", inst.LastEvent)
	}
	if len(inst.Logs) != 2 {
		t.Errorf("event should append to the log, got %d entries", len(inst.Logs))
	}

	// Events for unknown instances are ignored.
	m.Update(eventFeedMsg{ev: eventFor("other", types.InstanceStatusConnected, "ignorada")})
	drain(m)
	if m.st.Instancias[0].LastEvent != "caiu a conexão" {
		t.Error("an event for another instance must not touch this one")
	}
}

func eventFor(instanceID, status, message string) events.Event {
	return events.Event{InstanceID: instanceID, Status: status, Message: message, TS: 42}
}

func TestSignupSuccessClosesModal(t *testing.T) {
	store := newTestStore()
	store.Commit("open", func(st *state.AppState) { st.IsSignupOpen = true })
	m := newTestModel(store, &stubBackend{})

	m.signupInputs[signupFieldEmail].SetValue("nova@exemplo.com")
	m.signupInputs[signupFieldPassword].SetValue("segredo")
	cmd := m.submitSignup()
	if cmd == nil {
		t.Fatal("expected a dispatch command")
	}
	m.Update(cmd())
	drain(m)

	if m.st.IsSignupOpen {
		t.Error("modal should close on success")
	}
	if m.signupInputs[signupFieldEmail].Value() != "" {
		t.Error("signup buffers should clear on success")
	}
	if m.st.Toast == nil || !strings.Contains(m.st.Toast.Message, "Solicitação enviada") {
		t.Errorf("expected the confirmation toast, got %+v", m.st.Toast)
	}
}
