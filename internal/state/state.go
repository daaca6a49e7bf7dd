package state

import (
	"time"

	"github.com/omrstudio/pilotctl/internal/types"
)

// Theme selects the console palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// View identifies one of the console screens.
type View string

const (
	ViewDados     View = "dados"
	ViewTestDrive View = "test-drive"
	ViewConexoes  View = "conexoes"
	ViewAjuda     View = "ajuda"
	ViewLogin     View = "login"
)

// DefaultView is where an authenticated session lands.
const DefaultView = ViewDados

// KnownViews lists every navigable view id.
var KnownViews = []View{ViewDados, ViewTestDrive, ViewConexoes, ViewAjuda, ViewLogin}

// IsKnownView reports whether id names a console screen.
func IsKnownView(id string) bool {
	for _, v := range KnownViews {
		if string(v) == id {
			return true
		}
	}
	return false
}

// Auth holds the current session. User and SessionToken are either both
// set or both empty.
type Auth struct {
	User         *types.User
	SessionToken string
}

// Authenticated reports whether a session token is present.
func (a Auth) Authenticated() bool { return a.SessionToken != "" }

// Pending tracks named in-flight operations. Each flag is true only
// between request dispatch and its resolution.
type Pending struct {
	Login          bool
	DadosSave      bool
	ChatSend       bool
	InstRefresh    bool
	InstDisconnect bool
	InstSave       bool
	SupportSend    bool
}

// DefaultPersona is the persona preselected for new sessions.
const DefaultPersona = "josi"

// LoginForm remembers the typed e-mail across failed attempts.
type LoginForm struct {
	Email string
}

// Forms holds the per-view draft overlays. A non-nil draft overrides the
// committed entity for rendering until a save succeeds or it is reset.
type Forms struct {
	Login       LoginForm
	Dados       *types.DadosPayload
	Instancias  *types.InstanciaSettings
	Support     string
	ChatPersona string
}

func defaultForms() Forms {
	return Forms{ChatPersona: DefaultPersona}
}

// Chat is the simulator transcript, append-only during a session.
type Chat struct {
	Messages []types.ChatMessage
	UseDemo  bool
}

// Toast tones.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
	ToneInfo    Tone = "info"
)

// Toast is the transient notification, nil when none is visible.
type Toast struct {
	Message string
	Tone    Tone
	TS      time.Time
}

// Breakpoint buckets the terminal width the way the web console buckets
// the viewport.
type Breakpoint string

const (
	BreakpointSM Breakpoint = "sm"
	BreakpointMD Breakpoint = "md"
	BreakpointLG Breakpoint = "lg"
)

// Terminal-column thresholds for the breakpoints.
const (
	WidthMD = 80
	WidthLG = 120
)

// ResolveBreakpoint buckets a terminal width in columns.
func ResolveBreakpoint(width int) Breakpoint {
	switch {
	case width >= WidthLG:
		return BreakpointLG
	case width >= WidthMD:
		return BreakpointMD
	default:
		return BreakpointSM
	}
}

// Layout is derived from the terminal size, memoized so resize bursts do
// not trigger redundant commits.
type Layout struct {
	Breakpoint Breakpoint
	IsMobile   bool
}

// LayoutFor derives the layout for a terminal width.
func LayoutFor(width int) Layout {
	return Layout{Breakpoint: ResolveBreakpoint(width), IsMobile: width < WidthMD}
}

// AppState is the single aggregate all rendering derives from. It is
// mutated only through Store.Commit.
type AppState struct {
	Theme       Theme
	CurrentView View
	Auth        Auth
	Empresa     *types.Empresa
	Instancias  []types.Instancia
	Pending     Pending
	Forms       Forms
	Chat        Chat

	OnboardingStep int
	IsTourVisible  bool
	HasHydrated    bool
	Toast          *Toast
	IsSignupOpen   bool
	IsDrawerOpen   bool
	Layout         Layout
}

func defaultState(width int) AppState {
	return AppState{
		Theme:         ThemeLight,
		CurrentView:   ViewLogin,
		Forms:         defaultForms(),
		IsTourVisible: true,
		Layout:        LayoutFor(width),
	}
}

// Clone returns a deep copy. Snapshots handed to listeners and Get callers
// must not allow mutation that bypasses Commit.
func (s AppState) Clone() AppState {
	out := s
	if s.Auth.User != nil {
		u := *s.Auth.User
		out.Auth.User = &u
	}
	out.Empresa = s.Empresa.Clone()
	out.Instancias = types.CloneInstancias(s.Instancias)
	if s.Forms.Dados != nil {
		d := s.Forms.Dados.Clone()
		out.Forms.Dados = &d
	}
	if s.Forms.Instancias != nil {
		i := *s.Forms.Instancias
		out.Forms.Instancias = &i
	}
	out.Chat.Messages = append([]types.ChatMessage(nil), s.Chat.Messages...)
	if s.Toast != nil {
		t := *s.Toast
		out.Toast = &t
	}
	return out
}

// ResetForLogout clears the auth, form, and chat sub-trees in place,
// returning the state to its unauthenticated shape. The aggregate identity
// is stable; only contents change.
func (s *AppState) ResetForLogout() {
	s.Auth = Auth{}
	s.CurrentView = ViewLogin
	s.Forms = defaultForms()
	s.Chat = Chat{}
	s.Empresa = nil
	s.Instancias = nil
}
