package state

import (
	"log/slog"
	"sync"
	"time"
)

// ToastDuration is how long a toast stays visible.
const ToastDuration = 3 * time.Second

// Listener receives the full state after every commit.
type Listener func(AppState)

// Store owns the AppState aggregate. It is explicitly constructed and
// injected wherever state access is needed, so tests can run isolated
// instances. All mutation flows through Commit; Get and listener
// notifications hand out deep-cloned snapshots.
type Store struct {
	mu        sync.Mutex
	state     AppState
	listeners []storeListener
	nextID    int

	persister Persister
	logger    *slog.Logger
	onLayout  func(Layout)
	afterFunc func(time.Duration, func()) // test seam for the toast timer
}

type storeListener struct {
	id int
	fn Listener
}

// Option configures a Store.
type Option func(*Store)

// WithLayoutHook registers a callback invoked whenever a commit touches
// the layout field, after persistence and before listener notification.
func WithLayoutHook(fn func(Layout)) Option {
	return func(s *Store) { s.onLayout = fn }
}

// withAfterFunc overrides the toast timer for tests.
func withAfterFunc(fn func(time.Duration, func())) Option {
	return func(s *Store) { s.afterFunc = fn }
}

// New builds a store with defaults, immediately overlaying the persisted
// theme. The session is restored separately via HydrateAuth so callers
// decide when the first routing decision happens.
func New(p Persister, logger *slog.Logger, width int, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		state:     defaultState(width),
		persister: p,
		logger:    logger,
		afterFunc: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
	for _, opt := range opts {
		opt(s)
	}
	if p != nil {
		if theme, ok := p.LoadTheme(); ok {
			s.state.Theme = theme
		}
	}
	return s
}

// Get returns a deep-cloned snapshot of the current state.
func (s *Store) Get() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers a listener and returns its unsubscribe function.
// Listeners run synchronously after every commit, in registration order.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, storeListener{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Commit applies mutate to the live state, runs persistence side effects
// for the fields it touched, then notifies every listener with the new
// state. The updater runs synchronously against the current state; it is
// never queued or batched.
//
// Persistence runs before notification so a listener's render always
// reflects what a reload would read back. Persistence failures are logged
// and never abort the commit.
func (s *Store) Commit(reason string, mutate func(*AppState)) {
	s.mu.Lock()

	prevTheme := s.state.Theme
	prevAuth := s.state.Auth
	prevLayout := s.state.Layout

	mutate(&s.state)

	s.logger.Debug("state commit", "reason", reason, "view", s.state.CurrentView)

	if s.persister != nil {
		if s.state.Theme != prevTheme {
			if err := s.persister.SaveTheme(s.state.Theme); err != nil {
				s.logger.Error("persist theme failed", "error", err)
			}
		}
		if authChanged(prevAuth, s.state.Auth) {
			if err := s.persistAuth(s.state.Auth); err != nil {
				s.logger.Error("persist session failed", "error", err)
			}
		}
	}

	layoutHook := s.onLayout
	layoutChanged := s.state.Layout != prevLayout
	snapshot := s.state.Clone()
	listeners := make([]storeListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if layoutChanged && layoutHook != nil {
		layoutHook(snapshot.Layout)
	}
	for _, l := range listeners {
		l.fn(snapshot)
	}
}

func (s *Store) persistAuth(a Auth) error {
	if a.Authenticated() {
		return s.persister.SaveSession(PersistedSession{User: a.User, SessionToken: a.SessionToken})
	}
	return s.persister.ClearSession()
}

func authChanged(prev, next Auth) bool {
	if prev.SessionToken != next.SessionToken {
		return true
	}
	switch {
	case prev.User == nil && next.User == nil:
		return false
	case prev.User == nil || next.User == nil:
		return true
	default:
		return *prev.User != *next.User
	}
}

// HydrateAuth restores a persisted session, routing straight to the
// default authenticated view when one exists. A corrupt session record is
// discarded so the next start is clean.
func (s *Store) HydrateAuth() {
	if s.persister == nil {
		return
	}
	sess, err := s.persister.LoadSession()
	if err != nil {
		s.logger.Error("restore session failed", "error", err)
		if err := s.persister.ClearSession(); err != nil {
			s.logger.Error("clear corrupt session failed", "error", err)
		}
		return
	}
	if sess == nil || sess.SessionToken == "" {
		return
	}
	s.Commit("hydrate-auth", func(st *AppState) {
		st.Auth = Auth{User: sess.User, SessionToken: sess.SessionToken}
		st.CurrentView = DefaultView
	})
}

// ShowToast commits a toast and schedules its clear. The clear only fires
// if the same toast is still visible, so a newer toast is never cut short.
func (s *Store) ShowToast(message string, tone Tone) {
	ts := time.Now()
	s.Commit("toast:show", func(st *AppState) {
		st.Toast = &Toast{Message: message, Tone: tone, TS: ts}
	})
	s.afterFunc(ToastDuration, func() {
		s.Commit("toast:clear", func(st *AppState) {
			if st.Toast != nil && st.Toast.TS.Equal(ts) {
				st.Toast = nil
			}
		})
	})
}
