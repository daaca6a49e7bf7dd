// Package router keeps the current view and the external location fragment
// in sync, in both directions, without echo loops. An unauthenticated
// session always lands on login, and the login view itself never leaks
// into the fragment. An unknown or empty fragment falls back to the
// default view at startup only; once running, external navigation to a
// fragment that names no view leaves the state alone.
package router

import (
	"log/slog"

	"github.com/omrstudio/pilotctl/internal/state"
)

// Router wires a state store to a Fragment.
type Router struct {
	store  *state.Store
	frag   Fragment
	logger *slog.Logger
}

// New builds a router. Call Start to begin syncing.
func New(store *state.Store, frag Fragment, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{store: store, frag: frag, logger: logger}
}

// Resolve maps a fragment plus the auth state to the view that should be
// shown at startup, where an unknown or empty fragment falls back to the
// default view. Running navigation filters unknown fragments out before
// this rule applies.
func Resolve(fragment string, authenticated bool) state.View {
	if !authenticated {
		return state.ViewLogin
	}
	if fragment == "" || fragment == string(state.ViewLogin) || !state.IsKnownView(fragment) {
		return state.DefaultView
	}
	return state.View(fragment)
}

// fragmentFor maps a view to its fragment. Login has no fragment.
func fragmentFor(view state.View) string {
	if view == state.ViewLogin {
		return ""
	}
	return string(view)
}

// Start applies the initial precedence and subscribes both directions.
// The returned func tears the syncing down.
func (r *Router) Start() func() {
	snapshot := r.store.Get()
	initial := Resolve(r.frag.Get(), snapshot.Auth.Authenticated())
	if initial != snapshot.CurrentView {
		r.store.Commit("router:init", func(st *state.AppState) {
			st.CurrentView = initial
		})
	}
	r.frag.Set(fragmentFor(initial))

	// State -> fragment. Comparing before writing breaks the echo loop.
	unsubStore := r.store.Subscribe(func(st state.AppState) {
		want := fragmentFor(st.CurrentView)
		if r.frag.Get() != want {
			r.frag.Set(want)
		}
	})

	// Fragment -> state, for navigation the program did not initiate.
	// Only fragments naming a real view apply; anything else leaves the
	// current view untouched.
	unsubFrag := r.frag.Subscribe(func(fragment string) {
		if fragment == "" || !state.IsKnownView(fragment) {
			return
		}
		st := r.store.Get()
		view := Resolve(fragment, st.Auth.Authenticated())
		if view == st.CurrentView {
			return
		}
		r.logger.Debug("external navigation", "fragment", fragment, "view", view)
		r.store.Commit("router:navigate", func(st *state.AppState) {
			st.CurrentView = view
		})
	})

	return func() {
		unsubStore()
		unsubFrag()
	}
}
