package tui

import (
	"github.com/omrstudio/pilotctl/internal/api"
	"github.com/omrstudio/pilotctl/internal/events"
	"github.com/omrstudio/pilotctl/internal/state"
	"github.com/omrstudio/pilotctl/internal/types"
)

// stateChangedMsg carries the snapshot of a store commit into the update
// loop. Every commit produces exactly one full snapshot; rendering never
// sees partial mutations.
type stateChangedMsg struct {
	st state.AppState
}

// resizeSettledMsg fires after the resize debounce window. Only the
// generation that scheduled it may apply the layout.
type resizeSettledMsg struct {
	gen int
}

type loginResultMsg struct {
	session *types.Session
	err     error
}

type signupResultMsg struct {
	err error
}

type logoutResultMsg struct {
	err error
}

type contextResultMsg struct {
	ws  *types.Workspace
	err error
}

type chatHistoryMsg struct {
	messages []types.ChatMessage
}

type dadosSaveResultMsg struct {
	ws  *types.Workspace
	err error
}

type chatResultMsg struct {
	reply string
	err   error
}

// Instance operations share one result shape; op tells them apart.
const (
	instOpRefresh    = "refresh"
	instOpDisconnect = "disconnect"
	instOpSave       = "save"
)

type instResultMsg struct {
	op   string
	inst *types.Instancia
	err  error
}

type supportResultMsg struct {
	reply string
	err   error
}

// tourReadyMsg delivers lazily built tour content. The handler rechecks
// that the tour is still wanted before using it.
type tourReadyMsg struct {
	content string
}

// eventFeedOpenedMsg hands the live feed channel to the model.
type eventFeedOpenedMsg struct {
	ch <-chan events.Event
}

type eventFeedMsg struct {
	ev events.Event
}

// eventFeedClosedMsg signals the feed dropped; the loop resubscribes.
type eventFeedClosedMsg struct{}

type inspectLoadedMsg struct {
	records []api.CallRecord
	err     error
}

type copiedMsg struct {
	err error
}
