package router

import "sync"

// Fragment is the external location the console keeps in sync with its
// current view. Programmatic updates go through Set; navigation that
// originates outside the state loop (back/forward) reaches the console
// through Subscribe callbacks.
type Fragment interface {
	Get() string
	Set(fragment string)
	Subscribe(fn func(fragment string)) (unsubscribe func())
}

// History is an in-process Fragment backed by a navigation stack, giving
// the console browser-style back/forward traversal.
type History struct {
	mu        sync.Mutex
	entries   []string
	idx       int
	listeners map[int]func(string)
	nextID    int
}

// NewHistory starts a stack at the given fragment.
func NewHistory(initial string) *History {
	return &History{
		entries:   []string{initial},
		listeners: map[int]func(string){},
	}
}

// Get returns the current fragment.
func (h *History) Get() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.idx]
}

// Set records a programmatic navigation: the forward stack is discarded
// and the new fragment becomes current. Setting the current fragment again
// is a no-op. Listeners are not notified; they exist for navigation the
// program did not initiate.
func (h *History) Set(fragment string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entries[h.idx] == fragment {
		return
	}
	h.entries = append(h.entries[:h.idx+1], fragment)
	h.idx = len(h.entries) - 1
}

// Back steps to the previous entry and notifies listeners. Returns false
// at the bottom of the stack.
func (h *History) Back() bool {
	return h.step(-1)
}

// Forward steps to the next entry and notifies listeners. Returns false at
// the top of the stack.
func (h *History) Forward() bool {
	return h.step(+1)
}

func (h *History) step(delta int) bool {
	h.mu.Lock()
	next := h.idx + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.idx = next
	fragment := h.entries[h.idx]
	fns := make([]func(string), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(fragment)
	}
	return true
}

// Subscribe registers a navigation listener and returns its unsubscribe.
func (h *History) Subscribe(fn func(string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}
