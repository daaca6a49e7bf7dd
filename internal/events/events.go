// Package events subscribes to the instance event feed over a websocket.
// The feed is optional; the connections tab just shows less when it is
// not configured or drops.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one instance status update pushed by the backend.
type Event struct {
	InstanceID string `json:"instance_id"`
	Status     string `json:"status,omitempty"`
	Message    string `json:"message"`
	TS         int64  `json:"ts"` // unix milliseconds
}

const handshakeTimeout = 10 * time.Second

// Stream owns one feed subscription.
type Stream struct {
	url    string
	token  string
	logger *slog.Logger
}

// New prepares a subscription to the given feed URL. token, when set, is
// sent as a bearer header on the handshake.
func New(url, token string, logger *slog.Logger) *Stream {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stream{url: url, token: token, logger: logger}
}

// Run dials the feed and returns a channel of events. The channel closes
// when the context is cancelled or the connection drops; the caller decides
// whether to resubscribe.
func (s *Stream) Run(ctx context.Context) (<-chan Event, error) {
	header := http.Header{}
	if s.token != "" {
		header.Set("Authorization", "Bearer "+s.token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, s.url, header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to event feed: %w", err)
	}

	out := make(chan Event)

	// Closing the connection on cancel unblocks the read loop.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(out)
		defer conn.Close()
		for {
			var ev Event
			if err := conn.ReadJSON(&ev); err != nil {
				if ctx.Err() == nil {
					s.logger.Warn("event feed dropped", "error", err)
				}
				return
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
