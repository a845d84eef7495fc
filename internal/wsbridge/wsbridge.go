// Package wsbridge fans a StreamingASR transcript feed out to websocket
// subscribers, for a debugging UI or the assistantctl watch subcommand. It
// never applies backpressure to the pipeline it reads from: subscribers
// that fall behind are disconnected instead.
package wsbridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/aethervoice/assistant/internal/asrstream"
)

// writeTimeout bounds how long a single broadcast write may block before
// the subscriber is considered stalled and dropped.
const writeTimeout = 5 * time.Second

// wireEvent is the JSON form sent to subscribers.
type wireEvent struct {
	Kind        string  `json:"kind"`
	Text        string  `json:"text,omitempty"`
	Confidence  float32 `json:"confidence,omitempty"`
	TimestampMs uint64  `json:"timestamp_ms,omitempty"`
	StartMs     uint64  `json:"start_ms,omitempty"`
	EndMs       uint64  `json:"end_ms,omitempty"`
	Error       string  `json:"error,omitempty"`
}

func toWireEvent(event asrstream.StreamingEvent) wireEvent {
	w := wireEvent{
		Text:        event.Text,
		Confidence:  event.Confidence,
		TimestampMs: event.TimestampMs,
		StartMs:     event.StartMs,
		EndMs:       event.EndMs,
	}
	switch event.Kind {
	case asrstream.EventPartial:
		w.Kind = "partial"
	case asrstream.EventFinal:
		w.Kind = "final"
	case asrstream.EventEndOfSpeech:
		w.Kind = "end_of_speech"
	case asrstream.EventError:
		w.Kind = "error"
		if event.Err != nil {
			w.Error = event.Err.Error()
		}
	}
	return w
}

// Bridge holds the set of currently connected subscribers. The events it
// fans out are handed to Run or Broadcast by the caller.
type Bridge struct {
	mu          sync.RWMutex
	subscribers map[*websocket.Conn]struct{}
	logger      *slog.Logger
}

// New creates an empty Bridge.
func New(logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		subscribers: make(map[*websocket.Conn]struct{}),
		logger:      logger.With("component", "wsbridge"),
	}
}

// ServeHTTP accepts a websocket connection and registers it as a
// subscriber until the client disconnects or the request context ends.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		b.logger.Error("websocket accept failed", "error", err)
		return
	}
	b.subscribe(conn)
	defer b.unsubscribe(conn)

	// The connection is write-only from the bridge's point of view; read
	// in a loop purely to detect the client closing or going away.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			conn.Close(websocket.StatusNormalClosure, "")
			return
		}
	}
}

func (b *Bridge) subscribe(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[conn] = struct{}{}
	b.logger.Debug("subscriber connected", "total", len(b.subscribers))
}

func (b *Bridge) unsubscribe(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, conn)
	b.logger.Debug("subscriber disconnected", "total", len(b.subscribers))
}

// Broadcast encodes event as JSON and writes it to every connected
// subscriber. A subscriber whose write fails or times out is dropped.
func (b *Bridge) Broadcast(event asrstream.StreamingEvent) {
	data, err := json.Marshal(toWireEvent(event))
	if err != nil {
		b.logger.Error("failed to encode streaming event", "error", err)
		return
	}

	b.mu.RLock()
	targets := make([]*websocket.Conn, 0, len(b.subscribers))
	for conn := range b.subscribers {
		targets = append(targets, conn)
	}
	b.mu.RUnlock()

	for _, conn := range targets {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			b.logger.Warn("dropping stalled subscriber", "error", err)
			conn.Close(websocket.StatusInternalError, "write failed")
			b.unsubscribe(conn)
		}
	}
}

// Run drains events from the bridge's own side channel (never the primary
// bounded queue a StreamingASR writes to) and broadcasts each to
// subscribers, until events is closed or ctx is canceled.
func (b *Bridge) Run(ctx context.Context, events <-chan asrstream.StreamingEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			b.Broadcast(event)
		}
	}
}

// SubscriberCount reports the number of currently connected subscribers.
func (b *Bridge) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
