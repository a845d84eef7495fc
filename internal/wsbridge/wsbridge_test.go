package wsbridge

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/aethervoice/assistant/internal/asrstream"
)

func TestBroadcastDeliversToSubscriber(t *testing.T) {
	bridge := New(nil)
	server := httptest.NewServer(bridge)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Give the server goroutine a moment to register the subscriber.
	deadline := time.Now().Add(time.Second)
	for bridge.SubscriberCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if bridge.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount() = %d, want 1", bridge.SubscriberCount())
	}

	bridge.Broadcast(asrstream.StreamingEvent{Kind: asrstream.EventFinal, Text: "hello"})

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("message = %s, want it to contain %q", data, "hello")
	}
	if !strings.Contains(string(data), `"kind":"final"`) {
		t.Errorf("message = %s, want kind final", data)
	}
}

type fakeSideChannelSource struct {
	ch chan<- asrstream.StreamingEvent
}

func (f *fakeSideChannelSource) SetSideChannel(ch chan<- asrstream.StreamingEvent) {
	f.ch = ch
}

func TestAttachWiresSideChannelNotEvents(t *testing.T) {
	source := &fakeSideChannelSource{}
	out := Attach(source)
	if source.ch == nil {
		t.Fatal("Attach did not call SetSideChannel")
	}

	source.ch <- asrstream.StreamingEvent{Kind: asrstream.EventPartial, Text: "partial text"}
	select {
	case event := <-out:
		if event.Text != "partial text" {
			t.Errorf("Text = %q, want %q", event.Text, "partial text")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event on side channel")
	}
}
