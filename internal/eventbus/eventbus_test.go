package eventbus

import (
	"context"
	"testing"
	"time"
)

func TestUnboundedSendRecvFIFO(t *testing.T) {
	q := NewUnbounded[int]()
	q.Send(1)
	q.Send(2)
	q.Send(3)

	ctx := context.Background()
	for _, want := range []int{1, 2, 3} {
		got, ok := q.Recv(ctx)
		if !ok || got != want {
			t.Fatalf("Recv() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
}

func TestUnboundedRecvBlocksUntilSend(t *testing.T) {
	q := NewUnbounded[string]()
	done := make(chan string, 1)
	go func() {
		v, _ := q.Recv(context.Background())
		done <- v
	}()

	time.Sleep(10 * time.Millisecond)
	q.Send("hello")

	select {
	case v := <-done:
		if v != "hello" {
			t.Fatalf("got %q, want hello", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Recv did not unblock after Send")
	}
}

func TestUnboundedRecvCanceledByContext(t *testing.T) {
	q := NewUnbounded[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := q.Recv(ctx)
	if ok {
		t.Fatal("Recv should fail on an already-canceled context")
	}
}

func TestBoundedSendBlocksWhenFull(t *testing.T) {
	q := NewBounded[int](1)
	ctx := context.Background()
	if err := q.Send(ctx, 1); err != nil {
		t.Fatal(err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := q.Send(sendCtx, 2); err == nil {
		t.Fatal("expected Send to block and time out on a full queue")
	}
}

func TestBoundedTrySendFailsWhenFull(t *testing.T) {
	q := NewBounded[int](1)
	if !q.TrySend(1) {
		t.Fatal("first TrySend should succeed")
	}
	if q.TrySend(2) {
		t.Fatal("second TrySend on full queue should fail")
	}
}
