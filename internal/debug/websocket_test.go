package debug

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeConn struct {
	mu        sync.Mutex
	writes    int
	failWrite bool
	closed    bool
}

func (f *fakeConn) WriteMessage(_ int, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.failWrite {
		return errors.New("write on closed connection")
	}
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) snapshot() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes, f.closed
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestBroadcastDropsFailedClients(t *testing.T) {
	h := newHub()
	go h.run()

	good := &fakeConn{}
	bad := &fakeConn{failWrite: true}
	h.register <- good
	h.register <- bad
	waitFor(t, func() bool { return h.clientCount() == 2 }, "Expected both clients registered")

	h.broadcast <- []byte(`{"type":"log"}`)
	waitFor(t, func() bool { return h.clientCount() == 1 }, "Expected the failed client to be dropped")

	if _, closed := bad.snapshot(); !closed {
		t.Error("Expected the failed client to be closed")
	}
	writes, closed := good.snapshot()
	if writes != 1 || closed {
		t.Errorf("Expected the healthy client to receive the message and stay open, writes=%d closed=%v", writes, closed)
	}
}

func TestBroadcastSurvivesClientChurn(t *testing.T) {
	h := newHub()
	go h.run()

	// Register/unregister churn while failing broadcasts force removals.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			conn := &fakeConn{failWrite: i%2 == 0}
			h.register <- conn
			if i%3 == 0 {
				h.unregister <- conn
			}
		}
	}()

	for i := 0; i < 50; i++ {
		h.broadcast <- []byte(fmt.Sprintf(`{"seq":%d}`, i))
	}
	<-done

	// The hub must still be alive and accepting clients afterwards.
	final := &fakeConn{}
	h.register <- final
	waitFor(t, func() bool { return h.clientCount() >= 1 }, "Expected hub to accept clients after churn")
}
