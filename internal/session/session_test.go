package session

import (
	"net"
	"sync"
	"testing"

	"github.com/okiba/blastarena/internal/game"
)

func undrainedSession(t *testing.T) *Session {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	// No writeLoop: the queue is never drained, as with a stalled client.
	return newSession(server, 1)
}

func TestDeliverDropsOldestWhenFull(t *testing.T) {
	sess := undrainedSession(t)

	total := outboundDepth + 2
	for i := 1; i <= total; i++ {
		sess.deliver(game.GameState{Tick: uint64(i)})
	}

	if got := len(sess.out); got != outboundDepth {
		t.Fatalf("queue holds %d snapshots, want %d", got, outboundDepth)
	}
	if got := sess.dropped.Load(); got != uint64(total-outboundDepth) {
		t.Errorf("dropped counter %d, want %d", got, total-outboundDepth)
	}

	// The survivors are the newest snapshots, oldest first.
	wantTick := uint64(total - outboundDepth + 1)
	for i := 0; i < outboundDepth; i++ {
		st := <-sess.out
		if st.Tick != wantTick {
			t.Errorf("queued snapshot %d has tick %d, want %d", i, st.Tick, wantTick)
		}
		wantTick++
	}
}

func TestDeliverConcurrent(t *testing.T) {
	sess := undrainedSession(t)

	// Broadcast and the join-time snapshot hit deliver from different
	// goroutines; it must stay safe without external locking.
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				sess.deliver(game.GameState{Tick: uint64(g*100 + i)})
			}
		}(g)
	}
	wg.Wait()

	if got := len(sess.out); got > outboundDepth {
		t.Errorf("queue grew past its bound: %d > %d", got, outboundDepth)
	}
}
