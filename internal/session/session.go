package session

import (
	"log"
	"net"
	"sync"
	"sync/atomic"

	"github.com/okiba/blastarena/internal/game"
	"github.com/okiba/blastarena/internal/protocol"
)

// outboundDepth bounds the per-session snapshot queue. A client that falls
// further behind starts losing stale snapshots, never fresh ones.
const outboundDepth = 4

// Session is one connected player: a TCP connection, the player id assigned
// at join, and a bounded outbound snapshot queue drained by its own writer
// goroutine so a stalled client never blocks the tick loop or its peers.
type Session struct {
	conn     net.Conn
	playerID int

	writeMu sync.Mutex // Serializes frames from the writer loop and error replies
	out     chan game.GameState
	done    chan struct{}
	once    sync.Once

	dropped atomic.Uint64 // Stale snapshots discarded for this client
}

func newSession(conn net.Conn, playerID int) *Session {
	return &Session{
		conn:     conn,
		playerID: playerID,
		out:      make(chan game.GameState, outboundDepth),
		done:     make(chan struct{}),
	}
}

// PlayerID returns the player id bound to this connection.
func (s *Session) PlayerID() int {
	return s.playerID
}

// send writes a single frame. Safe for concurrent use.
func (s *Session) send(msgType protocol.MsgType, payload interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return protocol.Encode(s.conn, msgType, payload)
}

// deliver queues a snapshot without ever blocking. When the queue is full
// the oldest snapshot is dropped in favor of the newest: state is
// idempotently overridable, so no gameplay-affecting event is lost.
func (s *Session) deliver(state game.GameState) {
	select {
	case s.out <- state:
		return
	default:
	}

	select {
	case <-s.out:
		if n := s.dropped.Add(1); n%64 == 0 {
			log.Printf("[SESSION] player %d is slow: %d snapshots dropped", s.playerID, n)
		}
	default:
	}
	select {
	case s.out <- state:
	default:
	}
}

// writeLoop drains the outbound queue. onError is invoked once when a write
// fails; the server uses it to tear the session down.
func (s *Session) writeLoop(onError func()) {
	for {
		select {
		case <-s.done:
			return
		case state := <-s.out:
			if err := s.send(protocol.MsgState, protocol.StateMsg{State: state}); err != nil {
				onError()
				return
			}
		}
	}
}

// close shuts the session down. Safe to call more than once.
func (s *Session) close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}
