package session

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/okiba/blastarena/internal/game"
)

// SpectatorHub serves a read-only websocket feed of game snapshots as JSON.
// Spectators never touch the simulation; they only observe broadcasts, with
// the same latest-wins bounding as player sessions.
type SpectatorHub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	feeds map[*spectator]struct{}
}

type spectator struct {
	conn *websocket.Conn
	out  chan game.GameState
	done chan struct{}
	once sync.Once
}

// NewSpectatorHub creates an empty hub.
func NewSpectatorHub() *SpectatorHub {
	return &SpectatorHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		feeds: make(map[*spectator]struct{}),
	}
}

// ServeHTTP upgrades the request and streams snapshots until the peer goes
// away.
func (h *SpectatorHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SPECTATOR] Upgrade failed: %v", err)
		return
	}

	sp := &spectator{
		conn: conn,
		out:  make(chan game.GameState, outboundDepth),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.feeds[sp] = struct{}{}
	h.mu.Unlock()
	log.Printf("[SPECTATOR] Watcher connected from %s", conn.RemoteAddr())

	go sp.writeLoop(func() { h.remove(sp) })

	// Spectators send nothing useful; the read loop only notices the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(sp)
			return
		}
	}
}

// Broadcast queues a snapshot for every connected spectator.
func (h *SpectatorHub) Broadcast(state game.GameState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sp := range h.feeds {
		select {
		case sp.out <- state:
			continue
		default:
		}
		select {
		case <-sp.out:
		default:
		}
		select {
		case sp.out <- state:
		default:
		}
	}
}

func (h *SpectatorHub) remove(sp *spectator) {
	h.mu.Lock()
	delete(h.feeds, sp)
	h.mu.Unlock()
	sp.close()
}

func (sp *spectator) writeLoop(onError func()) {
	for {
		select {
		case <-sp.done:
			return
		case state := <-sp.out:
			if err := sp.conn.WriteJSON(state); err != nil {
				onError()
				return
			}
		}
	}
}

func (sp *spectator) close() {
	sp.once.Do(func() {
		close(sp.done)
		sp.conn.Close()
	})
}
