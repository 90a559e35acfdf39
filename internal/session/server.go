package session

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/okiba/blastarena/internal/game"
	"github.com/okiba/blastarena/internal/protocol"
)

// Server owns the listener, the engine, and the set of live sessions. It
// maps each connection to a player id at join time and fans tick snapshots
// out to every session independently.
type Server struct {
	engine *game.Engine
	addr   string

	listener net.Listener
	mu       sync.RWMutex
	sessions map[int]*Session

	spectators *SpectatorHub
	httpServer *http.Server

	done     chan struct{}
	stopOnce sync.Once
}

// NewServer creates a game server for the given arena. spectatorAddr is an
// optional HTTP listen address for the read-only websocket feed; empty
// disables it.
func NewServer(addr string, cfg game.Config, arena game.Arena, spectatorAddr string) *Server {
	s := &Server{
		engine:   game.NewEngine(cfg, arena),
		addr:     addr,
		sessions: make(map[int]*Session),
		done:     make(chan struct{}),
	}

	if spectatorAddr != "" {
		s.spectators = NewSpectatorHub()
		mux := http.NewServeMux()
		mux.Handle("/watch", s.spectators)
		s.httpServer = &http.Server{Addr: spectatorAddr, Handler: mux}
	}

	s.engine.OnSnapshot(s.broadcast)
	return s
}

// Engine returns the underlying simulation engine.
func (s *Server) Engine() *game.Engine {
	return s.engine
}

// PlayerCount returns the number of connected players.
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Addr returns the bound listen address, useful when listening on port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Start binds the listener and launches the tick loop and accept loop.
func (s *Server) Start() error {
	var err error
	s.listener, err = net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	log.Printf("[SERVER] Listening on %s", s.listener.Addr())

	if s.httpServer != nil {
		go func() {
			log.Printf("[SERVER] Spectator feed on %s/watch", s.httpServer.Addr)
			if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("[SERVER] Spectator feed stopped: %v", err)
			}
		}()
	}

	go s.engine.Run()
	go s.acceptLoop()
	return nil
}

// Stop shuts down the listener, the engine and every session.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.engine.Stop()
		if s.listener != nil {
			s.listener.Close()
		}
		if s.httpServer != nil {
			s.httpServer.Close()
		}
		s.mu.Lock()
		for _, sess := range s.sessions {
			sess.close()
		}
		s.mu.Unlock()
	})
}

// StartMatch starts the match from the lobby.
func (s *Server) StartMatch() error {
	return s.engine.StartMatch()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				log.Printf("[SERVER] Accept error: %v", err)
				continue
			}
		}
		go s.handleConn(conn)
	}
}

// handleConn runs the join handshake, then reads intents until the
// connection dies. All blocking socket I/O happens here and in the
// session's writer goroutine, never on the simulation loop.
func (s *Server) handleConn(conn net.Conn) {
	env, err := protocol.Decode(conn)
	if err != nil || env.Type != protocol.MsgJoin {
		log.Printf("[SERVER] Handshake failed from %s: %v", conn.RemoteAddr(), err)
		protocol.Encode(conn, protocol.MsgError, protocol.ErrorMsg{
			Code:    protocol.CodeBadMessage,
			Message: "expected join",
		})
		conn.Close()
		return
	}

	var join protocol.JoinMsg
	if err := protocol.DecodePayload(env, &join); err != nil {
		log.Printf("[SERVER] Bad join payload from %s: %v", conn.RemoteAddr(), err)
		conn.Close()
		return
	}

	playerID, err := s.engine.Join(join.Name)
	if err != nil {
		protocol.Encode(conn, protocol.MsgError, joinError(err))
		conn.Close()
		return
	}

	sess := newSession(conn, playerID)
	s.mu.Lock()
	s.sessions[playerID] = sess
	s.mu.Unlock()

	log.Printf("[SERVER] Player joined: %q (id %d)", join.Name, playerID)

	welcome := protocol.WelcomeMsg{PlayerID: playerID, Config: s.engine.Config}
	if err := sess.send(protocol.MsgWelcome, welcome); err != nil {
		s.dropSession(playerID)
		return
	}
	sess.deliver(s.engine.Snapshot())

	go sess.writeLoop(func() { s.dropSession(playerID) })

	s.readLoop(sess)
}

// readLoop consumes client frames. Malformed messages are logged and
// dropped; framing corruption or a dead socket ends the session.
func (s *Server) readLoop(sess *Session) {
	for {
		select {
		case <-s.done:
			return
		case <-sess.done:
			return
		default:
		}

		env, err := protocol.Decode(sess.conn)
		if err != nil {
			if errors.Is(err, protocol.ErrMalformed) {
				log.Printf("[SERVER] Dropping malformed message from player %d: %v", sess.playerID, err)
				continue
			}
			log.Printf("[SERVER] Player %d disconnected: %v", sess.playerID, err)
			s.dropSession(sess.playerID)
			return
		}

		switch env.Type {
		case protocol.MsgIntent:
			var msg protocol.IntentMsg
			if err := protocol.DecodePayload(env, &msg); err != nil || !msg.Kind.Valid() {
				log.Printf("[SERVER] Invalid intent from player %d: %v", sess.playerID, err)
				continue
			}
			s.engine.SubmitIntent(sess.playerID, game.Intent{Kind: msg.Kind})

		case protocol.MsgStart:
			if err := s.engine.StartMatch(); err != nil {
				sess.send(protocol.MsgError, protocol.ErrorMsg{
					Code:    protocol.CodeMatchRunning,
					Message: err.Error(),
				})
			}

		case protocol.MsgLeave:
			s.dropSession(sess.playerID)
			return

		default:
			log.Printf("[SERVER] Unexpected message type %d from player %d", env.Type, sess.playerID)
		}
	}
}

// dropSession tears a session down and tells the engine. In the lobby the
// player is removed; mid-match they are marked dead and the game continues
// for the rest.
func (s *Server) dropSession(playerID int) {
	s.mu.Lock()
	sess, ok := s.sessions[playerID]
	if ok {
		delete(s.sessions, playerID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	sess.close()
	s.engine.Leave(playerID)
	log.Printf("[SERVER] Player removed: id %d", playerID)
}

// broadcast fans one immutable snapshot out to every session and to the
// spectator hub. Each queue push is non-blocking.
func (s *Server) broadcast(state game.GameState) {
	s.mu.RLock()
	for _, sess := range s.sessions {
		sess.deliver(state)
	}
	s.mu.RUnlock()

	if s.spectators != nil {
		s.spectators.Broadcast(state)
	}
}

// joinError maps engine join failures to wire error codes.
func joinError(err error) protocol.ErrorMsg {
	code := protocol.CodeBadMessage
	switch {
	case errors.Is(err, game.ErrGameFull):
		code = protocol.CodeGameFull
	case errors.Is(err, game.ErrNoSpawnAvailable):
		code = protocol.CodeNoSpawn
	case errors.Is(err, game.ErrMatchRunning):
		code = protocol.CodeMatchRunning
	}
	return protocol.ErrorMsg{Code: code, Message: err.Error()}
}
