package session

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/okiba/blastarena/internal/game"
	"github.com/okiba/blastarena/internal/protocol"
)

// Client connects to a game server, submits intents and receives state
// snapshots.
type Client struct {
	conn     net.Conn
	playerID int
	config   game.Config

	stateCh chan game.GameState
	done    chan struct{}
	once    sync.Once
	writeMu sync.Mutex
}

// Dial connects, joins with the given name, and starts receiving snapshots.
func Dial(addr, name string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}

	c := &Client{
		conn:    conn,
		stateCh: make(chan game.GameState, 8),
		done:    make(chan struct{}),
	}

	if err := protocol.Encode(conn, protocol.MsgJoin, protocol.JoinMsg{Name: name}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send join: %w", err)
	}

	env, err := protocol.Decode(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read welcome: %w", err)
	}

	switch env.Type {
	case protocol.MsgError:
		var errMsg protocol.ErrorMsg
		protocol.DecodePayload(env, &errMsg)
		conn.Close()
		return nil, fmt.Errorf("server rejected join (%s): %s", errMsg.Code, errMsg.Message)
	case protocol.MsgWelcome:
	default:
		conn.Close()
		return nil, fmt.Errorf("expected welcome, got message type %d", env.Type)
	}

	var welcome protocol.WelcomeMsg
	if err := protocol.DecodePayload(env, &welcome); err != nil {
		conn.Close()
		return nil, fmt.Errorf("decode welcome: %w", err)
	}
	c.playerID = welcome.PlayerID
	c.config = welcome.Config

	go c.receiveLoop()
	return c, nil
}

// PlayerID returns the server-assigned player id.
func (c *Client) PlayerID() int {
	return c.playerID
}

// Config returns the match configuration received at join.
func (c *Client) Config() game.Config {
	return c.config
}

// States returns the snapshot channel. It is closed when the connection
// dies; a slow consumer only ever misses stale snapshots.
func (c *Client) States() <-chan game.GameState {
	return c.stateCh
}

// SendIntent submits one action for the next tick.
func (c *Client) SendIntent(kind game.IntentKind) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return protocol.Encode(c.conn, protocol.MsgIntent, protocol.IntentMsg{Kind: kind})
}

// SendStart asks the server to start the match.
func (c *Client) SendStart() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return protocol.Encode(c.conn, protocol.MsgStart, protocol.StartMsg{})
}

// Close announces an orderly leave and tears the connection down.
func (c *Client) Close() {
	c.once.Do(func() {
		c.writeMu.Lock()
		protocol.Encode(c.conn, protocol.MsgLeave, protocol.LeaveMsg{})
		c.writeMu.Unlock()
		close(c.done)
		c.conn.Close()
	})
}

func (c *Client) receiveLoop() {
	defer close(c.stateCh)

	for {
		select {
		case <-c.done:
			return
		default:
		}

		env, err := protocol.Decode(c.conn)
		if err != nil {
			if errors.Is(err, protocol.ErrMalformed) {
				continue
			}
			return
		}

		switch env.Type {
		case protocol.MsgState:
			var msg protocol.StateMsg
			if err := protocol.DecodePayload(env, &msg); err != nil {
				continue
			}
			// Latest-wins: drop the oldest buffered snapshot rather than
			// block the network read.
			select {
			case c.stateCh <- msg.State:
			default:
				select {
				case <-c.stateCh:
				default:
				}
				select {
				case c.stateCh <- msg.State:
				default:
				}
			}
		case protocol.MsgError:
			// Mid-game rejections produce no visible state change.
		}
	}
}
