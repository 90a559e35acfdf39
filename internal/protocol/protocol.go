// Package protocol implements the wire format between clients and the game
// server: length-prefixed frames carrying msgpack-encoded envelopes.
//
// Frame layout: [4-byte big-endian length][msgpack envelope]. The envelope
// carries the layout version, a message type tag and an opaque payload, so
// the codec round-trips every valid message exactly.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/okiba/blastarena/internal/game"
)

// Version is the wire layout version. Peers speaking a different version
// are disconnected; nothing useful can follow.
const Version = 1

// MaxFrameSize bounds a single frame. A length prefix beyond it is treated
// as corruption, not as a large message.
const MaxFrameSize = 1 << 20

// MsgType identifies the message family inside an envelope.
type MsgType uint8

const (
	// Client -> server
	MsgJoin MsgType = iota + 1
	MsgIntent
	MsgStart
	MsgLeave

	// Server -> client
	MsgWelcome
	MsgState
	MsgError
)

func (t MsgType) valid() bool {
	return t >= MsgJoin && t <= MsgError
}

// ErrMalformed marks a message that was framed correctly but could not be
// decoded. The frame was fully consumed; the caller may discard it and keep
// reading.
var ErrMalformed = errors.New("malformed message")

// ErrFraming marks corruption that makes the stream position unrecoverable
// (bad length prefix, wrong protocol version). The caller must close the
// connection.
var ErrFraming = errors.New("unrecoverable framing error")

// Envelope wraps every message with the layout version and a type tag.
type Envelope struct {
	Version uint8              `msgpack:"v"`
	Type    MsgType            `msgpack:"t"`
	Payload msgpack.RawMessage `msgpack:"p"`
}

// --- Client -> server payloads ---

// JoinMsg requests a player slot. The server assigns the id; the name is
// display-only.
type JoinMsg struct {
	Name string `msgpack:"name"`
}

// IntentMsg submits one action for the next tick. The acting player is the
// connection's player, never taken from the payload.
type IntentMsg struct {
	Kind game.IntentKind `msgpack:"kind"`
}

// StartMsg asks the server to start the match from the lobby.
type StartMsg struct{}

// LeaveMsg announces an orderly disconnect.
type LeaveMsg struct{}

// --- Server -> client payloads ---

// WelcomeMsg confirms a join with the assigned id and the match config.
type WelcomeMsg struct {
	PlayerID int         `msgpack:"player_id"`
	Config   game.Config `msgpack:"config"`
}

// StateMsg carries a full snapshot as of one tick boundary.
type StateMsg struct {
	State game.GameState `msgpack:"state"`
}

// ErrorMsg reports a rejected request.
type ErrorMsg struct {
	Code    string `msgpack:"code"`
	Message string `msgpack:"message"`
}

// Error codes carried by ErrorMsg.
const (
	CodeGameFull     = "game_full"
	CodeNoSpawn      = "no_spawn_available"
	CodeMatchRunning = "match_running"
	CodeBadMessage   = "bad_message"
)

// Encode serializes a message and writes one frame to w.
func Encode(w io.Writer, msgType MsgType, payload interface{}) error {
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	body, err := msgpack.Marshal(Envelope{
		Version: Version,
		Type:    msgType,
		Payload: raw,
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := binary.Write(w, binary.BigEndian, uint32(len(body))); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// Decode reads one frame from r.
//
// Error classes: io errors (peer gone) are returned as-is; ErrFraming means
// the stream is corrupt and must be closed; ErrMalformed means this message
// is garbage but the next frame boundary is intact.
func Decode(r io.Reader) (*Envelope, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	if length == 0 || length > MaxFrameSize {
		return nil, fmt.Errorf("%w: frame length %d", ErrFraming, length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}

	var env Envelope
	if err := msgpack.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Version != Version {
		return nil, fmt.Errorf("%w: protocol version %d, want %d", ErrFraming, env.Version, Version)
	}
	if !env.Type.valid() {
		return nil, fmt.Errorf("%w: unknown message type %d", ErrMalformed, env.Type)
	}
	return &env, nil
}

// DecodePayload unmarshals an envelope's payload into target.
func DecodePayload(env *Envelope, target interface{}) error {
	if err := msgpack.Unmarshal(env.Payload, target); err != nil {
		return fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}
	return nil
}
