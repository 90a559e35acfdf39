package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/okiba/blastarena/internal/game"
)

// roundTrip encodes one message, decodes the frame and unmarshals the
// payload into target.
func roundTrip(t *testing.T, msgType MsgType, payload, target interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if err := Encode(&buf, msgType, payload); err != nil {
		t.Fatalf("encode: %v", err)
	}

	env, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Version != Version {
		t.Errorf("version %d, want %d", env.Version, Version)
	}
	if env.Type != msgType {
		t.Errorf("type %d, want %d", env.Type, msgType)
	}
	if err := DecodePayload(env, target); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
}

func TestRoundTripJoin(t *testing.T) {
	var got JoinMsg
	roundTrip(t, MsgJoin, JoinMsg{Name: "flametest"}, &got)
	if got.Name != "flametest" {
		t.Errorf("name %q", got.Name)
	}
}

func TestRoundTripIntent(t *testing.T) {
	// Every intent kind the client can legitimately send, including the
	// boundary values.
	kinds := []game.IntentKind{
		game.IntentNone,
		game.IntentMoveUp,
		game.IntentMoveDown,
		game.IntentMoveLeft,
		game.IntentMoveRight,
		game.IntentPlaceBomb,
	}
	for _, k := range kinds {
		var got IntentMsg
		roundTrip(t, MsgIntent, IntentMsg{Kind: k}, &got)
		if got.Kind != k {
			t.Errorf("kind %d came back as %d", k, got.Kind)
		}
	}
}

func TestRoundTripWelcome(t *testing.T) {
	var got WelcomeMsg
	want := WelcomeMsg{PlayerID: 3, Config: game.DefaultConfig()}
	roundTrip(t, MsgWelcome, want, &got)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRoundTripError(t *testing.T) {
	var got ErrorMsg
	roundTrip(t, MsgError, ErrorMsg{Code: CodeGameFull, Message: "arena is full"}, &got)
	if got.Code != CodeGameFull || got.Message != "arena is full" {
		t.Errorf("got %+v", got)
	}
}

func TestRoundTripState(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Width, cfg.Height = 7, 7
	arena := game.GenerateArena(cfg)

	state := game.GameState{
		Tick:  42,
		Grid:  arena.Grid,
		Phase: game.PhaseRunning,
		Players: map[int]*game.Player{
			1: {ID: 1, Name: "a", Pos: game.Position{X: 1, Y: 1}, Alive: true, BombLimit: 1, BlastRange: 2},
			2: {ID: 2, Name: "b", Pos: game.Position{X: 5, Y: 5}, Alive: false, BombLimit: 1, BlastRange: 2},
		},
		Bombs: []*game.Bomb{
			{ID: 1, Owner: 1, Pos: game.Position{X: 2, Y: 1}, Countdown: 17, Range: 2},
		},
		Flames: []game.Flame{
			{Pos: game.Position{X: 3, Y: 3}, TTL: 4, Source: 1},
		},
	}

	var got StateMsg
	roundTrip(t, MsgState, StateMsg{State: state}, &got)
	if !reflect.DeepEqual(got.State, state) {
		t.Errorf("snapshot did not survive the wire:\ngot  %+v\nwant %+v", got.State, state)
	}
}

func TestDecodeZeroLength(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(0))

	if _, err := Decode(&buf); !errors.Is(err, ErrFraming) {
		t.Errorf("expected ErrFraming, got %v", err)
	}
}

func TestDecodeOversizeLength(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(MaxFrameSize+1))

	if _, err := Decode(&buf); !errors.Is(err, ErrFraming) {
		t.Errorf("expected ErrFraming, got %v", err)
	}
}

func TestDecodeTruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, MsgStart, StartMsg{}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	frame := buf.Bytes()

	// Cut the frame short of its declared length: the reader should see
	// the io error, not a protocol error.
	_, err := Decode(bytes.NewReader(frame[:len(frame)-2]))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestDecodeGarbageBody(t *testing.T) {
	body := []byte{0xc1, 0xff, 0x00, 0x13, 0x37} // 0xc1 is never valid msgpack
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(len(body)))
	buf.Write(body)

	if _, err := Decode(&buf); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	body, err := msgpack.Marshal(Envelope{Version: Version, Type: MsgError + 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(len(body)))
	buf.Write(body)

	if _, err := Decode(&buf); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestDecodeVersionMismatch(t *testing.T) {
	body, err := msgpack.Marshal(Envelope{Version: Version + 1, Type: MsgJoin})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(len(body)))
	buf.Write(body)

	if _, err := Decode(&buf); !errors.Is(err, ErrFraming) {
		t.Errorf("expected ErrFraming, got %v", err)
	}
}

func TestDecodeEOF(t *testing.T) {
	if _, err := Decode(bytes.NewReader(nil)); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF on empty stream, got %v", err)
	}
}

func TestBackToBackFrames(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, MsgJoin, JoinMsg{Name: "one"}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := Encode(&buf, MsgLeave, LeaveMsg{}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	first, err := Decode(&buf)
	if err != nil || first.Type != MsgJoin {
		t.Fatalf("first frame: type=%v err=%v", first, err)
	}
	second, err := Decode(&buf)
	if err != nil || second.Type != MsgLeave {
		t.Fatalf("second frame: type=%v err=%v", second, err)
	}
}
