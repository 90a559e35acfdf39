package game

// CellKind represents the content of one grid cell.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellWall           // Indestructible
	CellBlock          // Destructible by blasts
)

// Direction represents a movement direction.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// IntentKind identifies the action a player wants performed on the next tick.
type IntentKind uint8

const (
	IntentNone IntentKind = iota
	IntentMoveUp
	IntentMoveDown
	IntentMoveLeft
	IntentMoveRight
	IntentPlaceBomb
)

// Valid reports whether the kind is a known intent value. The session layer
// uses it to reject out-of-range values decoded from the wire.
func (k IntentKind) Valid() bool {
	return k <= IntentPlaceBomb
}

// Intent is a single player-submitted action. Intents submitted faster than
// one per tick overwrite each other; only the latest is applied.
type Intent struct {
	Kind IntentKind `json:"kind"`
}

// Position is a cell coordinate on the grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the adjacent position in the given direction.
func (p Position) Step(dir Direction) Position {
	switch dir {
	case DirUp:
		p.Y--
	case DirDown:
		p.Y++
	case DirLeft:
		p.X--
	case DirRight:
		p.X++
	}
	return p
}

// Player represents a connected player. The id is assigned by the server at
// join time and stays stable for the lifetime of the connection.
type Player struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Pos         Position `json:"pos"`
	Alive       bool     `json:"alive"`
	Cooldown    int      `json:"cooldown"`     // Ticks until the next bomb may be placed
	BombLimit   int      `json:"bomb_limit"`   // Max simultaneous bombs
	BlastRange  int      `json:"blast_range"`  // Blast ray length in cells
	ActiveBombs int      `json:"active_bombs"` // Currently planted bombs
}

// Bomb is an armed bomb on the grid. Ids are monotonic, so ascending id
// order is also placement order.
type Bomb struct {
	ID        int      `json:"id"`
	Owner     int      `json:"owner"`
	Pos       Position `json:"pos"`
	Countdown int      `json:"countdown"` // Ticks until detonation
	Range     int      `json:"range"`
}

// Flame is a transient blast overlay on one cell.
type Flame struct {
	Pos    Position `json:"pos"`
	TTL    int      `json:"ttl"`    // Ticks until the flame dissipates
	Source int      `json:"source"` // Id of the bomb that spawned it
}

// Phase represents the current game phase.
type Phase uint8

const (
	PhaseLobby   Phase = iota // Waiting for players
	PhaseRunning              // Match in progress
	PhaseEnded                // Match finished
)

// GameState is the authoritative state of one match, owned by the Engine.
// Snapshots handed out for broadcast are deep copies taken at tick
// boundaries and are never mutated afterwards.
type GameState struct {
	Tick    uint64          `json:"tick"`
	Grid    Grid            `json:"grid"`
	Players map[int]*Player `json:"players"`
	Bombs   []*Bomb         `json:"bombs"`
	Flames  []Flame         `json:"flames"`
	Phase   Phase           `json:"phase"`
	Winner  int             `json:"winner,omitempty"` // Player id, 0 when none
}

// Config holds the tunable parameters of a match. All timers are expressed
// in ticks so that identical configs simulate identically regardless of
// wall-clock jitter.
type Config struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	TickRate      int     `json:"tick_rate"` // Ticks per second
	MinPlayers    int     `json:"min_players"`
	MaxPlayers    int     `json:"max_players"`
	BombTicks     int     `json:"bomb_ticks"`     // Countdown from placement to detonation
	FlameTicks    int     `json:"flame_ticks"`    // Flame lifetime
	CooldownTicks int     `json:"cooldown_ticks"` // Delay between placements by one player
	BombLimit     int     `json:"bomb_limit"`     // Default per-player simultaneous bombs
	BlastRange    int     `json:"blast_range"`    // Default per-player blast range
	BlockDensity  float64 `json:"block_density"`  // 0.0 to 1.0, generated arenas only
	Seed          int64   `json:"seed"`           // Arena generation seed
}

// DefaultConfig returns a sensible default match configuration.
func DefaultConfig() Config {
	return Config{
		Width:         15,
		Height:        13,
		TickRate:      20,
		MinPlayers:    0, // Auto-start disabled; the lobby waits for a start signal
		MaxPlayers:    4,
		BombTicks:     60, // 3s at 20 ticks/s
		FlameTicks:    20,
		CooldownTicks: 10,
		BombLimit:     1,
		BlastRange:    2,
		BlockDensity:  0.4,
		Seed:          1,
	}
}
