package game

import (
	"sync"
	"time"
)

// Engine is the authoritative simulation loop. It is the sole mutator of
// GameState: network goroutines only deposit intents into the single-slot
// queue and receive immutable snapshot copies after each tick.
type Engine struct {
	State  *GameState
	Config Config

	spawns      []Position
	spawnCursor int
	nextPlayer  int
	nextBombID  int

	mu sync.Mutex

	// intents holds at most one pending intent per player. Submissions
	// overwrite; the tick consumes and clears the whole map.
	intentMu sync.Mutex
	intents  map[int]Intent

	onSnapshot func(GameState) // Invoked after each tick with a deep copy
	done       chan struct{}
	stopOnce   sync.Once
}

// NewEngine creates an engine for the given arena.
func NewEngine(cfg Config, arena Arena) *Engine {
	state := &GameState{
		Grid:    arena.Grid,
		Players: make(map[int]*Player),
		Bombs:   make([]*Bomb, 0),
		Flames:  make([]Flame, 0),
		Phase:   PhaseLobby,
	}
	return &Engine{
		State:   state,
		Config:  cfg,
		spawns:  arena.Spawns,
		intents: make(map[int]Intent),
		done:    make(chan struct{}),
	}
}

// OnSnapshot sets a callback invoked after every tick with a copy of the
// state. The session layer uses it to broadcast to clients.
func (e *Engine) OnSnapshot(fn func(GameState)) {
	e.onSnapshot = fn
}

// Run drives the simulation at the configured tick rate until Stop is
// called. A tick always runs to completion; the stop signal is only honored
// between ticks.
func (e *Engine) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(e.Config.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			e.Step()
		}
	}
}

// Stop halts the loop. Safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.done) })
}

// Join adds a player and returns the assigned id. Joining is only possible
// in the lobby.
func (e *Engine) Join(name string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.State.Phase != PhaseLobby {
		return 0, ErrMatchRunning
	}
	if len(e.State.Players) >= e.Config.MaxPlayers {
		return 0, ErrGameFull
	}

	id := e.nextPlayer + 1
	p, err := e.addPlayerLocked(id, name)
	if err != nil {
		return 0, err
	}
	e.nextPlayer = id

	// Auto-start once the minimum player count is reached.
	if e.Config.MinPlayers > 0 && len(e.State.Players) >= e.Config.MinPlayers {
		e.State.Phase = PhaseRunning
	}

	return p.ID, nil
}

// Leave handles a disconnect. In the lobby the player is removed entirely;
// mid-match the player is marked dead and the match continues.
func (e *Engine) Leave(id int) {
	e.mu.Lock()
	if e.State.Phase == PhaseLobby {
		e.removePlayerLocked(id)
	} else if p, ok := e.State.Players[id]; ok {
		p.Alive = false
	}
	e.mu.Unlock()

	e.intentMu.Lock()
	delete(e.intents, id)
	e.intentMu.Unlock()
}

// StartMatch transitions from lobby to running on an explicit start signal.
func (e *Engine) StartMatch() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.State.Phase != PhaseLobby {
		return ErrMatchRunning
	}
	if len(e.State.Players) < 1 {
		return ErrNotEnoughPlayers
	}
	e.State.Phase = PhaseRunning
	return nil
}

// SubmitIntent stores a player's intent for the next tick, overwriting any
// intent not yet consumed. It never blocks and is safe for concurrent use.
func (e *Engine) SubmitIntent(id int, in Intent) {
	e.intentMu.Lock()
	e.intents[id] = in
	e.intentMu.Unlock()
}

// takeIntents swaps out the pending intent map.
func (e *Engine) takeIntents() map[int]Intent {
	e.intentMu.Lock()
	defer e.intentMu.Unlock()
	if len(e.intents) == 0 {
		return nil
	}
	taken := e.intents
	e.intents = make(map[int]Intent)
	return taken
}

// Step advances the simulation by exactly one tick and publishes a
// snapshot. Run calls it on the ticker; tests call it directly.
//
// The sub-steps execute in a fixed order, with per-entity iteration in
// ascending id order, so the resulting state is a pure function of the
// previous state and the consumed intents.
func (e *Engine) Step() {
	intents := e.takeIntents()

	e.mu.Lock()
	if e.State.Phase == PhaseRunning {
		e.applyIntentsLocked(intents)
		due := e.ageBombsLocked()
		e.detonateLocked(due)
		e.eliminateLocked()
		e.decayFlamesLocked()
		e.checkWinLocked()
	}
	e.State.Tick++

	snapshot := e.copyStateLocked()
	// Release before the callback: it may call back into the engine.
	e.mu.Unlock()

	if e.onSnapshot != nil {
		e.onSnapshot(snapshot)
	}
}

// checkWinLocked ends the match when at most one player is left alive.
func (e *Engine) checkWinLocked() {
	alive := make([]*Player, 0, len(e.State.Players))
	for _, id := range e.sortedPlayerIDsLocked() {
		if p := e.State.Players[id]; p.Alive {
			alive = append(alive, p)
		}
	}

	switch len(alive) {
	case 0:
		// Everyone died on the same tick.
		e.State.Phase = PhaseEnded
		e.State.Winner = 0
	case 1:
		if len(e.State.Players) > 1 {
			e.State.Phase = PhaseEnded
			e.State.Winner = alive[0].ID
		}
	}
}

// Snapshot returns a deep copy of the current state, safe to serialize or
// render without further synchronization.
func (e *Engine) Snapshot() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyStateLocked()
}

func (e *Engine) copyStateLocked() GameState {
	playersCopy := make(map[int]*Player, len(e.State.Players))
	for id, p := range e.State.Players {
		cp := *p
		playersCopy[id] = &cp
	}

	bombsCopy := make([]*Bomb, len(e.State.Bombs))
	for i, b := range e.State.Bombs {
		cb := *b
		bombsCopy[i] = &cb
	}

	flamesCopy := make([]Flame, len(e.State.Flames))
	copy(flamesCopy, e.State.Flames)

	return GameState{
		Tick:    e.State.Tick,
		Grid:    e.State.Grid.clone(),
		Players: playersCopy,
		Bombs:   bombsCopy,
		Flames:  flamesCopy,
		Phase:   e.State.Phase,
		Winner:  e.State.Winner,
	}
}
