package game

import "sort"

// World mutation helpers. All of these assume the engine mutex is held; they
// are only reached from Join/Leave (connection goroutines, locked) and from
// inside a tick.

// addPlayerLocked creates a player at the next free spawn point, chosen
// round-robin over the arena's fixed spawn list.
func (e *Engine) addPlayerLocked(id int, name string) (*Player, error) {
	if _, exists := e.State.Players[id]; exists {
		return nil, ErrDuplicateID
	}

	spawn, ok := e.pickSpawnLocked()
	if !ok {
		return nil, ErrNoSpawnAvailable
	}

	p := &Player{
		ID:         id,
		Name:       name,
		Pos:        spawn,
		Alive:      true,
		BombLimit:  e.Config.BombLimit,
		BlastRange: e.Config.BlastRange,
	}
	e.State.Players[id] = p
	return p, nil
}

// pickSpawnLocked scans the spawn list starting at the round-robin cursor
// and returns the first spawn not occupied by a living player.
func (e *Engine) pickSpawnLocked() (Position, bool) {
	n := len(e.spawns)
	for i := 0; i < n; i++ {
		sp := e.spawns[(e.spawnCursor+i)%n]
		if e.playerAtLocked(sp) == nil {
			e.spawnCursor = (e.spawnCursor + i + 1) % n
			return sp, true
		}
	}
	return Position{}, false
}

// removePlayerLocked deletes a player. Removing an unknown id is a no-op;
// disconnect races are expected.
func (e *Engine) removePlayerLocked(id int) {
	delete(e.State.Players, id)
}

// placeBomb plants a bomb at the player's current position.
func (e *Engine) placeBomb(p *Player) error {
	if p.Cooldown > 0 {
		return ErrCooldownActive
	}
	if p.ActiveBombs >= p.BombLimit {
		return ErrBombLimitReached
	}
	if e.bombAtLocked(p.Pos) != nil {
		return ErrCellOccupied
	}

	e.nextBombID++
	e.State.Bombs = append(e.State.Bombs, &Bomb{
		ID:        e.nextBombID,
		Owner:     p.ID,
		Pos:       p.Pos,
		Countdown: e.Config.BombTicks,
		Range:     p.BlastRange,
	})
	p.ActiveBombs++
	p.Cooldown = e.Config.CooldownTicks
	return nil
}

// bombAtLocked returns the bomb occupying pos, if any.
func (e *Engine) bombAtLocked(pos Position) *Bomb {
	for _, b := range e.State.Bombs {
		if b.Pos == pos {
			return b
		}
	}
	return nil
}

// playerAtLocked returns the living player occupying pos, if any.
func (e *Engine) playerAtLocked(pos Position) *Player {
	for _, id := range e.sortedPlayerIDsLocked() {
		p := e.State.Players[id]
		if p.Alive && p.Pos == pos {
			return p
		}
	}
	return nil
}

// sortedPlayerIDsLocked returns player ids in ascending order. Every
// per-player iteration inside a tick goes through this so that two
// simulations fed the same intents produce identical states.
func (e *Engine) sortedPlayerIDsLocked() []int {
	ids := make([]int, 0, len(e.State.Players))
	for id := range e.State.Players {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
