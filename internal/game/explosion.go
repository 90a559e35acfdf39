package game

// ageBombsLocked decrements every countdown and returns the bombs due to
// detonate this tick, in ascending id order (the bombs slice is kept in
// placement order and ids are monotonic).
func (e *Engine) ageBombsLocked() []*Bomb {
	var due []*Bomb
	for _, b := range e.State.Bombs {
		if b.Countdown > 0 {
			b.Countdown--
		}
		if b.Countdown == 0 {
			due = append(due, b)
		}
	}
	return due
}

// detonateLocked explodes every due bomb plus any bombs their flame reaches,
// all within this tick, then removes the spent bombs and refunds their
// owners' bomb slots.
func (e *Engine) detonateLocked(due []*Bomb) {
	if len(due) == 0 {
		return
	}

	exploded := make(map[int]bool)
	for _, b := range due {
		e.explodeLocked(b, exploded)
	}

	remaining := e.State.Bombs[:0]
	for _, b := range e.State.Bombs {
		if !exploded[b.ID] {
			remaining = append(remaining, b)
			continue
		}
		if p, ok := e.State.Players[b.Owner]; ok {
			p.ActiveBombs--
		}
	}
	e.State.Bombs = remaining
}

// explodeLocked spawns flame at the bomb's cell and along the four axis
// rays. A wall stops a ray with no flame placed; a block takes one flame
// step, is cleared, and stops the ray; another bomb does not stop the ray
// but chain-detonates immediately.
func (e *Engine) explodeLocked(bomb *Bomb, exploded map[int]bool) {
	// Single gate against re-detonation: a due bomb may already have been
	// taken out by a chain from an earlier bomb in this pass.
	if exploded[bomb.ID] {
		return
	}
	exploded[bomb.ID] = true

	e.spawnFlameLocked(bomb.Pos, bomb.ID)

	for dir := DirUp; dir <= DirRight; dir++ {
		for dist := 1; dist <= bomb.Range; dist++ {
			pos := bomb.Pos
			for i := 0; i < dist; i++ {
				pos = pos.Step(dir)
			}

			cell, err := e.State.Grid.CellAt(pos)
			if err != nil || cell == CellWall {
				break
			}

			e.spawnFlameLocked(pos, bomb.ID)

			if cell == CellBlock {
				e.State.Grid.ClearBlockAt(pos)
				break
			}

			if other := e.bombAtLocked(pos); other != nil {
				e.explodeLocked(other, exploded)
			}
		}
	}
}

func (e *Engine) spawnFlameLocked(pos Position, source int) {
	e.State.Flames = append(e.State.Flames, Flame{
		Pos:    pos,
		TTL:    e.Config.FlameTicks,
		Source: source,
	})
}

// eliminateLocked kills every living player standing on an active flame
// cell. It runs after all of this tick's detonations, so simultaneous
// blasts and movement into flame resolve on the same tick.
func (e *Engine) eliminateLocked() {
	if len(e.State.Flames) == 0 {
		return
	}
	flameSet := make(map[Position]bool, len(e.State.Flames))
	for _, f := range e.State.Flames {
		flameSet[f.Pos] = true
	}

	for _, id := range e.sortedPlayerIDsLocked() {
		p := e.State.Players[id]
		if p.Alive && flameSet[p.Pos] {
			p.Alive = false
		}
	}
}

// decayFlamesLocked ages flame cells and drops the expired ones. Decay runs
// at the end of the tick, so a cell vacated by expiring flame is safe to
// enter on the next tick.
func (e *Engine) decayFlamesLocked() {
	remaining := e.State.Flames[:0]
	for _, f := range e.State.Flames {
		f.TTL--
		if f.TTL > 0 {
			remaining = append(remaining, f)
		}
	}
	e.State.Flames = remaining
}
