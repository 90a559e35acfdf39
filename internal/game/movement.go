package game

// applyIntentsLocked consumes the tick's intents in ascending player id
// order: at most one movement step or one bomb placement per player.
// Rejected intents leave the state untouched; the offending player simply
// sees no effect. Dead players' intents are ignored.
func (e *Engine) applyIntentsLocked(intents map[int]Intent) {
	for _, id := range e.sortedPlayerIDsLocked() {
		p := e.State.Players[id]
		if p.Cooldown > 0 {
			p.Cooldown--
		}
		if !p.Alive {
			continue
		}

		in, ok := intents[id]
		if !ok {
			continue
		}
		switch in.Kind {
		case IntentMoveUp:
			e.movePlayer(p, DirUp)
		case IntentMoveDown:
			e.movePlayer(p, DirDown)
		case IntentMoveLeft:
			e.movePlayer(p, DirLeft)
		case IntentMoveRight:
			e.movePlayer(p, DirRight)
		case IntentPlaceBomb:
			e.placeBomb(p)
		}
	}
}

// movePlayer attempts a single step. Movement is blocked by grid bounds,
// walls, blocks, bombs and other living players. Two players targeting the
// same cell on one tick are resolved by processing order: the lower id
// claims the cell and the later move fails with ErrCellOccupied.
func (e *Engine) movePlayer(p *Player, dir Direction) error {
	target := p.Pos.Step(dir)

	if !e.State.Grid.Walkable(target) {
		if !e.State.Grid.InBounds(target) {
			return ErrOutOfBounds
		}
		return ErrCellOccupied
	}
	if e.bombAtLocked(target) != nil {
		return ErrCellOccupied
	}
	if other := e.playerAtLocked(target); other != nil && other != p {
		return ErrCellOccupied
	}

	p.Pos = target
	// Walking into active flame is lethal, but the kill is resolved in the
	// elimination step so that it lands on the same tick as blast kills.
	return nil
}
