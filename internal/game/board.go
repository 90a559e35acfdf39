package game

import (
	"math/rand"
)

// Arena is a pre-validated grid plus its spawn-point list, the two inputs a
// match needs to start. It comes from GenerateArena or LoadArena.
type Arena struct {
	Grid   Grid
	Spawns []Position
}

// GenerateArena builds a classic arena layout.
//
// Layout rules:
//   - Border is all CellWall
//   - CellWall pillar at every position where both X and Y are even
//   - Random CellBlock fill at the configured density
//   - Corner spawns (and their adjacent tiles) are kept clear
//
// The fill uses a seeded source so identical configs generate identical
// arenas.
func GenerateArena(cfg Config) Arena {
	cells := make([][]CellKind, cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		cells[y] = make([]CellKind, cfg.Width)
		for x := 0; x < cfg.Width; x++ {
			switch {
			case x == 0 || y == 0 || x == cfg.Width-1 || y == cfg.Height-1:
				cells[y][x] = CellWall
			case x%2 == 0 && y%2 == 0:
				cells[y][x] = CellWall
			default:
				cells[y][x] = CellEmpty
			}
		}
	}

	spawns := cornerSpawns(cfg.Width, cfg.Height)
	safe := makeSafeSet(spawns)

	rng := rand.New(rand.NewSource(cfg.Seed))
	for y := 1; y < cfg.Height-1; y++ {
		for x := 1; x < cfg.Width-1; x++ {
			if cells[y][x] != CellEmpty {
				continue
			}
			pos := Position{X: x, Y: y}
			if safe[pos] {
				continue
			}
			if rng.Float64() < cfg.BlockDensity {
				cells[y][x] = CellBlock
			}
		}
	}

	return Arena{
		Grid:   Grid{Cells: cells, Width: cfg.Width, Height: cfg.Height},
		Spawns: spawns,
	}
}

// cornerSpawns returns the four corner spawn positions.
func cornerSpawns(width, height int) []Position {
	return []Position{
		{X: 1, Y: 1},
		{X: width - 2, Y: 1},
		{X: 1, Y: height - 2},
		{X: width - 2, Y: height - 2},
	}
}

// makeSafeSet returns the positions that must stay clear of blocks so a
// freshly spawned player is not boxed in.
func makeSafeSet(spawns []Position) map[Position]bool {
	safe := make(map[Position]bool)
	for _, sp := range spawns {
		safe[sp] = true
		safe[Position{X: sp.X + 1, Y: sp.Y}] = true
		safe[Position{X: sp.X, Y: sp.Y + 1}] = true
		safe[Position{X: sp.X - 1, Y: sp.Y}] = true
		safe[Position{X: sp.X, Y: sp.Y - 1}] = true
	}
	return safe
}
