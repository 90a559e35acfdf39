package game

import (
	"errors"
	"testing"
)

// emptyArena builds a walled arena with an empty interior and the given
// spawn points.
func emptyArena(w, h int, spawns ...Position) Arena {
	cells := make([][]CellKind, h)
	for y := range cells {
		cells[y] = make([]CellKind, w)
		for x := range cells[y] {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				cells[y][x] = CellWall
			}
		}
	}
	return Arena{
		Grid:   Grid{Cells: cells, Width: w, Height: h},
		Spawns: spawns,
	}
}

func TestCellAtOutOfBounds(t *testing.T) {
	arena := emptyArena(5, 5, Position{X: 1, Y: 1})
	g := arena.Grid

	for _, pos := range []Position{
		{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 5, Y: 0}, {X: 0, Y: 5},
	} {
		if _, err := g.CellAt(pos); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("CellAt(%v): expected ErrOutOfBounds, got %v", pos, err)
		}
	}

	if kind, err := g.CellAt(Position{X: 0, Y: 0}); err != nil || kind != CellWall {
		t.Errorf("CellAt(0,0): expected wall, got %v %v", kind, err)
	}
	if kind, err := g.CellAt(Position{X: 2, Y: 2}); err != nil || kind != CellEmpty {
		t.Errorf("CellAt(2,2): expected empty, got %v %v", kind, err)
	}
}

func TestClearBlockAt(t *testing.T) {
	arena := emptyArena(5, 5, Position{X: 1, Y: 1})
	g := arena.Grid
	g.Cells[2][2] = CellBlock

	g.ClearBlockAt(Position{X: 2, Y: 2})
	if g.Cells[2][2] != CellEmpty {
		t.Errorf("block at (2,2) should be cleared, got %v", g.Cells[2][2])
	}

	// No-op on walls and out-of-bounds coordinates.
	g.ClearBlockAt(Position{X: 0, Y: 0})
	if g.Cells[0][0] != CellWall {
		t.Errorf("wall at (0,0) should survive ClearBlockAt, got %v", g.Cells[0][0])
	}
	g.ClearBlockAt(Position{X: -3, Y: 17})
}

func TestWalkable(t *testing.T) {
	arena := emptyArena(5, 5, Position{X: 1, Y: 1})
	g := arena.Grid
	g.Cells[2][3] = CellBlock

	if !g.Walkable(Position{X: 1, Y: 1}) {
		t.Error("(1,1) should be walkable")
	}
	if g.Walkable(Position{X: 0, Y: 1}) {
		t.Error("wall should not be walkable")
	}
	if g.Walkable(Position{X: 3, Y: 2}) {
		t.Error("block should not be walkable")
	}
	if g.Walkable(Position{X: -1, Y: 2}) {
		t.Error("out-of-bounds should not be walkable")
	}
}

func TestGenerateArena(t *testing.T) {
	cfg := DefaultConfig()
	arena := GenerateArena(cfg)
	g := arena.Grid

	if g.Height != cfg.Height || g.Width != cfg.Width {
		t.Fatalf("expected %dx%d grid, got %dx%d", cfg.Width, cfg.Height, g.Width, g.Height)
	}

	for x := 0; x < cfg.Width; x++ {
		if g.Cells[0][x] != CellWall || g.Cells[cfg.Height-1][x] != CellWall {
			t.Errorf("border at x=%d should be wall", x)
		}
	}
	for y := 0; y < cfg.Height; y++ {
		if g.Cells[y][0] != CellWall || g.Cells[y][cfg.Width-1] != CellWall {
			t.Errorf("border at y=%d should be wall", y)
		}
	}

	for y := 2; y < cfg.Height-1; y += 2 {
		for x := 2; x < cfg.Width-1; x += 2 {
			if g.Cells[y][x] != CellWall {
				t.Errorf("pillar at (%d,%d) should be wall, got %v", x, y, g.Cells[y][x])
			}
		}
	}

	if len(arena.Spawns) != 4 {
		t.Fatalf("expected 4 spawns, got %d", len(arena.Spawns))
	}
	for _, sp := range arena.Spawns {
		if g.Cells[sp.Y][sp.X] != CellEmpty {
			t.Errorf("spawn (%d,%d) should be empty, got %v", sp.X, sp.Y, g.Cells[sp.Y][sp.X])
		}
	}
}

func TestGenerateArenaSeeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42

	a := GenerateArena(cfg)
	b := GenerateArena(cfg)

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			if a.Grid.Cells[y][x] != b.Grid.Cells[y][x] {
				t.Fatalf("same seed produced different arenas at (%d,%d)", x, y)
			}
		}
	}
}
