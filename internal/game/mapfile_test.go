package game

import (
	"strings"
	"testing"
)

const sampleMap = `blastarena map v1
#######
#S + S#
# # # #
#S + S#
#######`

func TestLoadArena(t *testing.T) {
	arena, err := LoadArena(strings.NewReader(sampleMap))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if arena.Grid.Width != 7 || arena.Grid.Height != 5 {
		t.Fatalf("expected 7x5, got %dx%d", arena.Grid.Width, arena.Grid.Height)
	}
	if len(arena.Spawns) != 4 {
		t.Fatalf("expected 4 spawns, got %d", len(arena.Spawns))
	}

	// Spawn cells become empty.
	for _, sp := range arena.Spawns {
		if arena.Grid.Cells[sp.Y][sp.X] != CellEmpty {
			t.Errorf("spawn (%d,%d) should be empty", sp.X, sp.Y)
		}
	}

	if arena.Grid.Cells[1][3] != CellBlock {
		t.Errorf("expected block at (3,1), got %v", arena.Grid.Cells[1][3])
	}
	if arena.Grid.Cells[2][2] != CellWall {
		t.Errorf("expected wall at (2,2), got %v", arena.Grid.Cells[2][2])
	}
}

func TestLoadArenaPadsShortRows(t *testing.T) {
	arena, err := LoadArena(strings.NewReader("blastarena map v1\n###\nS\n###"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if arena.Grid.Width != 3 || arena.Grid.Height != 3 {
		t.Fatalf("expected 3x3, got %dx%d", arena.Grid.Width, arena.Grid.Height)
	}
	if arena.Grid.Cells[1][2] != CellEmpty {
		t.Errorf("padded cell should be empty, got %v", arena.Grid.Cells[1][2])
	}
}

func TestLoadArenaRejects(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"bad magic", "bomberman map v1\n#S#"},
		{"bad version", "blastarena map vX\n#S#"},
		{"unknown cell", "blastarena map v1\n#S?#"},
		{"no spawns", "blastarena map v1\n###\n# #\n###"},
		{"no rows", "blastarena map v1"},
	}

	for _, tc := range cases {
		if _, err := LoadArena(strings.NewReader(tc.data)); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}
