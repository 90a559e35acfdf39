package game

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Map file format: a version header line followed by one line per grid row.
//
//	blastarena map v1
//	#######
//	#S + S#
//	# # # #
//	#S + S#
//	#######
//
// Cells: '#' wall, '+' block, ' ' empty, 'S' spawn. Spawn cells become empty
// and are collected into the arena's spawn list. Short rows are padded with
// empty cells so the grid stays rectangular.
const mapMagic = "blastarena map v"

const (
	maxMapWidth  = 256
	maxMapHeight = 256
)

// MapError describes a rejected map file.
type MapError struct {
	Line int
	Msg  string
}

func (e *MapError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("map line %d: %s", e.Line, e.Msg)
	}
	return "map: " + e.Msg
}

// LoadArena parses a text map into an Arena. The result is validated:
// rectangular, within size limits, at least one spawn point.
func LoadArena(r io.Reader) (Arena, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		return Arena{}, &MapError{Msg: "empty map file"}
	}
	header := sc.Text()
	if !strings.HasPrefix(header, mapMagic) {
		return Arena{}, &MapError{Line: 1, Msg: fmt.Sprintf("header must start with %q", mapMagic)}
	}
	if _, err := strconv.Atoi(strings.TrimPrefix(header, mapMagic)); err != nil {
		return Arena{}, &MapError{Line: 1, Msg: "header version is not a number"}
	}

	var (
		rows   [][]CellKind
		spawns []Position
		width  int
	)
	for line := 2; sc.Scan(); line++ {
		text := strings.TrimRight(sc.Text(), "\r")
		if len(text) > maxMapWidth || len(rows) >= maxMapHeight {
			return Arena{}, &MapError{Line: line, Msg: "map exceeds size limits"}
		}
		row := make([]CellKind, len(text))
		for x, ch := range text {
			switch ch {
			case '#':
				row[x] = CellWall
			case '+':
				row[x] = CellBlock
			case ' ':
				row[x] = CellEmpty
			case 'S':
				row[x] = CellEmpty
				spawns = append(spawns, Position{X: x, Y: len(rows)})
			default:
				return Arena{}, &MapError{Line: line, Msg: fmt.Sprintf("unknown cell %q", ch)}
			}
		}
		if len(row) > width {
			width = len(row)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return Arena{}, fmt.Errorf("read map: %w", err)
	}
	if len(rows) == 0 {
		return Arena{}, &MapError{Msg: "map has no rows"}
	}
	if len(spawns) == 0 {
		return Arena{}, &MapError{Msg: "map has no spawn points"}
	}

	// Pad short rows so the grid is rectangular.
	for y, row := range rows {
		if len(row) < width {
			padded := make([]CellKind, width)
			copy(padded, row)
			rows[y] = padded
		}
	}

	return Arena{
		Grid:   Grid{Cells: rows, Width: width, Height: len(rows)},
		Spawns: spawns,
	}, nil
}

// LoadArenaFile loads a map from a file path.
func LoadArenaFile(path string) (Arena, error) {
	f, err := os.Open(path)
	if err != nil {
		return Arena{}, fmt.Errorf("open map: %w", err)
	}
	defer f.Close()
	return LoadArena(f)
}
