package game

// Grid is the static/dynamic map layer: walls, blocks and free cells.
// Dimensions are fixed for the lifetime of a match; the only mutation after
// load is CellBlock -> CellEmpty when a blast clears a block.
type Grid struct {
	Cells  [][]CellKind `json:"cells"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
}

// InBounds reports whether pos lies inside the grid.
func (g *Grid) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < g.Width && pos.Y >= 0 && pos.Y < g.Height
}

// CellAt returns the kind of the cell at pos, or ErrOutOfBounds.
func (g *Grid) CellAt(pos Position) (CellKind, error) {
	if !g.InBounds(pos) {
		return CellEmpty, ErrOutOfBounds
	}
	return g.Cells[pos.Y][pos.X], nil
}

// ClearBlockAt converts a block to an empty cell. It is a no-op on any other
// cell kind and on out-of-bounds coordinates.
func (g *Grid) ClearBlockAt(pos Position) {
	if !g.InBounds(pos) {
		return
	}
	if g.Cells[pos.Y][pos.X] == CellBlock {
		g.Cells[pos.Y][pos.X] = CellEmpty
	}
}

// Walkable reports whether the cell at pos is an in-bounds empty cell.
// Bomb and player occupancy are layered on top by the engine, which owns
// the entities.
func (g *Grid) Walkable(pos Position) bool {
	return g.InBounds(pos) && g.Cells[pos.Y][pos.X] == CellEmpty
}

// clone returns a deep copy of the grid.
func (g *Grid) clone() Grid {
	cells := make([][]CellKind, g.Height)
	for y := range cells {
		cells[y] = make([]CellKind, g.Width)
		copy(cells[y], g.Cells[y])
	}
	return Grid{Cells: cells, Width: g.Width, Height: g.Height}
}
