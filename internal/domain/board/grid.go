package board

// Invalid is returned for a neighbor that falls off the board.
const Invalid = -1

type Direction int

const (
	East Direction = iota
	West
	South
	North
)

// Directions is the fixed scan order used by every flood fill.
var Directions = [...]Direction{East, West, South, North}

func (d Direction) String() string {
	switch d {
	case East:
		return "east"
	case West:
		return "west"
	case South:
		return "south"
	}
	return "north"
}

// Grid is the coordinate math of a square board with linear, row-major indices.
type Grid struct {
	Size int
}

func (g Grid) Cells() int {
	return g.Size * g.Size
}

func (g Grid) Valid(pos int) bool {
	return pos >= 0 && pos < g.Cells()
}

func (g Grid) RowCol(pos int) (row, col int) {
	return pos / g.Size, pos % g.Size
}

func (g Grid) Pos(row, col int) int {
	return row*g.Size + col
}

// Neighbor returns the adjacent cell in direction dir. Moves that would
// leave the board, on either side, return (Invalid, false).
func (g Grid) Neighbor(pos int, dir Direction) (int, bool) {
	if !g.Valid(pos) {
		return Invalid, false
	}
	row, col := g.RowCol(pos)
	switch dir {
	case East:
		col++
	case West:
		col--
	case South:
		row++
	case North:
		row--
	default:
		return Invalid, false
	}
	if row < 0 || row >= g.Size || col < 0 || col >= g.Size {
		return Invalid, false
	}
	return g.Pos(row, col), true
}

// EdgeDistance is 0 for points on the first line, 1 on the second line, etc.
func (g Grid) EdgeDistance(pos int) int {
	row, col := g.RowCol(pos)
	d := row
	for _, v := range [...]int{col, g.Size - 1 - row, g.Size - 1 - col} {
		if v < d {
			d = v
		}
	}
	return d
}

func (g Grid) Center() int {
	return g.Pos(g.Size/2, g.Size/2)
}
