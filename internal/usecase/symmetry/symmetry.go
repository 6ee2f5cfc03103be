package symmetry

import (
	"fmt"

	"gobot/internal/domain/board"
)

// Symmetry is one of the eight transforms of a square board.
type Symmetry int

const (
	Identity Symmetry = iota
	FlipX
	FlipY
	Rotate180
	RotateRight
	RotateLeft
	Transpose
	AntiTranspose
)

// All lists the transforms in the order views are built and merged.
var All = [...]Symmetry{Identity, FlipX, FlipY, Rotate180, RotateRight, RotateLeft, Transpose, AntiTranspose}

func (s Symmetry) String() string {
	switch s {
	case Identity:
		return "identity"
	case FlipX:
		return "flip-x"
	case FlipY:
		return "flip-y"
	case Rotate180:
		return "rotate-180"
	case RotateRight:
		return "rotate-right"
	case RotateLeft:
		return "rotate-left"
	case Transpose:
		return "transpose"
	case AntiTranspose:
		return "anti-transpose"
	}
	return fmt.Sprintf("symmetry(%d)", int(s))
}

// Inverse returns the transform undoing s. Only the quarter turns are not
// their own inverse.
func (s Symmetry) Inverse() Symmetry {
	switch s {
	case RotateRight:
		return RotateLeft
	case RotateLeft:
		return RotateRight
	}
	return s
}

// Apply maps a canonical position to its place in the transformed view.
func (s Symmetry) Apply(pos, size int) int {
	g := board.Grid{Size: size}
	row, col := g.RowCol(pos)
	last := size - 1
	switch s {
	case FlipX:
		col = last - col
	case FlipY:
		row = last - row
	case Rotate180:
		row, col = last-row, last-col
	case RotateRight:
		row, col = col, last-row
	case RotateLeft:
		row, col = last-col, row
	case Transpose:
		row, col = col, row
	case AntiTranspose:
		row, col = last-col, last-row
	}
	return g.Pos(row, col)
}

// Board returns the view of b under s.
func (s Symmetry) Board(b *board.Board) *board.Board {
	r := board.New(b.Size())
	for pos := 0; pos < b.Len(); pos++ {
		r.Place(s.Apply(pos, b.Size()), b.At(pos))
	}
	return r
}

// Canonical maps a position of the transformed view back.
func (s Symmetry) Canonical(pos, size int) int {
	return s.Inverse().Apply(pos, size)
}

// TransformBoard is s.Board(b).
func TransformBoard(b *board.Board, s Symmetry) *board.Board {
	return s.Board(b)
}
