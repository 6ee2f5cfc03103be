package board

const (
	DefaultSize = 19
	MaxSize     = len(Letters)

	// Tolerance is the band around zero read as an empty point.
	Tolerance = 0.1
)

type Cell int8

const (
	Empty Cell = iota
	Friend
	Enemy
)

func (c Cell) String() string {
	switch c {
	case Friend:
		return "friend"
	case Enemy:
		return "enemy"
	}
	return "empty"
}

func (c Cell) Opponent() Cell {
	switch c {
	case Friend:
		return Enemy
	case Enemy:
		return Friend
	}
	return Empty
}

// Value is the scalar stored for the cell: +1 friend, -1 enemy.
func (c Cell) Value() float32 {
	switch c {
	case Friend:
		return 1
	case Enemy:
		return -1
	}
	return 0
}

// Tensor is a flat size*size plane as exchanged with the evaluator.
type Tensor []float32

// Board is a square position seen from the bot's side: positive values are
// friend stones, negative values enemy stones.
type Board struct {
	size  int
	cells []float32
}

func New(size int) *Board {
	return &Board{
		size:  size,
		cells: make([]float32, size*size),
	}
}

// FromTensor copies t into a new board.
func FromTensor(size int, t Tensor) *Board {
	b := New(size)
	copy(b.cells, t)
	return b
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) Len() int {
	return len(b.cells)
}

func (b *Board) Grid() Grid {
	return Grid{Size: b.size}
}

func (b *Board) Value(pos int) float32 {
	return b.cells[pos]
}

func (b *Board) At(pos int) Cell {
	v := b.cells[pos]
	switch {
	case v > Tolerance:
		return Friend
	case v < -Tolerance:
		return Enemy
	}
	return Empty
}

func (b *Board) IsEmpty(pos int) bool {
	return b.At(pos) == Empty
}

func (b *Board) Place(pos int, c Cell) {
	b.cells[pos] = c.Value()
}

// Stones counts occupied points.
func (b *Board) Stones() int {
	n := 0
	for pos := range b.cells {
		if b.At(pos) != Empty {
			n++
		}
	}
	return n
}

// Swapped returns a copy with friend and enemy exchanged.
func (b *Board) Swapped() *Board {
	r := New(b.size)
	for i, v := range b.cells {
		r.cells[i] = -v
	}
	return r
}

func (b *Board) Clone() *Board {
	r := New(b.size)
	copy(r.cells, b.cells)
	return r
}

func (b *Board) Tensor() Tensor {
	t := make(Tensor, len(b.cells))
	copy(t, b.cells)
	return t
}
