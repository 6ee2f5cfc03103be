package analysis

import "gobot/internal/domain/board"

type Kind int

const (
	EmptyRegion Kind = iota
	FriendStones
	EnemyStones
)

func kindOf(c board.Cell) Kind {
	switch c {
	case board.Friend:
		return FriendStones
	case board.Enemy:
		return EnemyStones
	}
	return EmptyRegion
}

// Border is the color of the stones around an empty region.
type Border int

const (
	BorderNone Border = iota
	BorderFriend
	BorderEnemy
	BorderMixed
)

func (b Border) merge(o Border) Border {
	switch {
	case b == BorderNone:
		return o
	case b == o:
		return b
	}
	return BorderMixed
}

func borderOf(k Kind) Border {
	switch k {
	case FriendStones:
		return BorderFriend
	case EnemyStones:
		return BorderEnemy
	}
	return BorderNone
}

// MaxEyeSize bounds the regions counted as eyes; larger enclosures are
// territory rather than eyes.
const MaxEyeSize = 5

const unassigned = -1

type Group struct {
	Kind  Kind
	Cells []int

	// Liberties holds the adjacent empty cells of a stone group.
	Liberties []int
	// Border is set for empty regions only.
	Border Border
	// Edge holds the adjacent stones of a region, or the adjacent opposing
	// stones of a stone group.
	Edge []int
	// Bordering lists the indices of adjacent groups of another kind.
	Bordering []int
	// Eyes holds the liberties of a stone group that lie in one of its eyes.
	Eyes []int

	IsEye bool
}

func (g *Group) Size() int {
	return len(g.Cells)
}

func (g *Group) IsStones() bool {
	return g.Kind != EmptyRegion
}

// Result partitions a board into groups. It is never updated: a changed
// board needs a new Analyze call.
type Result struct {
	board *board.Board
	grid  board.Grid

	CellGroup []int
	Groups    []Group
}

// Analyze flood-fills the board in two passes, empty regions first and
// stone groups second, both scanning cells in row-major order.
func Analyze(b *board.Board) *Result {
	r := &Result{
		board:     b,
		grid:      b.Grid(),
		CellGroup: make([]int, b.Len()),
	}
	for i := range r.CellGroup {
		r.CellGroup[i] = unassigned
	}

	stamp := make([]int, b.Len())
	queue := make([]int, 0, b.Len())

	for pos := 0; pos < b.Len(); pos++ {
		if r.CellGroup[pos] == unassigned && b.IsEmpty(pos) {
			queue = r.fillRegion(pos, queue[:0], stamp)
		}
	}
	for pos := 0; pos < b.Len(); pos++ {
		if r.CellGroup[pos] == unassigned {
			queue = r.fillStones(pos, queue[:0], stamp)
		}
	}
	r.link()
	return r
}

func (r *Result) fillRegion(seed int, queue, stamp []int) []int {
	idx := len(r.Groups)
	g := Group{Kind: EmptyRegion}

	r.CellGroup[seed] = idx
	queue = append(queue, seed)
	for i := 0; i < len(queue); i++ {
		p := queue[i]
		g.Cells = append(g.Cells, p)
		for _, dir := range board.Directions {
			q, ok := r.grid.Neighbor(p, dir)
			if !ok {
				continue
			}
			c := r.board.At(q)
			if c == board.Empty {
				if r.CellGroup[q] == unassigned {
					r.CellGroup[q] = idx
					queue = append(queue, q)
				}
				continue
			}
			g.Border = g.Border.merge(borderOf(kindOf(c)))
			if stamp[q] != idx+1 {
				stamp[q] = idx + 1
				g.Edge = append(g.Edge, q)
			}
		}
	}
	r.Groups = append(r.Groups, g)
	return queue
}

func (r *Result) fillStones(seed int, queue, stamp []int) []int {
	idx := len(r.Groups)
	color := r.board.At(seed)
	g := Group{Kind: kindOf(color)}
	own := borderOf(g.Kind)

	r.CellGroup[seed] = idx
	queue = append(queue, seed)
	for i := 0; i < len(queue); i++ {
		p := queue[i]
		g.Cells = append(g.Cells, p)
		for _, dir := range board.Directions {
			q, ok := r.grid.Neighbor(p, dir)
			if !ok {
				continue
			}
			switch c := r.board.At(q); {
			case c == color:
				if r.CellGroup[q] == unassigned {
					r.CellGroup[q] = idx
					queue = append(queue, q)
				}
			case c == board.Empty:
				if stamp[q] == idx+1 {
					continue
				}
				stamp[q] = idx + 1
				g.Liberties = append(g.Liberties, q)
				region := &r.Groups[r.CellGroup[q]]
				if region.Border == own && region.Size() < MaxEyeSize {
					region.IsEye = true
					g.Eyes = append(g.Eyes, q)
				}
			default:
				if stamp[q] != idx+1 {
					stamp[q] = idx + 1
					g.Edge = append(g.Edge, q)
				}
			}
		}
	}
	r.Groups = append(r.Groups, g)
	return queue
}

// link fills Bordering once every cell has its group.
func (r *Result) link() {
	for i := range r.Groups {
		g := &r.Groups[i]
		for _, cells := range [][]int{g.Liberties, g.Edge} {
			for _, q := range cells {
				g.Bordering = appendUnique(g.Bordering, r.CellGroup[q])
			}
		}
	}
}

func appendUnique(list []int, v int) []int {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func (r *Result) Board() *board.Board {
	return r.board
}

func (r *Result) Grid() board.Grid {
	return r.grid
}

func (r *Result) GroupIndex(pos int) int {
	return r.CellGroup[pos]
}

func (r *Result) GroupAt(pos int) *Group {
	return &r.Groups[r.CellGroup[pos]]
}
