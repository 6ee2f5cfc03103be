package analysis

import "gobot/internal/domain/board"

// IsDead reports whether a friend stone at pos has, or would have after
// being placed, fewer than two distinct liberties. Liberties of adjacent
// friend groups count, pos itself does not. Placing a stone that captures
// an adjacent enemy group is never dead.
func (r *Result) IsDead(pos int) bool {
	if !r.board.IsEmpty(pos) {
		return len(r.GroupAt(pos).Liberties) < 2
	}

	first, distinct := board.Invalid, 0
	add := func(l int) bool {
		if l == pos {
			return false
		}
		if distinct == 0 {
			first, distinct = l, 1
			return false
		}
		return l != first
	}

	for _, dir := range board.Directions {
		q, ok := r.grid.Neighbor(pos, dir)
		if !ok {
			continue
		}
		switch r.board.At(q) {
		case board.Empty:
			if add(q) {
				return false
			}
		case board.Friend:
			for _, l := range r.GroupAt(q).Liberties {
				if add(l) {
					return false
				}
			}
		case board.Enemy:
			if len(r.GroupAt(q).Liberties) == 1 {
				return false
			}
		}
	}
	return true
}

// IsDoubleAtari reports whether a friend stone at pos would put two or more
// distinct enemy groups, each now at two liberties, into atari.
func (r *Result) IsDoubleAtari(pos int) bool {
	if !r.board.IsEmpty(pos) {
		return false
	}
	var hit []int
	for _, dir := range board.Directions {
		q, ok := r.grid.Neighbor(pos, dir)
		if !ok || r.board.At(q) != board.Enemy {
			continue
		}
		if len(r.GroupAt(q).Liberties) == 2 {
			hit = appendUnique(hit, r.GroupIndex(q))
		}
	}
	return len(hit) >= 2
}

// IsSecondLine reports whether some neighbor of pos is a friend stone with
// the board edge right behind it.
func (r *Result) IsSecondLine(pos int) bool {
	for _, dir := range board.Directions {
		q, ok := r.grid.Neighbor(pos, dir)
		if !ok || r.board.At(q) != board.Friend {
			continue
		}
		if _, ok := r.grid.Neighbor(q, dir); !ok {
			return true
		}
	}
	return false
}

// IsSecondLineAtariThreat matches the creeping edge shape: two neighbors are
// enemy stones or friend stones already in atari, one neighbor is an empty
// second-line point and one is an empty first-line point.
func (r *Result) IsSecondLineAtariThreat(pos int) bool {
	var stones, second, first int
	for _, dir := range board.Directions {
		q, ok := r.grid.Neighbor(pos, dir)
		if !ok {
			continue
		}
		switch r.board.At(q) {
		case board.Enemy:
			stones++
		case board.Friend:
			if len(r.GroupAt(q).Liberties) <= 1 {
				stones++
			}
		case board.Empty:
			switch r.grid.EdgeDistance(q) {
			case 0:
				first++
			case 1:
				second++
			}
		}
	}
	return stones == 2 && second == 1 && first == 1
}

func (r *Result) IsFirstLine(pos int) bool {
	for _, dir := range board.Directions {
		if _, ok := r.grid.Neighbor(pos, dir); !ok {
			return true
		}
	}
	return false
}
