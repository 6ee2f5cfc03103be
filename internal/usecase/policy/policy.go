package policy

import (
	"gobot/internal/domain/board"
	"gobot/internal/usecase/analysis"
)

// Verdict is what the tactical rules decide before the evaluator is asked.
// A non-empty Hints list replaces evaluator-driven selection.
type Verdict struct {
	Forbidden *board.PosSet
	Hints     []int
}

// Classify analyzes b and runs the rules. Points in blocked (stones and
// removed points of the decoded setup) are never hinted; nil blocks nothing.
func Classify(b *board.Board, blocked *board.PosSet) Verdict {
	return ClassifyResult(analysis.Analyze(b), blocked)
}

// ClassifyResult runs the rules in priority order: captures, then defence of
// friend groups in atari, then edge atari relief. The first category that
// finds something wins. The empty-point scan for eyes, dead points and edge
// threats runs regardless.
func ClassifyResult(r *analysis.Result, blocked *board.PosSet) Verdict {
	b := r.Board()
	if blocked == nil {
		blocked = board.NewPosSet(b.Len())
	}
	v := Verdict{Forbidden: board.NewPosSet(b.Len())}

	v.Hints = captures(r, blocked)
	captured := len(v.Hints) > 0
	if !captured {
		v.Hints = defend(r, blocked, v.Forbidden)
		if len(v.Hints) == 0 {
			v.Hints = relieve(r, blocked)
		}
	}

	for pos := 0; pos < b.Len(); pos++ {
		if !b.IsEmpty(pos) || blocked.Has(pos) {
			continue
		}
		if r.GroupAt(pos).IsEye || r.IsDead(pos) || r.IsSecondLineAtariThreat(pos) {
			v.Forbidden.Add(pos)
			continue
		}
		if !captured && r.IsDoubleAtari(pos) {
			v.Hints = appendUnique(v.Hints, pos)
		}
	}
	return v
}

// captures hints the last liberty of the largest enemy groups in atari.
// A liberty on a blocked point (a ko recapture) does not count.
func captures(r *analysis.Result, blocked *board.PosSet) []int {
	var hints []int
	best := 0
	for i := range r.Groups {
		g := &r.Groups[i]
		if g.Kind != analysis.EnemyStones || len(g.Liberties) != 1 || blocked.Has(g.Liberties[0]) {
			continue
		}
		switch {
		case g.Size() > best:
			best = g.Size()
			hints = append(hints[:0], g.Liberties[0])
		case g.Size() == best:
			hints = appendUnique(hints, g.Liberties[0])
		}
	}
	return hints
}

// defend hints the escape point of the largest friend groups in atari.
// Escapes on the second line are forbidden instead, and escapes that
// still leave fewer than two liberties are dropped.
func defend(r *analysis.Result, blocked, forbidden *board.PosSet) []int {
	var hints []int
	best := 0
	for i := range r.Groups {
		g := &r.Groups[i]
		if g.Kind != analysis.FriendStones || len(g.Liberties) != 1 || blocked.Has(g.Liberties[0]) {
			continue
		}
		l := g.Liberties[0]
		if r.IsSecondLine(l) {
			forbidden.Add(l)
			continue
		}
		if r.IsDead(l) {
			continue
		}
		switch {
		case g.Size() > best:
			best = g.Size()
			hints = append(hints[:0], l)
		case g.Size() == best:
			hints = appendUnique(hints, l)
		}
	}
	return hints
}

// relieve answers an enemy group with two liberties, one of them on the
// first line, by hinting the other liberty.
func relieve(r *analysis.Result, blocked *board.PosSet) []int {
	var hints []int
	for i := range r.Groups {
		g := &r.Groups[i]
		if g.Kind != analysis.EnemyStones || len(g.Liberties) != 2 {
			continue
		}
		a, b := g.Liberties[0], g.Liberties[1]
		switch {
		case r.IsFirstLine(a) && !r.IsFirstLine(b):
			a, b = b, a
		case r.IsFirstLine(b) && !r.IsFirstLine(a):
		default:
			continue
		}
		if !blocked.Has(a) && !r.IsDead(a) {
			hints = appendUnique(hints, a)
		}
	}
	return hints
}

func appendUnique(list []int, v int) []int {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
