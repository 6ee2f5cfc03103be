package selector

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gobot/internal/domain/board"
	errs "gobot/internal/errors"
	"gobot/internal/usecase/policy"
	"gobot/internal/usecase/symmetry"
)

// ViewMask enables orientations: bit k stands for symmetry.All[k].
type ViewMask uint8

const AllViews ViewMask = 0xff

func (m ViewMask) Has(s symmetry.Symmetry) bool {
	return m&(1<<uint(s)) != 0
}

type view struct {
	sym       symmetry.Symmetry
	swapped   bool
	board     *board.Board
	forbidden *board.PosSet
}

// views builds the enabled orientations in the bot's framing followed by the
// same orientations with colors swapped.
func (s *Selector) views(b *board.Board, occupied *board.PosSet, verdict policy.Verdict, mask ViewMask) []view {
	forbidden := occupied.Clone()
	forbidden.Union(verdict.Forbidden)
	if forbidden.Len() < s.cfg.OpeningThreshold {
		forbidden.Add(b.Grid().Center())
	}

	swapped := b.Swapped()
	swappedForbidden := forbidden.Clone()
	swappedForbidden.Union(policy.Classify(swapped, occupied).Forbidden)

	var r []view
	for _, framing := range []bool{false, true} {
		src, fb := b, forbidden
		if framing {
			src, fb = swapped, swappedForbidden
		}
		for _, sym := range symmetry.All {
			if !mask.Has(sym) {
				continue
			}
			r = append(r, view{
				sym:       sym,
				swapped:   framing,
				board:     sym.Board(src),
				forbidden: fb,
			})
		}
	}
	return r
}

// evaluate sends every view in one call and maps the scores back to
// canonical positions. Scores are cubed; swapped views flip the sign.
func (s *Selector) evaluate(ctx context.Context, views []view) ([]Candidate, error) {
	if len(views) == 0 {
		return nil, nil
	}
	batch := make([]board.Tensor, len(views))
	for i, v := range views {
		batch[i] = v.board.Tensor()
	}

	out, err := s.eval.Evaluate(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrEvaluator, err)
	}
	if len(out) != len(views) {
		return nil, fmt.Errorf("%d outputs for %d views: %w", len(out), len(views), errs.ErrBadTensor)
	}

	cells := s.cfg.Size * s.cfg.Size
	var r []Candidate
	for i, v := range views {
		if len(out[i]) != cells {
			return nil, fmt.Errorf("view %d has %d cells, want %d: %w", i, len(out[i]), cells, errs.ErrBadTensor)
		}
		for j, raw := range out[i] {
			pos := v.sym.Canonical(j, s.cfg.Size)
			if v.forbidden.Has(pos) {
				continue
			}
			f := float64(raw)
			w := f * f * f
			if v.swapped {
				w = -w
			}
			r = append(r, Candidate{
				Pos:    pos,
				Move:   board.FormatMove(pos, s.cfg.Size),
				Weight: w,
				View:   i,
			})
		}
	}
	return r, nil
}

// sortByWeight orders by absolute weight, highest first. Equal weights keep
// view order, then cell order within a view.
func sortByWeight(c []Candidate) {
	sort.SliceStable(c, func(i, j int) bool {
		return math.Abs(c[i].Weight) > math.Abs(c[j].Weight)
	})
}
