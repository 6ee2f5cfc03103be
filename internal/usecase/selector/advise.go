package selector

import (
	"context"
	"math"
	"time"

	"gobot/internal/domain/board"
	"gobot/internal/usecase/policy"
)

type Suggestion struct {
	Move   string  `json:"move"`
	Pos    int     `json:"pos"`
	Weight float64 `json:"weight"`
}

type Advice struct {
	Suggestions []Suggestion  `json:"suggestions"`
	Hints       []string      `json:"hints"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Advise ranks moves for a human viewer. Only the orientations in mask are
// evaluated, each in both framings. A suggestion is listed while its weight
// times ratio still reaches the previous one. Weights are scaled for
// display and keep their sign.
func (s *Selector) Advise(ctx context.Context, setup string, ratio float64, mask ViewMask) (*Advice, error) {
	start := time.Now()
	if mask == 0 {
		mask = AllViews
	}
	if ratio <= 0 {
		ratio = s.cfg.WindowRatio
	}

	b, occupied, err := board.Decode(setup, s.cfg.Size, false)
	if err != nil {
		return nil, err
	}
	verdict := policy.Classify(b, occupied)

	candidates, err := s.evaluate(ctx, s.views(b, occupied, verdict, mask))
	if err != nil {
		return nil, err
	}
	sortByWeight(candidates)

	a := &Advice{
		Suggestions: []Suggestion{},
		Hints:       make([]string, 0, len(verdict.Hints)),
	}
	for _, pos := range verdict.Hints {
		a.Hints = append(a.Hints, board.FormatMove(pos, s.cfg.Size))
	}
	for i, c := range candidates {
		if i >= s.cfg.AdviceLimit {
			break
		}
		if i > 0 && math.Abs(c.Weight)*ratio < math.Abs(candidates[i-1].Weight) {
			break
		}
		a.Suggestions = append(a.Suggestions, Suggestion{
			Move:   c.Move,
			Pos:    c.Pos,
			Weight: c.Weight * ConfidenceScale,
		})
	}
	a.Elapsed = time.Since(start)

	s.log.Infow("advice ready", "suggestions", len(a.Suggestions), "hints", len(a.Hints), "elapsed", a.Elapsed)
	return a, nil
}
