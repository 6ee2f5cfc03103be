package selector

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"gobot/internal/domain/board"
	errs "gobot/internal/errors"
	"gobot/internal/usecase/policy"
)

// ConfidenceScale turns a raw score into the displayed confidence.
const ConfidenceScale = 1000

// Evaluator scores every cell of each view. It must return one tensor per
// input tensor, in the same order.
type Evaluator interface {
	Evaluate(ctx context.Context, views []board.Tensor) ([]board.Tensor, error)
}

type Config struct {
	Size             int
	OpeningThreshold int
	WindowSize       int
	WindowRatio      float64
	AdviceLimit      int
}

func DefaultConfig() Config {
	return Config{
		Size:             board.DefaultSize,
		OpeningThreshold: 10,
		WindowSize:       5,
		WindowRatio:      2,
		AdviceLimit:      11,
	}
}

// Candidate is one scored position, kept per view. The same position can
// appear once for every view that scored it.
type Candidate struct {
	Pos    int
	Move   string
	Weight float64
	View   int
}

type Decision struct {
	Pos        int
	Move       string
	Setup      string
	Confidence float64
	Forced     bool
	Window     []Candidate
	Elapsed    time.Duration
}

type Selector struct {
	cfg  Config
	eval Evaluator
	log  *zap.SugaredLogger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSelector(cfg Config, eval Evaluator, rng *rand.Rand, log *zap.SugaredLogger) (*Selector, error) {
	if cfg.Size == 0 {
		cfg.Size = board.DefaultSize
	}
	if err := board.CheckSize(cfg.Size); err != nil {
		return nil, err
	}
	if cfg.WindowSize < 1 {
		cfg.WindowSize = 1
	}
	if cfg.WindowRatio <= 0 {
		cfg.WindowRatio = 2
	}
	if cfg.AdviceLimit < 1 {
		cfg.AdviceLimit = 11
	}
	return &Selector{
		cfg:  cfg,
		eval: eval,
		rng:  rng,
		log:  log,
	}, nil
}

// FindMove picks the bot's answer to setup. Forced tactical moves bypass the
// evaluator; otherwise all sixteen views go out in a single batch.
func (s *Selector) FindMove(ctx context.Context, setup string) (*Decision, error) {
	start := time.Now()

	b, occupied, err := board.Decode(setup, s.cfg.Size, false)
	if err != nil {
		return nil, err
	}
	verdict := policy.Classify(b, occupied)

	var candidates []Candidate
	forced := len(verdict.Hints) > 0
	if forced {
		candidates = s.hinted(verdict.Hints)
	} else {
		views := s.views(b, occupied, verdict, AllViews)
		candidates, err = s.evaluate(ctx, views)
		if err != nil {
			return nil, err
		}
		sortByWeight(candidates)
	}
	if len(candidates) == 0 {
		return nil, errs.ErrNoCandidate
	}

	n := Window(candidates, s.cfg.WindowSize, s.cfg.WindowRatio)
	pick := s.pick(n)
	chosen := candidates[pick]

	next, err := board.ApplyMove(setup, chosen.Pos, s.cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", chosen.Move, err)
	}

	d := &Decision{
		Pos:        chosen.Pos,
		Move:       chosen.Move,
		Setup:      next,
		Confidence: math.Abs(chosen.Weight) * ConfidenceScale,
		Forced:     forced,
		Window:     append([]Candidate(nil), candidates[:n]...),
		Elapsed:    time.Since(start),
	}
	for _, c := range d.Window {
		s.log.Debugw("candidate", "move", c.Move, "weight", c.Weight, "view", c.View)
	}
	s.log.Infow("move selected",
		"move", d.Move,
		"confidence", d.Confidence,
		"forced", d.Forced,
		"window", n,
		"elapsed", d.Elapsed,
	)
	return d, nil
}

func (s *Selector) hinted(hints []int) []Candidate {
	r := make([]Candidate, 0, len(hints))
	for _, pos := range hints {
		r = append(r, Candidate{
			Pos:    pos,
			Move:   board.FormatMove(pos, s.cfg.Size),
			Weight: 1,
			View:   -1,
		})
	}
	return r
}

func (s *Selector) pick(n int) int {
	if n <= 1 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Window returns how many leading candidates stay in play: the first one
// always, then each next one while it keeps at least 1/ratio of the
// previous absolute weight, at most size.
func Window(c []Candidate, size int, ratio float64) int {
	if len(c) == 0 {
		return 0
	}
	limit := min(len(c), size)
	n := 1
	for n < limit && math.Abs(c[n].Weight)*ratio >= math.Abs(c[n-1].Weight) {
		n++
	}
	return n
}
