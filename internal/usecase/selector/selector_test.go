package selector

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"go.uber.org/zap"

	"gobot/internal/domain/board"
	errs "gobot/internal/errors"
	"gobot/internal/usecase/symmetry"
)

const size = board.DefaultSize

type fakeEvaluator struct {
	syms  []symmetry.Symmetry
	score func(view, pos int) float32
	err   error
	short bool

	calls int
	batch []board.Tensor
}

func (f *fakeEvaluator) Evaluate(_ context.Context, views []board.Tensor) ([]board.Tensor, error) {
	f.calls++
	f.batch = views
	if f.err != nil {
		return nil, f.err
	}
	out := make([]board.Tensor, len(views))
	for i, v := range views {
		n := len(v)
		if f.short {
			n--
		}
		t := make(board.Tensor, n)
		if f.score != nil {
			sym := f.syms[i%len(f.syms)]
			for j := range t {
				t[j] = f.score(i, sym.Canonical(j, size))
			}
		}
		out[i] = t
	}
	return out, nil
}

func allViews(score func(view, pos int) float32) *fakeEvaluator {
	return &fakeEvaluator{syms: symmetry.All[:], score: score}
}

func newSelector(eval Evaluator, seed int64) *Selector {
	s, err := NewSelector(DefaultConfig(), eval, rand.New(rand.NewSource(seed)), zap.NewNop().Sugar())
	if err != nil {
		panic(err)
	}
	return s
}

func at(row, col int) int {
	return row*size + col
}

// lone friend stone at (3,3)
func loneStone() string {
	b := board.New(size)
	b.Place(at(3, 3), board.Friend)
	return board.Encode(b)
}

func TestForcedHintsIgnoreEvaluator(t *testing.T) {
	b := board.New(size)
	b.Place(at(0, 0), board.Enemy)
	b.Place(at(0, 1), board.Friend)
	setup := board.Encode(b)

	eval := allViews(func(_, _ int) float32 { return 1 })
	d, err := newSelector(eval, 1).FindMove(context.Background(), setup)
	if err != nil {
		t.Fatalf("FindMove: %v", err)
	}
	if eval.calls != 0 {
		t.Errorf("evaluator called %d times with a forced move", eval.calls)
	}
	if !d.Forced || d.Pos != at(1, 0) || d.Move != "a18" {
		t.Fatalf("decision = %+v, want forced a18", d)
	}
	if len(d.Window) != 1 || d.Window[0].Weight != 1 {
		t.Errorf("window = %+v, want the single hint with weight 1", d.Window)
	}
	if d.Confidence != ConfidenceScale {
		t.Errorf("confidence = %v, want %d", d.Confidence, ConfidenceScale)
	}
	want, _ := board.ApplyMove(setup, at(1, 0), size)
	if d.Setup != want {
		t.Errorf("next setup = %q, want %q", d.Setup, want)
	}
}

func TestKoPointIsNeverPlayed(t *testing.T) {
	setup := "1ww16/wbXw15/1ww16" + "/19/19/19/19/19/19/19/19/19/19/19/19/19/19/19/19"
	ko := at(1, 2)
	eval := allViews(func(view, pos int) float32 {
		if view != 0 {
			return 0
		}
		switch pos {
		case ko:
			return 1
		case at(10, 4):
			return 0.8
		}
		return 0
	})
	d, err := newSelector(eval, 1).FindMove(context.Background(), setup)
	if err != nil {
		t.Fatalf("FindMove: %v", err)
	}
	if d.Forced {
		t.Errorf("ko recapture was forced")
	}
	if d.Pos == ko || d.Pos != at(10, 4) {
		t.Fatalf("decision = %s, want %s", d.Move, board.FormatMove(at(10, 4), size))
	}
	for _, c := range d.Window {
		if c.Pos == ko {
			t.Errorf("ko point in the window")
		}
	}
}

func TestEvaluatorGetsSixteenViewsInOneBatch(t *testing.T) {
	eval := allViews(func(view, pos int) float32 {
		if view == 0 && pos == at(5, 5) {
			return 0.9
		}
		return 0
	})
	d, err := newSelector(eval, 1).FindMove(context.Background(), loneStone())
	if err != nil {
		t.Fatalf("FindMove: %v", err)
	}
	if eval.calls != 1 || len(eval.batch) != 16 {
		t.Fatalf("calls = %d, batch = %d, want 1 call of 16 views", eval.calls, len(eval.batch))
	}
	stone := at(3, 3)
	if eval.batch[0][stone] != 1 {
		t.Errorf("identity view lost the friend stone")
	}
	if eval.batch[8][stone] != -1 {
		t.Errorf("swapped identity view does not flip the stone")
	}
	if eval.batch[4][symmetry.RotateRight.Apply(stone, size)] != 1 {
		t.Errorf("rotated view does not move the stone")
	}
	if d.Pos != at(5, 5) || d.Forced {
		t.Fatalf("decision = %+v, want %s", d, board.FormatMove(at(5, 5), size))
	}
	if len(d.Window) != 1 {
		t.Errorf("window = %d, want 1", len(d.Window))
	}
	if math.Abs(d.Confidence-729) > 0.01 {
		t.Errorf("confidence = %v, want 729", d.Confidence)
	}
}

func TestForbiddenPointsAreNeverSelected(t *testing.T) {
	center := board.Grid{Size: size}.Center()
	eval := allViews(func(view, pos int) float32 {
		switch {
		case pos == at(3, 3) || pos == center:
			return 1
		case view == 0 && pos == at(10, 4):
			return 0.5
		}
		return 0
	})
	d, err := newSelector(eval, 1).FindMove(context.Background(), loneStone())
	if err != nil {
		t.Fatalf("FindMove: %v", err)
	}
	if d.Pos != at(10, 4) {
		t.Fatalf("selected %s, want %s", d.Move, board.FormatMove(at(10, 4), size))
	}
}

func TestSwappedViewNegatesWeight(t *testing.T) {
	eval := allViews(func(view, pos int) float32 {
		if view == 8 && pos == at(5, 5) {
			return 0.5
		}
		return 0
	})
	d, err := newSelector(eval, 1).FindMove(context.Background(), loneStone())
	if err != nil {
		t.Fatalf("FindMove: %v", err)
	}
	if d.Pos != at(5, 5) {
		t.Fatalf("selected %s", d.Move)
	}
	if w := d.Window[0].Weight; w != -0.125 {
		t.Errorf("weight = %v, want -0.125", w)
	}
	if d.Confidence != 125 {
		t.Errorf("confidence = %v, want 125", d.Confidence)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		want    int
	}{
		{"empty", nil, 0},
		{"single", []float64{0.3}, 1},
		{"sharp drop", []float64{1, 0.4}, 1},
		{"halving chain", []float64{8, 4, 2, 1.9, 0.5}, 4},
		{"capped", []float64{1, 1, 1, 1, 1, 1, 1}, 5},
		{"exactly five", []float64{1, 1, 1, 1, 1}, 5},
		{"signs ignored", []float64{-8, 4, -3}, 3},
	}
	for _, tt := range tests {
		c := make([]Candidate, len(tt.weights))
		for i, w := range tt.weights {
			c[i].Weight = w
		}
		if got := Window(c, 5, 2); got != tt.want {
			t.Errorf("%s: Window = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestSeededSelectionIsDeterministic(t *testing.T) {
	tied := map[int]bool{}
	for col := 0; col < 5; col++ {
		tied[at(10, col)] = true
	}
	score := func(view, pos int) float32 {
		if view == 0 && tied[pos] {
			return 0.5
		}
		return 0
	}

	first, err := newSelector(allViews(score), 7).FindMove(context.Background(), loneStone())
	if err != nil {
		t.Fatalf("FindMove: %v", err)
	}
	again, _ := newSelector(allViews(score), 7).FindMove(context.Background(), loneStone())
	if first.Pos != again.Pos {
		t.Fatalf("same seed picked %s and %s", first.Move, again.Move)
	}
	if len(first.Window) != 5 {
		t.Errorf("window = %d, want 5", len(first.Window))
	}

	picked := map[int]bool{}
	for seed := int64(1); seed <= 50; seed++ {
		d, err := newSelector(allViews(score), seed).FindMove(context.Background(), loneStone())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if !tied[d.Pos] {
			t.Fatalf("seed %d picked %s outside the window", seed, d.Move)
		}
		picked[d.Pos] = true
	}
	if len(picked) < 2 {
		t.Errorf("50 seeds always picked the same move")
	}
}

func TestNoCandidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 3
	eval := &fakeEvaluator{syms: symmetry.All[:]}
	s, err := NewSelector(cfg, eval, rand.New(rand.NewSource(1)), zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}

	// the only empty point is an own eye
	_, err = s.FindMove(context.Background(), "ww1/www/www")
	if !errors.Is(err, errs.ErrNoCandidate) {
		t.Fatalf("err = %v, want ErrNoCandidate", err)
	}
}

func TestSelectorRejectsBoardSize(t *testing.T) {
	for _, n := range []int{-1, board.MaxSize + 1, 21} {
		cfg := DefaultConfig()
		cfg.Size = n
		if _, err := NewSelector(cfg, allViews(nil), rand.New(rand.NewSource(1)), zap.NewNop().Sugar()); !errors.Is(err, errs.ErrBoardSize) {
			t.Errorf("size %d: err = %v, want ErrBoardSize", n, err)
		}
	}
	cfg := DefaultConfig()
	cfg.Size = board.MaxSize
	if _, err := NewSelector(cfg, allViews(nil), rand.New(rand.NewSource(1)), zap.NewNop().Sugar()); err != nil {
		t.Errorf("size %d: %v", board.MaxSize, err)
	}
}

func TestEvaluatorFailure(t *testing.T) {
	eval := allViews(nil)
	eval.err = errors.New("connection refused")
	_, err := newSelector(eval, 1).FindMove(context.Background(), loneStone())
	if !errors.Is(err, errs.ErrEvaluator) {
		t.Fatalf("err = %v, want ErrEvaluator", err)
	}
}

func TestBadTensorShape(t *testing.T) {
	eval := allViews(nil)
	eval.short = true
	_, err := newSelector(eval, 1).FindMove(context.Background(), loneStone())
	if !errors.Is(err, errs.ErrBadTensor) {
		t.Fatalf("err = %v, want ErrBadTensor", err)
	}
}

func TestMalformedSetup(t *testing.T) {
	_, err := newSelector(allViews(nil), 1).FindMove(context.Background(), "19/1q18")
	if !errors.Is(err, errs.ErrMalformedSetup) {
		t.Fatalf("err = %v, want ErrMalformedSetup", err)
	}
}

func TestAdviseUsesMaskAndRatio(t *testing.T) {
	eval := &fakeEvaluator{
		syms: []symmetry.Symmetry{symmetry.Identity},
		score: func(view, pos int) float32 {
			if view != 0 {
				return 0
			}
			switch pos {
			case at(5, 5):
				return 1
			case at(5, 6):
				return 0.9
			case at(5, 7):
				return 0.5
			}
			return 0
		},
	}
	a, err := newSelector(eval, 1).Advise(context.Background(), loneStone(), 2, 0x01)
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if len(eval.batch) != 2 {
		t.Fatalf("batch = %d views, want 2", len(eval.batch))
	}
	if len(a.Suggestions) != 2 {
		t.Fatalf("suggestions = %+v, want 2", a.Suggestions)
	}
	if a.Suggestions[0].Pos != at(5, 5) || a.Suggestions[0].Weight != 1000 {
		t.Errorf("first suggestion = %+v", a.Suggestions[0])
	}
	if a.Suggestions[1].Pos != at(5, 6) || math.Abs(a.Suggestions[1].Weight-729) > 0.01 {
		t.Errorf("second suggestion = %+v", a.Suggestions[1])
	}
	if len(a.Hints) != 0 {
		t.Errorf("hints = %v, want none", a.Hints)
	}
}

func TestAdviseLimit(t *testing.T) {
	eval := allViews(func(_, _ int) float32 { return 0.5 })
	a, err := newSelector(eval, 1).Advise(context.Background(), loneStone(), 2, AllViews)
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if len(a.Suggestions) != DefaultConfig().AdviceLimit {
		t.Errorf("suggestions = %d, want %d", len(a.Suggestions), DefaultConfig().AdviceLimit)
	}
}

func TestAdviseReportsHints(t *testing.T) {
	b := board.New(size)
	b.Place(at(0, 0), board.Enemy)
	b.Place(at(0, 1), board.Friend)

	a, err := newSelector(allViews(nil), 1).Advise(context.Background(), board.Encode(b), 2, 0)
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if len(a.Hints) != 1 || a.Hints[0] != "a18" {
		t.Errorf("hints = %v, want [a18]", a.Hints)
	}
}
