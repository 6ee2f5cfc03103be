package board

import (
	"errors"
	"testing"

	errs "gobot/internal/errors"
)

func TestNeighborBounds(t *testing.T) {
	g := Grid{Size: DefaultSize}
	last := g.Cells() - 1

	tests := []struct {
		name  string
		pos   int
		dir   Direction
		want  int
		valid bool
	}{
		{"east inside row", 0, East, 1, true},
		{"east wraps row", 18, East, Invalid, false},
		{"west wraps row", 19, West, Invalid, false},
		{"west inside row", 20, West, 19, true},
		{"north off top edge", 5, North, Invalid, false},
		{"north inside", 24, North, 5, true},
		{"south off bottom edge", last, South, Invalid, false},
		{"south inside", 5, South, 24, true},
		{"east off last cell", last, East, Invalid, false},
		{"out of range source", g.Cells(), West, Invalid, false},
		{"negative source", -1, East, Invalid, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.Neighbor(tt.pos, tt.dir)
			if got != tt.want || ok != tt.valid {
				t.Errorf("Neighbor(%d, %s) = (%d, %v), want (%d, %v)", tt.pos, tt.dir, got, ok, tt.want, tt.valid)
			}
		})
	}
}

func TestNeighborTopRowNeverNegative(t *testing.T) {
	g := Grid{Size: DefaultSize}
	for col := 0; col < g.Size; col++ {
		if p, ok := g.Neighbor(col, North); ok || p != Invalid {
			t.Fatalf("top row cell %d has a northern neighbor %d", col, p)
		}
	}
}

func TestEdgeDistance(t *testing.T) {
	g := Grid{Size: DefaultSize}
	if d := g.EdgeDistance(0); d != 0 {
		t.Errorf("corner distance = %d, want 0", d)
	}
	if d := g.EdgeDistance(g.Pos(1, 5)); d != 1 {
		t.Errorf("second line distance = %d, want 1", d)
	}
	if d := g.EdgeDistance(g.Center()); d != 9 {
		t.Errorf("center distance = %d, want 9", d)
	}
}

func TestDecode(t *testing.T) {
	b, occupied, err := Decode("w2b/3X/19", DefaultSize, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b.At(0) != Friend {
		t.Errorf("cell 0 = %s, want friend", b.At(0))
	}
	if b.At(3) != Enemy {
		t.Errorf("cell 3 = %s, want enemy", b.At(3))
	}
	if b.At(22) != Empty {
		t.Errorf("dead marker cell = %s, want empty", b.At(22))
	}
	want := []int{0, 3, 22}
	got := occupied.Positions()
	if len(got) != len(want) {
		t.Fatalf("occupied = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("occupied = %v, want %v", got, want)
		}
	}

	inv, _, err := Decode("w2b", DefaultSize, true)
	if err != nil {
		t.Fatalf("Decode inverse: %v", err)
	}
	if inv.At(0) != Enemy || inv.At(3) != Friend {
		t.Errorf("inverse framing not applied: %s %s", inv.At(0), inv.At(3))
	}
}

func TestDecodeMultiDigitRun(t *testing.T) {
	b, _, err := Decode("12w", DefaultSize, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b.At(12) != Friend {
		t.Errorf("stone after a two digit run landed elsewhere")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		setup string
		want  error
	}{
		{"w2q", errs.ErrMalformedSetup},
		{"20", errs.ErrBoardOverflow},
		{"19w", errs.ErrBoardOverflow},
		{"/////////////////////", errs.ErrBoardOverflow},
	}
	for _, tt := range tests {
		_, _, err := Decode(tt.setup, DefaultSize, false)
		if !errors.Is(err, tt.want) {
			t.Errorf("Decode(%q) error = %v, want %v", tt.setup, err, tt.want)
		}
	}
}

func TestApplyMove(t *testing.T) {
	got, err := ApplyMove("w2b/X18", 1, DefaultSize)
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	want := "bb1w15/19/19/19/19/19/19/19/19/19/19/19/19/19/19/19/19/19/19"
	if got != want {
		t.Errorf("ApplyMove = %q, want %q", got, want)
	}

	if _, err := ApplyMove("w", 0, DefaultSize); !errors.Is(err, errs.ErrIllegalMove) {
		t.Errorf("ApplyMove on a stone: err = %v", err)
	}
	// a removed point is the ko point of this turn
	if _, err := ApplyMove("w2b/X18", DefaultSize, DefaultSize); !errors.Is(err, errs.ErrIllegalMove) {
		t.Errorf("ApplyMove on a removed point: err = %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	setup := "3w15/19/2b16/19/19/19/19/19/19/19/19/19/19/19/19/19/19/19/18w"
	b, _, err := Decode(setup, DefaultSize, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := Encode(b); got != setup {
		t.Errorf("Encode = %q, want %q", got, setup)
	}
}

func TestFormatMove(t *testing.T) {
	tests := []struct {
		pos  int
		want string
	}{
		{0, "a19"},
		{18, "s19"},
		{342, "a1"},
		{180, "j10"},
	}
	for _, tt := range tests {
		if got := FormatMove(tt.pos, DefaultSize); got != tt.want {
			t.Errorf("FormatMove(%d) = %s, want %s", tt.pos, got, tt.want)
		}
		pos, err := ParseMove(tt.want, DefaultSize)
		if err != nil || pos != tt.pos {
			t.Errorf("ParseMove(%s) = %d, %v", tt.want, pos, err)
		}
	}
	if _, err := ParseMove("t5", DefaultSize); !errors.Is(err, errs.ErrIllegalMove) {
		t.Errorf("ParseMove accepted an unknown column")
	}
}

func TestSwapped(t *testing.T) {
	b := New(DefaultSize)
	b.Place(4, Friend)
	b.Place(5, Enemy)
	s := b.Swapped()
	if s.At(4) != Enemy || s.At(5) != Friend {
		t.Errorf("Swapped did not exchange colors")
	}
	if b.At(4) != Friend {
		t.Errorf("Swapped mutated the source board")
	}
}
