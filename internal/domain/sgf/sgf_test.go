package sgf

import (
	"testing"

	"gobot/internal/domain/board"
)

func TestFromBoard(t *testing.T) {
	b := board.New(9)
	b.Place(0, board.Friend)
	b.Place(10, board.Enemy)

	got := FromBoard(b, true, 80, "value=12").String()
	want := "(;FF[4]GM[1]SZ[9]PL[B]AB[aa]AW[bb];C[value=12]B[ii])"
	if got != want {
		t.Errorf("sgf = %s, want %s", got, want)
	}
}

func TestFromBoardWhiteWithoutMove(t *testing.T) {
	b := board.New(9)
	b.Place(1, board.Friend)

	got := FromBoard(b, false, -1, "").String()
	want := "(;FF[4]GM[1]SZ[9]PL[W]AW[ba])"
	if got != want {
		t.Errorf("sgf = %s, want %s", got, want)
	}
}

func TestSerializeVariationsAndEscapes(t *testing.T) {
	s := &SGF{Root: &GameTree{
		Nodes: []Node{{Properties: map[string][]string{"SZ": {"19"}, "ZZ": {"x"}, "GN": {"a]b"}}}},
		Children: []*GameTree{
			{Nodes: []Node{{Properties: map[string][]string{"B": {"dd"}}}}},
			{Nodes: []Node{{Properties: map[string][]string{"B": {"pp"}}}}},
		},
	}}
	want := `(;SZ[19]GN[a\]b]ZZ[x](;B[dd])(;B[pp]))`
	if got := s.String(); got != want {
		t.Errorf("sgf = %s, want %s", got, want)
	}
}
