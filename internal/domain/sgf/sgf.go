package sgf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gobot/internal/domain/board"
)

// GameTree is one SGF tree: a main line of nodes plus variations.
type GameTree struct {
	Nodes    []Node
	Children []*GameTree
}

// Node holds SGF properties; a property may repeat, as in AB[aa][bb].
type Node struct {
	Properties map[string][]string
}

type SGF struct {
	Root *GameTree
}

// Point renders pos as SGF coordinates, column first, both counted from the top left.
func Point(pos, size int) string {
	row, col := board.Grid{Size: size}.RowCol(pos)
	return string(board.Letters[col]) + string(board.Letters[row])
}

// FromBoard records the position in setup properties and, when move is on
// the board, the bot's answer as the next node. friendBlack tells which
// color the friend stones are.
func FromBoard(b *board.Board, friendBlack bool, move int, comment string) *SGF {
	friend, enemy := "AW", "AB"
	play := "W"
	if friendBlack {
		friend, enemy = "AB", "AW"
		play = "B"
	}

	root := Node{Properties: map[string][]string{
		"FF": {"4"},
		"GM": {"1"},
		"SZ": {strconv.Itoa(b.Size())},
		"PL": {play},
	}}
	for pos := 0; pos < b.Len(); pos++ {
		switch b.At(pos) {
		case board.Friend:
			root.Properties[friend] = append(root.Properties[friend], Point(pos, b.Size()))
		case board.Enemy:
			root.Properties[enemy] = append(root.Properties[enemy], Point(pos, b.Size()))
		}
	}

	tree := &GameTree{Nodes: []Node{root}}
	if b.Size() > 0 && move >= 0 && move < b.Len() {
		answer := Node{Properties: map[string][]string{play: {Point(move, b.Size())}}}
		if comment != "" {
			answer.Properties["C"] = []string{comment}
		}
		tree.Nodes = append(tree.Nodes, answer)
	}
	return &SGF{Root: tree}
}

func (s *SGF) String() string {
	var builder strings.Builder
	builder.WriteString("(")
	serializeGameTree(&builder, s.Root)
	builder.WriteString(")")
	return builder.String()
}

// fixed property order, the rest sorted by name
var orderedKeys = []string{"FF", "GM", "SZ", "PB", "PW", "DT", "RE", "KM", "RU", "PL", "AB", "AW", "C", "B", "W"}

func serializeGameTree(builder *strings.Builder, tree *GameTree) {
	for _, node := range tree.Nodes {
		builder.WriteString(";")

		used := make(map[string]bool)
		for _, key := range orderedKeys {
			if values, ok := node.Properties[key]; ok {
				used[key] = true
				writeProperty(builder, key, values)
			}
		}

		rest := make([]string, 0, len(node.Properties))
		for key := range node.Properties {
			if !used[key] {
				rest = append(rest, key)
			}
		}
		sort.Strings(rest)
		for _, key := range rest {
			writeProperty(builder, key, node.Properties[key])
		}
	}

	for _, child := range tree.Children {
		builder.WriteString("(")
		serializeGameTree(builder, child)
		builder.WriteString(")")
	}
}

func writeProperty(builder *strings.Builder, key string, values []string) {
	if len(values) == 0 {
		return
	}
	builder.WriteString(key)
	for _, v := range values {
		builder.WriteString(fmt.Sprintf("[%s]", escape(v)))
	}
}

func escape(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, "]", `\]`)
}
