package board

import (
	"fmt"
	"strconv"
	"strings"

	errs "gobot/internal/errors"
)

// Letters names the columns; no letter is skipped.
const Letters = "abcdefghijklmnopqrs"

// CheckSize rejects sizes the move notation cannot name.
func CheckSize(size int) error {
	if size < 1 || size > MaxSize {
		return fmt.Errorf("size %d, want 1..%d: %w", size, MaxSize, errs.ErrBoardSize)
	}
	return nil
}

// FormatMove renders pos as column letter plus row number counted from the
// far edge, so row 0 is number size.
func FormatMove(pos, size int) string {
	g := Grid{Size: size}
	row, col := g.RowCol(pos)
	return string(Letters[col]) + strconv.Itoa(size-row)
}

func ParseMove(move string, size int) (int, error) {
	if len(move) < 2 {
		return Invalid, fmt.Errorf("move %q: %w", move, errs.ErrIllegalMove)
	}
	col := strings.IndexByte(Letters, move[0])
	n, err := strconv.Atoi(move[1:])
	if col < 0 || col >= size || err != nil || n < 1 || n > size {
		return Invalid, fmt.Errorf("move %q: %w", move, errs.ErrIllegalMove)
	}
	return (size-n)*size + col, nil
}
