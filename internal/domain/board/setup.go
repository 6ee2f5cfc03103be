package board

import (
	"fmt"
	"strconv"
	"strings"

	errs "gobot/internal/errors"
)

const (
	markerFriend = 'w'
	markerEnemy  = 'b'
	markerDead   = 'X'
	rowSeparator = '/'
)

// Decode reads a run-length setup. Without inverse, 'w' stones are the side
// to move (friend) and 'b' stones the opponent; inverse swaps the framing.
// 'X' marks a removed point: it stays empty on the board but is reported as
// occupied. The returned set holds every point that can never be played.
func Decode(setup string, size int, inverse bool) (*Board, *PosSet, error) {
	b := New(size)
	occupied := NewPosSet(b.Len())

	err := scan(setup, size, func(pos int, marker byte) {
		switch marker {
		case markerFriend:
			if inverse {
				b.Place(pos, Enemy)
			} else {
				b.Place(pos, Friend)
			}
		case markerEnemy:
			if inverse {
				b.Place(pos, Friend)
			} else {
				b.Place(pos, Enemy)
			}
		}
		occupied.Add(pos)
	})
	if err != nil {
		return nil, nil, err
	}
	return b, occupied, nil
}

// scan walks the setup and calls put for every stone or dead marker.
func scan(setup string, size int, put func(pos int, marker byte)) error {
	row, col := 0, 0
	for i := 0; i < len(setup); i++ {
		c := setup[i]
		switch {
		case c == rowSeparator:
			row++
			col = 0
			if row >= size {
				return fmt.Errorf("row %d: %w", row, errs.ErrBoardOverflow)
			}
		case c >= '0' && c <= '9':
			j := i
			for j < len(setup) && setup[j] >= '0' && setup[j] <= '9' {
				j++
			}
			n, err := strconv.Atoi(setup[i:j])
			if err != nil {
				return fmt.Errorf("run %q: %w", setup[i:j], errs.ErrMalformedSetup)
			}
			col += n
			if col > size {
				return fmt.Errorf("row %d column %d: %w", row, col, errs.ErrBoardOverflow)
			}
			i = j - 1
		case c == markerFriend || c == markerEnemy || c == markerDead:
			if col >= size {
				return fmt.Errorf("row %d column %d: %w", row, col, errs.ErrBoardOverflow)
			}
			put(row*size+col, c)
			col++
		default:
			return fmt.Errorf("character %q at offset %d: %w", c, i, errs.ErrMalformedSetup)
		}
	}
	return nil
}

// ApplyMove returns the setup the opponent receives after the bot plays pos:
// the new stone is written as 'b', the colors of all other stones are
// swapped and removed points become empty. Stones and removed points
// themselves are not playable.
func ApplyMove(setup string, pos, size int) (string, error) {
	markers := make([]byte, size*size)
	err := scan(setup, size, func(p int, marker byte) {
		markers[p] = marker
	})
	if err != nil {
		return "", err
	}
	if pos < 0 || pos >= len(markers) || markers[pos] != 0 {
		return "", fmt.Errorf("move %d: %w", pos, errs.ErrIllegalMove)
	}

	for p, m := range markers {
		switch m {
		case markerFriend:
			markers[p] = markerEnemy
		case markerEnemy:
			markers[p] = markerFriend
		case markerDead:
			markers[p] = 0
		}
	}
	markers[pos] = markerEnemy
	return encode(markers, size), nil
}

// Encode writes a board back to setup notation from the bot's side.
func Encode(b *Board) string {
	markers := make([]byte, b.Len())
	for pos := range markers {
		switch b.At(pos) {
		case Friend:
			markers[pos] = markerFriend
		case Enemy:
			markers[pos] = markerEnemy
		}
	}
	return encode(markers, b.Size())
}

func encode(markers []byte, size int) string {
	var sb strings.Builder
	for row := 0; row < size; row++ {
		if row > 0 {
			sb.WriteByte(rowSeparator)
		}
		run := 0
		for col := 0; col < size; col++ {
			m := markers[row*size+col]
			if m == 0 {
				run++
				continue
			}
			if run > 0 {
				sb.WriteString(strconv.Itoa(run))
				run = 0
			}
			sb.WriteByte(m)
		}
		if run > 0 {
			sb.WriteString(strconv.Itoa(run))
		}
	}
	return sb.String()
}
