package game

import (
	"fmt"
	"regexp"
	"strconv"

	errs "gobot/internal/errors"
)

type MoveRequest struct {
	UID        int64  `json:"uid"`
	NextPlayer int    `json:"next_player"`
	MoveStr    string `json:"move_str"`
	SetupStr   string `json:"setup_str"`
	Note       string `json:"note"`
}

var (
	turnParam  = regexp.MustCompile(`[?&]turn=(\d+)`)
	setupParam = regexp.MustCompile(`[?&]setup=(.*)`)
)

// ParseLastSetup splits the service's "?turn=N;&setup=..." string. A missing
// turn reads as 0.
func ParseLastSetup(s string) (turn int, setup string, err error) {
	m := setupParam.FindStringSubmatch(s)
	if m == nil {
		return 0, "", fmt.Errorf("last setup %q: %w", s, errs.ErrMalformedSetup)
	}
	setup = m[1]
	if t := turnParam.FindStringSubmatch(s); t != nil {
		turn, err = strconv.Atoi(t[1])
		if err != nil {
			return 0, "", fmt.Errorf("turn %q: %w", t[1], errs.ErrMalformedSetup)
		}
	}
	return turn, setup, nil
}

// FormatSetup builds the setup string handed to the opponent.
func FormatSetup(turn int, setup string) string {
	next := 0
	if turn == 0 {
		next = 1
	}
	return fmt.Sprintf("?turn=%d;&setup=%s", next, setup)
}

// NextPlayer numbers players from 1.
func NextPlayer(turn int) int {
	if turn == 0 {
		return 2
	}
	return 1
}

func FormatNote(confidence float64) string {
	return "value=" + strconv.FormatFloat(confidence, 'f', -1, 64)
}
