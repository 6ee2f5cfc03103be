package errors

import "errors"

var (
	ErrMalformedSetup = errors.New("malformed board setup")
	ErrBoardOverflow  = errors.New("board setup overflows the board")
	ErrIllegalMove    = errors.New("move is off the board or on an occupied point")
	ErrBoardSize      = errors.New("unsupported board size")
	ErrEvaluator      = errors.New("evaluator call failed")
	ErrBadTensor      = errors.New("evaluator returned a tensor of unexpected shape")
	ErrNoCandidate    = errors.New("no legal candidate move")
	ErrUnauthorized   = errors.New("game service rejected credentials")
	ErrNoSession      = errors.New("no active session")
	ErrAlreadyHandled = errors.New("position was already answered")
	ErrInternal       = errors.New("internal error")
)
