package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gobot/internal/domain/board"
	"gobot/internal/domain/game"
	"gobot/internal/domain/sgf"
	errs "gobot/internal/errors"
	"gobot/internal/usecase/selector"
)

type State int

const (
	StateInit State = iota + 1
	StateTurn
	StateReco
	StateGetm
	StateMove
	StateStop
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateTurn:
		return "TURN"
	case StateReco:
		return "RECO"
	case StateGetm:
		return "GETM"
	case StateMove:
		return "MOVE"
	case StateStop:
		return "STOP"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type GameService interface {
	Login(ctx context.Context) (string, error)
	SetToken(token string)
	CurrentSessions(ctx context.Context) ([]game.Session, error)
	Recover(ctx context.Context, sessionID int64) (int64, error)
	Confirmed(ctx context.Context, uid int64) error
	SubmitMove(ctx context.Context, move game.MoveRequest) error
}

type MoveFinder interface {
	FindMove(ctx context.Context, setup string) (*selector.Decision, error)
}

// SessionStore caches the token and remembers answered positions per
// session. MarkHandled returns ErrAlreadyHandled for a repeated position.
type SessionStore interface {
	StoreToken(ctx context.Context, token string) error
	Token(ctx context.Context) (string, bool)
	DropToken(ctx context.Context) error
	IsHandled(ctx context.Context, sessionID int64, setup string) (bool, error)
	MarkHandled(ctx context.Context, sessionID int64, setup, move string) error
}

type Journal interface {
	Record(ctx context.Context, entry game.JournalEntry) error
}

// Bot plays on the remote service: it polls for a session waiting on the
// bot, recovers it, answers the position and goes back to polling. A
// position it has answered, or found no move for, is skipped until the
// session shows a new one.
type Bot struct {
	service  GameService
	finder   MoveFinder
	sessions SessionStore
	journal  Journal
	log      *zap.SugaredLogger
	interval time.Duration
	size     int

	state   State
	session game.Session
	uid     int64
}

func NewBot(service GameService, finder MoveFinder, sessions SessionStore, journal Journal, interval time.Duration, size int, log *zap.SugaredLogger) *Bot {
	if interval <= 0 {
		interval = time.Second
	}
	return &Bot{
		service:  service,
		finder:   finder,
		sessions: sessions,
		journal:  journal,
		log:      log,
		interval: interval,
		size:     size,
		state:    StateInit,
	}
}

func (b *Bot) State() State {
	return b.state
}

// Run steps the machine every interval until ctx ends or login fails.
func (b *Bot) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		if b.Step(ctx) == StateStop {
			return fmt.Errorf("bot stopped: %w", errs.ErrUnauthorized)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Step performs one transition. A failed login stops the bot; any other
// failure sends it back to INIT.
func (b *Bot) Step(ctx context.Context) State {
	prev := b.state
	var err error
	switch b.state {
	case StateInit:
		err = b.init(ctx)
	case StateTurn:
		err = b.checkTurn(ctx)
	case StateReco:
		err = b.recover(ctx)
	case StateGetm:
		err = b.confirmed(ctx)
	case StateMove:
		err = b.move(ctx)
	}

	if err != nil {
		if ctx.Err() != nil {
			return b.state
		}
		if prev == StateInit {
			b.log.Errorw("login failed", "error", err)
			b.state = StateStop
			return b.state
		}
		if errors.Is(err, errs.ErrNoSession) {
			b.log.Warnw("session is gone", "session", b.session.ID, "error", err)
			b.state = StateTurn
			return b.state
		}
		b.log.Errorw("step failed", "state", prev.String(), "error", err)
		if errors.Is(err, errs.ErrUnauthorized) {
			if dropErr := b.sessions.DropToken(ctx); dropErr != nil {
				b.log.Warnw("failed to drop token", "error", dropErr)
			}
		}
		b.state = StateInit
	}
	if b.state != prev {
		b.log.Debugf("%s -> %s", prev, b.state)
	}
	return b.state
}

func (b *Bot) init(ctx context.Context) error {
	if token, ok := b.sessions.Token(ctx); ok {
		b.service.SetToken(token)
		b.state = StateTurn
		return nil
	}
	token, err := b.service.Login(ctx)
	if err != nil {
		return err
	}
	if err := b.sessions.StoreToken(ctx, token); err != nil {
		b.log.Warnw("failed to cache token", "error", err)
	}
	b.log.Info("logged in")
	b.state = StateTurn
	return nil
}

func (b *Bot) checkTurn(ctx context.Context) error {
	sessions, err := b.service.CurrentSessions(ctx)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		if b.answered(ctx, s) {
			continue
		}
		b.session = s
		b.state = StateReco
		return nil
	}
	return nil
}

// answered reports whether the current position of s was handled already.
// An unreadable last_setup is not answered: the move step reports it.
func (b *Bot) answered(ctx context.Context, s game.Session) bool {
	_, setup, err := game.ParseLastSetup(s.LastSetup)
	if err != nil {
		return false
	}
	handled, err := b.sessions.IsHandled(ctx, s.ID, setup)
	if err != nil {
		b.log.Warnw("failed to check handled marker", "session", s.ID, "error", err)
		return false
	}
	return handled
}

func (b *Bot) recover(ctx context.Context) error {
	uid, err := b.service.Recover(ctx, b.session.ID)
	if err != nil {
		return err
	}
	b.uid = uid
	b.state = StateGetm
	return nil
}

func (b *Bot) confirmed(ctx context.Context) error {
	if err := b.service.Confirmed(ctx, b.uid); err != nil {
		return err
	}
	b.state = StateMove
	return nil
}

func (b *Bot) move(ctx context.Context) error {
	turn, setup, err := game.ParseLastSetup(b.session.LastSetup)
	if err != nil {
		return err
	}

	handled, err := b.sessions.IsHandled(ctx, b.session.ID, setup)
	if err != nil {
		b.log.Warnw("failed to check handled marker", "session", b.session.ID, "error", err)
	}
	if handled {
		b.log.Infow("position already answered", "uid", b.uid, "session", b.session.ID)
		b.state = StateTurn
		return nil
	}

	b.log.Infow("thinking", "session", b.session.ID, "uid", b.uid, "setup", setup)
	d, err := b.finder.FindMove(ctx, setup)
	if errors.Is(err, errs.ErrNoCandidate) {
		b.log.Warnw("no move to play, waiting for the position to change", "uid", b.uid, "setup", setup)
		b.markHandled(ctx, setup, "")
		b.state = StateTurn
		return nil
	}
	if err != nil {
		return err
	}

	move := game.MoveRequest{
		UID:        b.uid,
		NextPlayer: game.NextPlayer(turn),
		MoveStr:    d.Move,
		SetupStr:   game.FormatSetup(turn, d.Setup),
		Note:       game.FormatNote(d.Confidence),
	}
	if err := b.service.SubmitMove(ctx, move); err != nil {
		return err
	}
	b.log.Infow("move sent", "uid", b.uid, "move", d.Move, "confidence", d.Confidence, "forced", d.Forced)

	b.markHandled(ctx, setup, d.Move)
	b.record(ctx, turn, setup, d)
	b.state = StateTurn
	return nil
}

func (b *Bot) markHandled(ctx context.Context, setup, move string) {
	err := b.sessions.MarkHandled(ctx, b.session.ID, setup, move)
	switch {
	case errors.Is(err, errs.ErrAlreadyHandled):
		b.log.Infow("position was already marked", "session", b.session.ID, "move", move)
	case err != nil:
		b.log.Warnw("failed to mark position", "session", b.session.ID, "error", err)
	}
}

func (b *Bot) record(ctx context.Context, turn int, setup string, d *selector.Decision) {
	entry := game.JournalEntry{
		SessionID:  b.session.ID,
		UID:        b.uid,
		Turn:       turn,
		Setup:      setup,
		Move:       d.Move,
		NextSetup:  d.Setup,
		Confidence: d.Confidence,
		Forced:     d.Forced,
		ElapsedMs:  d.Elapsed.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if pos, _, err := board.Decode(setup, b.size, false); err == nil {
		entry.SGF = sgf.FromBoard(pos, turn == 0, d.Pos, game.FormatNote(d.Confidence)).String()
	}
	if err := b.journal.Record(ctx, entry); err != nil {
		b.log.Warnw("failed to journal decision", "uid", b.uid, "error", err)
	}
}
