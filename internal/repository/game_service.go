package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"gobot/internal/bootstrap"
	"gobot/internal/domain/game"
	errs "gobot/internal/errors"
)

// GameServiceRepository is the JSON client of the remote game service.
type GameServiceRepository struct {
	cfg     *bootstrap.Config
	log     *zap.SugaredLogger
	baseURL string
	client  *http.Client

	mu    sync.RWMutex
	token string
}

func NewGameServiceRepository(cfg *bootstrap.Config, log *zap.SugaredLogger, client *http.Client) *GameServiceRepository {
	if client == nil {
		client = &http.Client{}
	}
	return &GameServiceRepository{
		cfg:     cfg,
		log:     log,
		baseURL: strings.TrimRight(cfg.ServiceUrl, "/"),
		client:  client,
	}
}

func (g *GameServiceRepository) SetToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = token
}

func (g *GameServiceRepository) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

func (g *GameServiceRepository) Login(ctx context.Context) (string, error) {
	var token game.Token
	err := g.do(ctx, http.MethodPost, "/api/auth/login", game.Credentials{
		Username: g.cfg.BotUsername,
		Password: g.cfg.BotPassword,
	}, &token)
	if err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("login returned no token: %w", errs.ErrUnauthorized)
	}
	g.SetToken(token.AccessToken)
	return token.AccessToken, nil
}

func (g *GameServiceRepository) CurrentSessions(ctx context.Context) ([]game.Session, error) {
	var sessions []game.Session
	if err := g.do(ctx, http.MethodGet, "/api/session/current", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (g *GameServiceRepository) Recover(ctx context.Context, sessionID int64) (int64, error) {
	var r game.Recovery
	err := g.do(ctx, http.MethodPost, "/api/session/recovery", game.RecoveryRequest{
		ID:            sessionID,
		SetupRequired: true,
	}, &r)
	if err != nil {
		return 0, err
	}
	if r.UID == 0 {
		return 0, fmt.Errorf("session %d recovered without a game: %w", sessionID, errs.ErrNoSession)
	}
	return r.UID, nil
}

func (g *GameServiceRepository) Confirmed(ctx context.Context, uid int64) error {
	return g.do(ctx, http.MethodGet, "/api/move/confirmed/"+strconv.FormatInt(uid, 10), nil, nil)
}

func (g *GameServiceRepository) SubmitMove(ctx context.Context, move game.MoveRequest) error {
	return g.do(ctx, http.MethodPost, "/api/move", move, nil)
}

func (g *GameServiceRepository) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		reqBody, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := g.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, errs.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, errs.ErrNoSession)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%s %s: unexpected status code: %d", method, path, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}
