package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	errs "gobot/internal/errors"
)

const (
	tokenKey      = "gobot:token"
	handledPrefix = "gobot:handled:"
	tokenTTL      = time.Hour * 11
)

// SessionRedisStorage keeps the bot's access token and remembers which
// positions were already answered, so a restarted bot never moves twice.
type SessionRedisStorage struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewSessionRedisStorage(client *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *SessionRedisStorage {
	return &SessionRedisStorage{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func handledKey(sessionID int64, setup string) string {
	return handledPrefix + strconv.FormatInt(sessionID, 10) + ":" + strconv.FormatUint(xxhash.ChecksumString64(setup), 16)
}

func (r *SessionRedisStorage) StoreToken(ctx context.Context, token string) error {
	return r.client.Set(ctx, tokenKey, token, tokenTTL).Err()
}

func (r *SessionRedisStorage) Token(ctx context.Context) (string, bool) {
	v, err := r.client.Get(ctx, tokenKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Errorw("failed to read token", "error", err)
		}
		return "", false
	}
	return v, true
}

func (r *SessionRedisStorage) DropToken(ctx context.Context) error {
	return r.client.Del(ctx, tokenKey).Err()
}

func (r *SessionRedisStorage) IsHandled(ctx context.Context, sessionID int64, setup string) (bool, error) {
	n, err := r.client.Exists(ctx, handledKey(sessionID, setup)).Result()
	if err != nil {
		return false, fmt.Errorf("check handled: %w", err)
	}
	return n > 0, nil
}

// MarkHandled records the answer to setup, or returns ErrAlreadyHandled
// when the position was marked before.
func (r *SessionRedisStorage) MarkHandled(ctx context.Context, sessionID int64, setup, move string) error {
	ok, err := r.client.SetNX(ctx, handledKey(sessionID, setup), move, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("mark handled: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %d: %w", sessionID, errs.ErrAlreadyHandled)
	}
	return nil
}
