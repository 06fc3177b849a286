// Package redisstate keeps a match's effect state in a Redis hash so that a
// match can be inspected, or outlive the process that hosts it.
package redisstate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/peterkuimelis/interdict/internal/game"
)

const defaultTimeout = 2 * time.Second

// Config configures a Store.
type Config struct {
	Client  redis.Cmdable
	MatchID string
	// TTL is refreshed on every write; zero keeps the hash forever.
	TTL time.Duration
	// Timeout bounds each Redis round trip. Defaults to two seconds.
	Timeout time.Duration
	// OnError receives failures the StateStore interface can't return.
	OnError func(error)
}

// Store implements game.StateStore on one Redis hash per match, with one
// field per (source incarnation, tag).
type Store struct {
	client  redis.Cmdable
	key     string
	ttl     time.Duration
	timeout time.Duration
	onError func(error)
}

var _ game.StateStore = (*Store)(nil)

// New validates cfg and returns a Store.
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("redisstate: config is required")
	}
	if cfg.Client == nil {
		return nil, errors.New("redisstate: client is required")
	}
	if cfg.MatchID == "" {
		return nil, errors.New("redisstate: match id is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	onError := cfg.OnError
	if onError == nil {
		onError = func(error) {}
	}
	return &Store{
		client:  cfg.Client,
		key:     Key(cfg.MatchID),
		ttl:     cfg.TTL,
		timeout: timeout,
		onError: onError,
	}, nil
}

// Key returns the hash key holding a match's state.
func Key(matchID string) string {
	return fmt.Sprintf("match:%s:state", matchID)
}

func sourcePrefix(src game.ObjectRef) string {
	return fmt.Sprintf("%d:%d:", src.ID, src.ZCC)
}

// Field returns the hash field for a state key.
func Field(k game.StateKey) string {
	return sourcePrefix(k.Source) + k.Tag
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Store) fail(op string, err error) {
	s.onError(fmt.Errorf("redisstate %s %s: %w", op, s.key, err))
}

func (s *Store) Set(key game.StateKey, value string) {
	ctx, cancel := s.ctx()
	defer cancel()

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, s.key, Field(key), value)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.fail("set", err)
	}
}

// Get reports absent on any failure, so restrictions fail open when Redis is down.
func (s *Store) Get(key game.StateKey) (string, bool) {
	ctx, cancel := s.ctx()
	defer cancel()

	v, err := s.client.HGet(ctx, s.key, Field(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		s.fail("get", err)
		return "", false
	}
	return v, true
}

func (s *Store) Delete(key game.StateKey) {
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.client.HDel(ctx, s.key, Field(key)).Err(); err != nil {
		s.fail("delete", err)
	}
}

func (s *Store) DropSource(src game.ObjectRef) {
	ctx, cancel := s.ctx()
	defer cancel()

	fields, err := s.client.HKeys(ctx, s.key).Result()
	if err != nil {
		s.fail("drop source", err)
		return
	}
	prefix := sourcePrefix(src)
	var drop []string
	for _, f := range fields {
		if strings.HasPrefix(f, prefix) {
			drop = append(drop, f)
		}
	}
	if len(drop) == 0 {
		return
	}
	if err := s.client.HDel(ctx, s.key, drop...).Err(); err != nil {
		s.fail("drop source", err)
	}
}

// Clear deletes the whole hash, e.g. once the match is over.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redisstate clear %s: %w", s.key, err)
	}
	return nil
}
