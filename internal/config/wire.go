package config

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/peterkuimelis/interdict/internal/catalog"
	"github.com/peterkuimelis/interdict/internal/catalog/sqlite"
	"github.com/peterkuimelis/interdict/internal/game"
	"github.com/peterkuimelis/interdict/internal/storage/redisstate"
)

// OpenCatalog builds the configured name catalog. The returned close function
// is never nil.
func (c *Config) OpenCatalog(ctx context.Context) (catalog.Catalog, func() error, error) {
	noop := func() error { return nil }
	kind, path, err := c.CatalogSource()
	if err != nil {
		return nil, noop, err
	}
	switch kind {
	case CatalogYAML:
		mem, err := catalog.LoadYAMLFile(path)
		if err != nil {
			return nil, noop, err
		}
		return mem, noop, nil
	case CatalogSQLite:
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, noop, err
		}
		cards, err := store.Cards(ctx)
		if err != nil {
			store.Close()
			return nil, noop, err
		}
		if len(cards) == 0 {
			// Seed an empty database with the built-in cards.
			if err := store.Import(ctx, game.RegistryInfos()); err != nil {
				store.Close()
				return nil, noop, fmt.Errorf("seed catalog: %w", err)
			}
		}
		return store, store.Close, nil
	}
	return game.DefaultCatalog(), noop, nil
}

// StateStores returns a factory for per-match state stores: Redis-backed
// when INTERDICT_REDIS_URL is set, in-memory otherwise.
func (c *Config) StateStores() (func(matchID string) game.StateStore, error) {
	if c.RedisURL == "" {
		return func(string) game.StateStore { return game.NewMemoryStore() }, nil
	}
	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	return func(matchID string) game.StateStore {
		store, err := redisstate.New(&redisstate.Config{
			Client:  client,
			MatchID: matchID,
			TTL:     c.StateTTL,
			OnError: func(err error) { log.Printf("state store: %v", err) },
		})
		if err != nil {
			log.Printf("state store: %v; using memory", err)
			return game.NewMemoryStore()
		}
		return store
	}, nil
}
