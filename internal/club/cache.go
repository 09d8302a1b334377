package club

import (
	"context"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// DefaultPlayerSetKey is the Redis set holding the ids of known players.
const DefaultPlayerSetKey = "racquet:players"

// RedisClient is the subset of the go-redis client used by the cache.
type RedisClient interface {
	SIsMember(ctx context.Context, key string, member interface{}) *redis.BoolCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
}

// cachedStore answers IsKnownPlayer from a Redis set and falls back to the
// wrapped store on a miss or a Redis failure.
type cachedStore struct {
	ClubStore
	rdb RedisClient
	key string
}

// NewCached wraps store with a Redis backed known-player cache.
func NewCached(store ClubStore, rdb RedisClient, key string) ClubStore {
	if key == "" {
		key = DefaultPlayerSetKey
	}
	return &cachedStore{ClubStore: store, rdb: rdb, key: key}
}

// NewRedisClient connects to the Redis server at addr.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	log.Info("Connected to Redis", "addr", addr)
	return client, nil
}

func member(playerID int64) string {
	return strconv.FormatInt(playerID, 10)
}

func (c *cachedStore) IsKnownPlayer(ctx context.Context, playerID int64) (bool, error) {
	hit, err := c.rdb.SIsMember(ctx, c.key, member(playerID)).Result()
	if err != nil {
		log.Warn("Player cache lookup failed, using store", "error", err, "playerID", playerID)
	} else if hit {
		return true, nil
	}

	known, err := c.ClubStore.IsKnownPlayer(ctx, playerID)
	if err != nil || !known {
		return known, err
	}
	if err := c.rdb.SAdd(ctx, c.key, member(playerID)).Err(); err != nil {
		log.Warn("Failed to cache player", "error", err, "playerID", playerID)
	}
	return true, nil
}

func (c *cachedStore) AddPlayer(ctx context.Context, playerID int64, name string) error {
	if err := c.ClubStore.AddPlayer(ctx, playerID, name); err != nil {
		return err
	}
	if err := c.rdb.SAdd(ctx, c.key, member(playerID)).Err(); err != nil {
		log.Warn("Failed to cache player", "error", err, "playerID", playerID)
	}
	return nil
}

func (c *cachedStore) RemovePlayer(ctx context.Context, playerID int64) error {
	if err := c.rdb.SRem(ctx, c.key, member(playerID)).Err(); err != nil {
		log.Warn("Failed to evict player from cache", "error", err, "playerID", playerID)
	}
	return c.ClubStore.RemovePlayer(ctx, playerID)
}
