package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/juju/errors"
	"github.com/redis/go-redis/v9"

	"github.com/meinhoongagan/senior-care-app/config"
	"github.com/meinhoongagan/senior-care-app/logging"
)

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, errors.Annotate(err, "failed to connect to Redis")
	}
	logging.Info().Str("addr", cfg.Addr).Msg("Connected to Redis")
	return client, nil
}

const statePrefix = "oauth:state:"

// StateStore keeps OAuth state nonces in Redis so any instance can finish a consent flow.
type StateStore struct {
	client *redis.Client
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

func (s *StateStore) Save(ctx context.Context, state string, userID uint, ttl time.Duration) error {
	return errors.Trace(s.client.Set(ctx, statePrefix+state, strconv.FormatUint(uint64(userID), 10), ttl).Err())
}

// Consume returns the user id bound to state and deletes it, so a state is usable once.
func (s *StateStore) Consume(ctx context.Context, state string) (uint, error) {
	val, err := s.client.GetDel(ctx, statePrefix+state).Result()
	if err == redis.Nil {
		return 0, errors.NotFoundf("oauth state")
	}
	if err != nil {
		return 0, errors.Trace(err)
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, errors.NotValidf("oauth state value %q", val)
	}
	return uint(id), nil
}

// Ping is used by the readiness check.
func (s *StateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
