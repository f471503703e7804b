package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// ErrMiss is returned by Get when the key does not exist or has expired.
var ErrMiss = errors.New("redisstore: key not found")

// Options configures the Redis connection.
type Options struct {
	Address  string
	Password string
	DB       int
}

// Store backs both the top-N snapshot cache and the idempotency records.
type Store struct {
	client rueidis.Client
}

// New dials Redis. Client-side caching is disabled; snapshots are replaced
// eagerly after writes and must not be served from a local copy.
func New(opts Options) (*Store, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{opts.Address},
		Password:     opts.Password,
		SelectDB:     opts.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("redisstore.New: %w", err)
	}
	return &Store{client: client}, nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client rueidis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("redisstore.Get: %w", err)
	}
	return b, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).ExSeconds(ttlSeconds(ttl)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("redisstore.Set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(key).Build()).Error(); err != nil {
		return fmt.Errorf("redisstore.Delete: %w", err)
	}
	return nil
}

// SetIfAbsent is a single SET NX EX. It reports false when the key already exists.
func (s *Store) SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	cmd := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).Nx().ExSeconds(ttlSeconds(ttl)).Build()
	err := s.client.Do(ctx, cmd).Error()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return false, nil
		}
		return false, fmt.Errorf("redisstore.SetIfAbsent: %w", err)
	}
	return true, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("redisstore.Ping: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.client.Close()
}

// ttlSeconds rounds up to whole seconds; Redis rejects an EX of zero.
func ttlSeconds(ttl time.Duration) int64 {
	secs := int64((ttl + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
