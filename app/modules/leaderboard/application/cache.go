package leaderboardservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	leaderboardmetrics "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/metrics"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/observability"
)

// snapshot is the cached value for one (mode, n).
type snapshot struct {
	GameMode    leaderboarddomain.GameMode      `json:"gameMode"`
	N           int                             `json:"n"`
	Entries     []leaderboarddomain.RankedEntry `json:"entries"`
	GeneratedAt time.Time                       `json:"generatedAt"`
}

// SnapshotCache is the read-through top-N cache. Cache faults never surface:
// reads degrade to misses and writes are logged.
type SnapshotCache struct {
	store   CacheStore
	ttl     time.Duration
	logger  *slog.Logger
	metrics leaderboardmetrics.LeaderboardMetrics
}

func NewSnapshotCache(store CacheStore, ttl time.Duration, logger *slog.Logger, metrics leaderboardmetrics.LeaderboardMetrics) *SnapshotCache {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = leaderboardmetrics.NewNoop()
	}
	return &SnapshotCache{store: store, ttl: ttl, logger: logger, metrics: metrics}
}

// Get returns the cached board for (mode, n) or false on a miss.
func (c *SnapshotCache) Get(ctx context.Context, mode leaderboarddomain.GameMode, n int) ([]leaderboarddomain.RankedEntry, bool) {
	key := leaderboarddomain.SnapshotKey(mode, n)
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		c.metrics.RecordCacheMiss(ctx, mode.String())
		return nil, false
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.logger.WarnContext(ctx, "Discarding unreadable top-N snapshot",
			observability.CorrelationID(ctx),
			slog.String("key", key),
			observability.ErrorAttr(err),
		)
		c.metrics.RecordCacheMiss(ctx, mode.String())
		return nil, false
	}

	c.metrics.RecordCacheHit(ctx, mode.String())
	return snap.Entries, true
}

// Fill stores a read-path snapshot only if none exists, so a board computed
// before a concurrent write can never replace the rewarmed one.
func (c *SnapshotCache) Fill(ctx context.Context, mode leaderboarddomain.GameMode, n int, entries []leaderboarddomain.RankedEntry) {
	key := leaderboarddomain.SnapshotKey(mode, n)
	raw, err := encodeSnapshot(mode, n, entries)
	if err != nil {
		c.logWriteFailure(ctx, mode, n, err)
		return
	}
	if _, err := c.store.SetIfAbsent(ctx, key, raw, c.ttl); err != nil {
		c.logWriteFailure(ctx, mode, n, fmt.Errorf("%w: set-if-absent %s: %w", ErrCacheUnavailable, key, err))
	}
}

func (c *SnapshotCache) logWriteFailure(ctx context.Context, mode leaderboarddomain.GameMode, n int, err error) {
	c.logger.WarnContext(ctx, "Failed to store top-N snapshot",
		observability.CorrelationID(ctx),
		slog.String("game_mode", mode.String()),
		slog.Int("n", n),
		observability.ErrorAttr(err),
	)
}

// Rewarm deletes the snapshot, recomputes it and stores the fresh copy. A
// failed delete is logged and the rewarm carries on. If compute fails the
// snapshot stays deleted so the next read goes live.
func (c *SnapshotCache) Rewarm(
	ctx context.Context,
	mode leaderboarddomain.GameMode,
	n int,
	compute func(ctx context.Context) ([]leaderboarddomain.RankedEntry, error),
) error {
	key := leaderboarddomain.SnapshotKey(mode, n)
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.WarnContext(ctx, "Failed to delete top-N snapshot before rewarm",
			observability.CorrelationID(ctx),
			slog.String("key", key),
			observability.ErrorAttr(err),
		)
	}

	entries, err := compute(ctx)
	if err != nil {
		return fmt.Errorf("rewarm %s: %w", key, err)
	}

	return c.set(ctx, mode, n, entries)
}

func (c *SnapshotCache) set(ctx context.Context, mode leaderboarddomain.GameMode, n int, entries []leaderboarddomain.RankedEntry) error {
	key := leaderboarddomain.SnapshotKey(mode, n)
	raw, err := encodeSnapshot(mode, n, entries)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrCacheUnavailable, key, err)
	}
	return nil
}

func encodeSnapshot(mode leaderboarddomain.GameMode, n int, entries []leaderboarddomain.RankedEntry) ([]byte, error) {
	raw, err := json.Marshal(snapshot{
		GameMode:    mode,
		N:           n,
		Entries:     entries,
		GeneratedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot %s: %w", leaderboarddomain.SnapshotKey(mode, n), err)
	}
	return raw, nil
}
