package leaderboardservice

import (
	"context"
	"errors"
	"sync"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/events"
	leaderboardmetrics "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/metrics"
	leaderboarddb "github.com/Black-And-White-Club/leaderboard-api/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Leaderboard Repo
// ------------------------

// FakeLeaderboardRepo keeps entries in memory and orders them with
// leaderboarddomain.Compare. Any XxxFunc overrides the default behaviour.
type FakeLeaderboardRepo struct {
	mu      sync.Mutex
	trace   []string
	entries map[string]leaderboarddomain.Entry

	UpsertEntryFunc  func(ctx context.Context, db bun.IDB, in leaderboarddb.ScoreUpsert) (leaderboarddomain.Entry, error)
	GetEntryFunc     func(ctx context.Context, db bun.IDB, playerID string, mode leaderboarddomain.GameMode) (leaderboarddomain.Entry, error)
	QueryOrderedFunc func(ctx context.Context, db bun.IDB, mode leaderboarddomain.GameMode, offset, limit int) ([]leaderboarddomain.Entry, error)
	CountBeforeFunc  func(ctx context.Context, db bun.IDB, playerID string, mode leaderboarddomain.GameMode) (int, error)
}

func NewFakeLeaderboardRepo() *FakeLeaderboardRepo {
	return &FakeLeaderboardRepo{
		trace:   []string{},
		entries: map[string]leaderboarddomain.Entry{},
	}
}

func (f *FakeLeaderboardRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func entryKey(playerID string, mode leaderboarddomain.GameMode) string {
	return mode.String() + "/" + playerID
}

// Seed stores entries as-is.
func (f *FakeLeaderboardRepo) Seed(entries ...leaderboarddomain.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range entries {
		f.entries[entryKey(e.PlayerID, e.GameMode)] = e
	}
}

// --- Repository Interface Implementation ---

func (f *FakeLeaderboardRepo) UpsertEntry(ctx context.Context, db bun.IDB, in leaderboarddb.ScoreUpsert) (leaderboarddomain.Entry, error) {
	f.record("UpsertEntry")
	if f.UpsertEntryFunc != nil {
		return f.UpsertEntryFunc(ctx, db, in)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	k := entryKey(in.PlayerID, in.GameMode)
	e, ok := f.entries[k]
	if !ok {
		e = leaderboarddomain.Entry{
			PlayerID:            in.PlayerID,
			GameMode:            in.GameMode,
			RegistrationDateUTC: in.At,
		}
	}
	e.Score = in.Score
	if in.PlayerLevel != nil {
		e.PlayerLevel = in.PlayerLevel
	}
	if in.TrophyCount != nil {
		e.TrophyCount = in.TrophyCount
	}
	e.UpdateDateUTC = in.At
	f.entries[k] = e
	return e, nil
}

func (f *FakeLeaderboardRepo) GetEntry(ctx context.Context, db bun.IDB, playerID string, mode leaderboarddomain.GameMode) (leaderboarddomain.Entry, error) {
	f.record("GetEntry")
	if f.GetEntryFunc != nil {
		return f.GetEntryFunc(ctx, db, playerID, mode)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryKey(playerID, mode)]
	if !ok {
		return leaderboarddomain.Entry{}, leaderboarddb.ErrNotFound
	}
	return e, nil
}

func (f *FakeLeaderboardRepo) QueryOrdered(ctx context.Context, db bun.IDB, mode leaderboarddomain.GameMode, offset, limit int) ([]leaderboarddomain.Entry, error) {
	f.record("QueryOrdered")
	if f.QueryOrderedFunc != nil {
		return f.QueryOrderedFunc(ctx, db, mode, offset, limit)
	}

	ordered := f.ordered(mode)
	if offset >= len(ordered) {
		return []leaderboarddomain.Entry{}, nil
	}
	end := min(offset+limit, len(ordered))
	return ordered[offset:end], nil
}

func (f *FakeLeaderboardRepo) CountBefore(ctx context.Context, db bun.IDB, playerID string, mode leaderboarddomain.GameMode) (int, error) {
	f.record("CountBefore")
	if f.CountBeforeFunc != nil {
		return f.CountBeforeFunc(ctx, db, playerID, mode)
	}

	f.mu.Lock()
	me, ok := f.entries[entryKey(playerID, mode)]
	f.mu.Unlock()
	if !ok {
		return 0, leaderboarddb.ErrNotFound
	}

	count := 0
	for _, e := range f.ordered(mode) {
		if leaderboarddomain.Before(e, me) {
			count++
		}
	}
	return count, nil
}

func (f *FakeLeaderboardRepo) ordered(mode leaderboarddomain.GameMode) []leaderboarddomain.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]leaderboarddomain.Entry, 0, len(f.entries))
	for _, e := range f.entries {
		if e.GameMode == mode {
			out = append(out, e)
		}
	}
	leaderboarddomain.SortEntries(out)
	return out
}

// --- Accessors for assertions ---

func (f *FakeLeaderboardRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLeaderboardRepo) Calls(step string) int {
	n := 0
	for _, s := range f.Trace() {
		if s == step {
			n++
		}
	}
	return n
}

// Ensure the fake satisfies the interface
var _ leaderboarddb.Repository = (*FakeLeaderboardRepo)(nil)

// ------------------------
// Fake Key/Value Store
// ------------------------

var errFakeMiss = errors.New("fake: miss")

// FakeKVStore serves as both CacheStore and IdempotencyStore.
type FakeKVStore struct {
	mu    sync.Mutex
	trace []string
	data  map[string][]byte
	ttls  map[string]time.Duration

	GetFunc         func(ctx context.Context, key string) ([]byte, error)
	SetFunc         func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc      func(ctx context.Context, key string) error
	SetIfAbsentFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
}

func NewFakeKVStore() *FakeKVStore {
	return &FakeKVStore{
		trace: []string{},
		data:  map[string][]byte{},
		ttls:  map[string]time.Duration{},
	}
}

func (f *FakeKVStore) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.GetFunc != nil {
		f.mu.Lock()
		f.record("Get")
		f.mu.Unlock()
		return f.GetFunc(ctx, key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Get")
	v, ok := f.data[key]
	if !ok {
		return nil, errFakeMiss
	}
	return v, nil
}

func (f *FakeKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if f.SetFunc != nil {
		f.mu.Lock()
		f.record("Set")
		f.mu.Unlock()
		return f.SetFunc(ctx, key, value, ttl)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Set")
	f.data[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *FakeKVStore) Delete(ctx context.Context, key string) error {
	if f.DeleteFunc != nil {
		f.mu.Lock()
		f.record("Delete")
		f.mu.Unlock()
		return f.DeleteFunc(ctx, key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Delete")
	delete(f.data, key)
	delete(f.ttls, key)
	return nil
}

func (f *FakeKVStore) SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if f.SetIfAbsentFunc != nil {
		f.mu.Lock()
		f.record("SetIfAbsent")
		f.mu.Unlock()
		return f.SetIfAbsentFunc(ctx, key, value, ttl)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetIfAbsent")
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = value
	f.ttls[key] = ttl
	return true, nil
}

func (f *FakeKVStore) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

func (f *FakeKVStore) TTL(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttls[key]
}

func (f *FakeKVStore) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var (
	_ CacheStore       = (*FakeKVStore)(nil)
	_ IdempotencyStore = (*FakeKVStore)(nil)
)

// ------------------------
// Fake Event Publisher
// ------------------------

type FakeEventPublisher struct {
	mu        sync.Mutex
	published []leaderboardevents.ScoreSubmittedPayload

	PublishScoreSubmittedFunc func(ctx context.Context, payload leaderboardevents.ScoreSubmittedPayload) error
}

func (f *FakeEventPublisher) PublishScoreSubmitted(ctx context.Context, payload leaderboardevents.ScoreSubmittedPayload) error {
	if f.PublishScoreSubmittedFunc != nil {
		return f.PublishScoreSubmittedFunc(ctx, payload)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, payload)
	return nil
}

func (f *FakeEventPublisher) Published() []leaderboardevents.ScoreSubmittedPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]leaderboardevents.ScoreSubmittedPayload, len(f.published))
	copy(out, f.published)
	return out
}

var _ EventPublisher = (*FakeEventPublisher)(nil)

// ------------------------
// Fake Metrics
// ------------------------

// FakeOperationMetrics counts operation outcomes by name; every other metric is a no-op.
type FakeOperationMetrics struct {
	leaderboardmetrics.NoOpMetrics

	mu        sync.Mutex
	successes map[string]int
	failures  map[string]int
}

func NewFakeOperationMetrics() *FakeOperationMetrics {
	return &FakeOperationMetrics{successes: map[string]int{}, failures: map[string]int{}}
}

func (f *FakeOperationMetrics) RecordOperationSuccess(_ context.Context, operation, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successes[operation]++
}

func (f *FakeOperationMetrics) RecordOperationFailure(_ context.Context, operation, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[operation]++
}

func (f *FakeOperationMetrics) Successes(operation string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.successes[operation]
}

func (f *FakeOperationMetrics) Failures(operation string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures[operation]
}

var _ leaderboardmetrics.LeaderboardMetrics = (*FakeOperationMetrics)(nil)
