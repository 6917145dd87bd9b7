package decorators

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	"github.com/kimtaewoo9/mansereok/infrastructure/persistence/memory"
	"github.com/kimtaewoo9/mansereok/internal/testutil"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// flakyRepository fails FindBySolarDate with err when set, after an optional delay.
type flakyRepository struct {
	*memory.AlmanacStore
	mu    sync.Mutex
	err   error
	delay time.Duration
	calls int
}

func (f *flakyRepository) FindBySolarDate(ctx context.Context, date time.Time) (*entities.AlmanacRecord, error) {
	f.mu.Lock()
	f.calls++
	err, delay := f.err, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return nil, err
	}
	return f.AlmanacStore.FindBySolarDate(ctx, date)
}

type fakeRecorder struct {
	mu     sync.Mutex
	ops    map[string]int
	states []int
}

func (r *fakeRecorder) RecordAlmanacOperation(operation, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[operation+"/"+status]++
}

func (r *fakeRecorder) SetBreakerState(_ string, state int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func newFlaky(t *testing.T) *flakyRepository {
	t.Helper()
	return &flakyRepository{AlmanacStore: memory.NewAlmanacStore(testutil.Records1987())}
}

func testConfig() ResilienceConfig {
	cfg := DefaultResilienceConfig("almanac-test")
	cfg.MinRequests = 3
	cfg.FailureThreshold = 0.5
	cfg.OpenTimeout = time.Hour
	return cfg
}

func TestResilientRepository_PassesThrough(t *testing.T) {
	inner := newFlaky(t)
	rec := &fakeRecorder{ops: map[string]int{}}
	repo := NewResilientAlmanacRepository(inner, testConfig(), rec, zap.NewNop())
	ctx := context.Background()

	r, err := repo.FindBySolarDate(ctx, testutil.Date(1987, 2, 13))
	require.NoError(t, err)
	assert.Equal(t, "癸巳", r.Day.Glyph())

	r, err = repo.FindByLunarDate(ctx, vo.LunarDate{Year: 1987, Month: 1, Day: 16})
	require.NoError(t, err)
	assert.Equal(t, testutil.Date(1987, 2, 13), r.SolarDate)

	r, err = repo.FindLatestCutoverAtOrBefore(ctx, time.Date(1987, 2, 13, 14, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "입춘", r.SolarTerm)

	_, err = repo.FindEarliestCutoverAtOrAfter(ctx, time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, pkgerrors.IsNotFound(err))

	assert.Equal(t, 1, rec.ops["find_by_solar_date/success"])
	assert.Equal(t, 1, rec.ops["find_cutover_after/not_found"])
	assert.Equal(t, []int{int(gobreaker.StateClosed)}, rec.states)
}

func TestResilientRepository_NotFoundDoesNotTrip(t *testing.T) {
	repo := NewResilientAlmanacRepository(newFlaky(t), testConfig(), nil, zap.NewNop())

	for i := 0; i < 10; i++ {
		_, err := repo.FindBySolarDate(context.Background(), testutil.Date(2050, 1, 1))
		require.True(t, pkgerrors.IsNotFound(err))
	}
	assert.Equal(t, gobreaker.StateClosed, repo.State())
}

func TestResilientRepository_TripsOnFailures(t *testing.T) {
	inner := newFlaky(t)
	inner.err = pkgerrors.NewDatabaseError("query", errors.New("connection refused"))
	rec := &fakeRecorder{ops: map[string]int{}}
	repo := NewResilientAlmanacRepository(inner, testConfig(), rec, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := repo.FindBySolarDate(context.Background(), testutil.Date(1987, 2, 13))
		require.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))
	}
	assert.Equal(t, gobreaker.StateOpen, repo.State())

	_, err := repo.FindBySolarDate(context.Background(), testutil.Date(1987, 2, 13))
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.calls, "open breaker must not reach the store")
	assert.Contains(t, rec.states, int(gobreaker.StateOpen))
}

func TestResilientRepository_Timeout(t *testing.T) {
	inner := newFlaky(t)
	inner.delay = time.Second
	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	repo := NewResilientAlmanacRepository(inner, cfg, nil, zap.NewNop())

	_, err := repo.FindBySolarDate(context.Background(), testutil.Date(1987, 2, 13))
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeTimeout), "got %v", err)

	// A cancelled caller is not reported as a store timeout.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = repo.FindBySolarDate(ctx, testutil.Date(1987, 2, 13))
	assert.ErrorIs(t, err, context.Canceled)
}
