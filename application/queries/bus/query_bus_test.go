package bus

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type echoQuery struct {
	Value string
}

func (q echoQuery) Validate() error {
	if q.Value == "" {
		return errors.New("value is required")
	}
	return nil
}

func (q echoQuery) CacheKey() string { return q.Value }

type uncachedQuery struct{}

func (uncachedQuery) Validate() error { return nil }

type mapCache struct {
	mu   sync.Mutex
	data map[string]interface{}
}

func (c *mapCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) StartTimer(metric, label string) Timer {
	m.Called(metric, label)
	return stopFunc(func() {})
}

func (m *mockMetrics) Increment(metric, label string) {
	m.Called(metric, label)
}

type stopFunc func()

func (f stopFunc) Stop() { f() }

func TestQueryBus_AskDispatchesByType(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(_ context.Context, q Query) (interface{}, error) {
		return "echo:" + q.(echoQuery).Value, nil
	})))

	got, err := b.Ask(context.Background(), echoQuery{Value: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo:hi", got)

	_, err = b.Ask(context.Background(), uncachedQuery{})
	assert.ErrorContains(t, err, "has no handler")

	err = b.Register(echoQuery{}, QueryHandlerFunc(nil))
	assert.ErrorContains(t, err, "already has a handler")
}

func TestQueryBus_ValidationErrorIsReturnedAsIs(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(context.Context, Query) (interface{}, error) {
		t.Fatal("handler must not run")
		return nil, nil
	})))

	_, err := b.Ask(context.Background(), echoQuery{})
	assert.EqualError(t, err, "value is required")
}

func TestQueryBus_HandlerErrorKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	b := NewQueryBus()
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(context.Context, Query) (interface{}, error) {
		return nil, cause
	})))

	_, err := b.Ask(context.Background(), echoQuery{Value: "x"})
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "echoQuery")
}

func TestCachingMiddleware(t *testing.T) {
	cache := &mapCache{data: map[string]interface{}{}}
	var hits, misses int
	mw := NewCachingMiddleware(cache, 60, func(hit bool) {
		if hit {
			hits++
		} else {
			misses++
		}
	})

	calls := 0
	b := NewQueryBus(mw)
	handler := QueryHandlerFunc(func(_ context.Context, q Query) (interface{}, error) {
		calls++
		return calls, nil
	})
	require.NoError(t, b.Register(echoQuery{}, handler))
	require.NoError(t, b.Register(uncachedQuery{}, handler))

	for i := 0; i < 3; i++ {
		got, err := b.Ask(context.Background(), echoQuery{Value: "a"})
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, misses)

	_, err := b.Ask(context.Background(), uncachedQuery{})
	require.NoError(t, err)
	_, err = b.Ask(context.Background(), uncachedQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, calls, "queries without a cache key are never cached")
}

func TestCachingMiddleware_DoesNotCacheErrors(t *testing.T) {
	cache := &mapCache{data: map[string]interface{}{}}
	calls := 0
	b := NewQueryBus(NewCachingMiddleware(cache, 60, nil))
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(context.Context, Query) (interface{}, error) {
		calls++
		return nil, errors.New("unavailable")
	})))

	_, err := b.Ask(context.Background(), echoQuery{Value: "a"})
	require.Error(t, err)
	_, err = b.Ask(context.Background(), echoQuery{Value: "a"})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Empty(t, cache.data)
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := new(mockMetrics)
	metrics.On("StartTimer", "query_duration", "echoQuery").Twice()
	metrics.On("Increment", "query_count", "echoQuery").Twice()
	metrics.On("Increment", "query_success", "echoQuery").Once()
	metrics.On("Increment", "query_errors", "echoQuery").Once()

	b := NewQueryBus(NewMetricsMiddleware(metrics))
	require.NoError(t, b.Register(echoQuery{}, QueryHandlerFunc(func(_ context.Context, q Query) (interface{}, error) {
		if q.(echoQuery).Value == "fail" {
			return nil, errors.New("failed")
		}
		return "ok", nil
	})))

	_, err := b.Ask(context.Background(), echoQuery{Value: "ok"})
	require.NoError(t, err)
	_, err = b.Ask(context.Background(), echoQuery{Value: "fail"})
	require.Error(t, err)

	metrics.AssertExpectations(t)
}
