// Package bus dispatches read-only queries to their handlers through an
// optional chain of middleware.
package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Query is a read-only request that can check its own inputs.
type Query interface {
	Validate() error
}

// Cacheable is implemented by queries whose results may be cached. CacheKey
// must identify the query's inputs completely.
type Cacheable interface {
	CacheKey() string
}

// QueryHandler answers one query type.
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// Middleware decorates a handler.
type Middleware interface {
	Wrap(next QueryHandler) QueryHandler
}

// QueryBus routes each query to the handler registered for its concrete type.
type QueryBus struct {
	handlers   map[reflect.Type]QueryHandler
	middleware []Middleware
	mu         sync.RWMutex
}

// NewQueryBus creates a new query bus. Middleware is applied in order, the
// first being outermost.
func NewQueryBus(middleware ...Middleware) *QueryBus {
	return &QueryBus{
		handlers:   make(map[reflect.Type]QueryHandler),
		middleware: middleware,
	}
}

// Register binds handler, wrapped in the bus middleware, to the type of
// prototype. A type can be bound once.
func (b *QueryBus) Register(prototype Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(prototype)
	if _, dup := b.handlers[t]; dup {
		return fmt.Errorf("query %s already has a handler", t.Name())
	}

	for i := len(b.middleware) - 1; i >= 0; i-- {
		handler = b.middleware[i].Wrap(handler)
	}
	b.handlers[t] = handler
	return nil
}

// Ask dispatches a query to its handler and returns the result. Validation
// errors are returned unwrapped so callers can map them to responses.
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	handler, ok := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("query %T has no handler", query)
	}

	result, err := handler.Handle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", queryName(query), err)
	}
	return result, nil
}

// QueryHandlerFunc lets a plain function serve as a QueryHandler.
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// Cache stores query results for a number of seconds.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
}

// CachingMiddleware serves repeated Cacheable queries from a cache.
type CachingMiddleware struct {
	cache  Cache
	ttl    int // TTL in seconds
	record func(hit bool)
}

// NewCachingMiddleware creates a new caching middleware. record, if not nil,
// is told about every hit and miss.
func NewCachingMiddleware(cache Cache, ttl int, record func(hit bool)) *CachingMiddleware {
	if record == nil {
		record = func(bool) {}
	}
	return &CachingMiddleware{
		cache:  cache,
		ttl:    ttl,
		record: record,
	}
}

func (m *CachingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		c, ok := query.(Cacheable)
		if !ok || m.ttl <= 0 {
			return next.Handle(ctx, query)
		}
		cacheKey := queryName(query) + ":" + c.CacheKey()

		if hit, ok := m.cache.Get(ctx, cacheKey); ok {
			m.record(true)
			return hit, nil
		}
		m.record(false)

		result, err := next.Handle(ctx, query)
		if err != nil {
			return nil, err
		}

		// A failed write only costs a future miss.
		_ = m.cache.Set(ctx, cacheKey, result, m.ttl)
		return result, nil
	})
}

// MetricsMiddleware counts and times every query by type.
type MetricsMiddleware struct {
	metrics Metrics
}

func NewMetricsMiddleware(metrics Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: metrics,
	}
}

func (m *MetricsMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		queryType := queryName(query)

		timer := m.metrics.StartTimer("query_duration", queryType)
		defer timer.Stop()

		m.metrics.Increment("query_count", queryType)

		result, err := next.Handle(ctx, query)
		if err != nil {
			m.metrics.Increment("query_errors", queryType)
			return nil, err
		}

		m.metrics.Increment("query_success", queryType)
		return result, nil
	})
}

// Metrics receives query counters and timings.
type Metrics interface {
	StartTimer(metric, label string) Timer
	Increment(metric, label string)
}

// Timer observes the time since it was started when stopped.
type Timer interface {
	Stop()
}

func queryName(query Query) string {
	t := reflect.TypeOf(query)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
