// Package decorators wraps almanac repositories with cross-cutting behaviour:
// per-call timeouts, a circuit breaker, logging and metrics.
package decorators

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kimtaewoo9/mansereok/application/ports"
	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// Recorder receives almanac metrics.
type Recorder interface {
	RecordAlmanacOperation(operation, status string, duration time.Duration)
	SetBreakerState(name string, state int)
}

// ResilienceConfig holds configuration for the almanac decorator
type ResilienceConfig struct {
	Name             string
	Timeout          time.Duration // per call; zero disables
	MaxRequests      uint32
	Interval         time.Duration
	OpenTimeout      time.Duration
	FailureThreshold float64
	MinRequests      uint32
	SlowThreshold    time.Duration
}

// DefaultResilienceConfig returns a default configuration
func DefaultResilienceConfig(name string) ResilienceConfig {
	return ResilienceConfig{
		Name:             name,
		Timeout:          2 * time.Second,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		OpenTimeout:      60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
		SlowThreshold:    250 * time.Millisecond,
	}
}

// ResilientAlmanacRepository decorates an AlmanacRepository.
type ResilientAlmanacRepository struct {
	inner    ports.AlmanacRepository
	breaker  *gobreaker.CircuitBreaker
	config   ResilienceConfig
	recorder Recorder
	logger   *zap.Logger
}

// NewResilientAlmanacRepository wraps inner. recorder may be nil.
func NewResilientAlmanacRepository(
	inner ports.AlmanacRepository,
	config ResilienceConfig,
	recorder Recorder,
	logger *zap.Logger,
) *ResilientAlmanacRepository {
	r := &ResilientAlmanacRepository{
		inner:    inner,
		config:   config,
		recorder: recorder,
		logger:   logger.Named("almanac_repository"),
	}
	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			r.logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if r.recorder != nil {
				r.recorder.SetBreakerState(name, int(to))
			}
		},
		// Misses and bad input are answers, not store failures.
		IsSuccessful: func(err error) bool {
			return err == nil || pkgerrors.IsNotFound(err) || pkgerrors.IsInvalidInput(err)
		},
	})
	if recorder != nil {
		recorder.SetBreakerState(config.Name, int(gobreaker.StateClosed))
	}
	return r
}

// State returns the breaker state, for readiness checks.
func (r *ResilientAlmanacRepository) State() gobreaker.State {
	return r.breaker.State()
}

func (r *ResilientAlmanacRepository) FindBySolarDate(ctx context.Context, date time.Time) (*entities.AlmanacRecord, error) {
	return r.call(ctx, "find_by_solar_date", func(ctx context.Context) (*entities.AlmanacRecord, error) {
		return r.inner.FindBySolarDate(ctx, date)
	}, zap.String("date", date.Format(vo.DateLayout)))
}

func (r *ResilientAlmanacRepository) FindByLunarDate(ctx context.Context, date vo.LunarDate) (*entities.AlmanacRecord, error) {
	return r.call(ctx, "find_by_lunar_date", func(ctx context.Context) (*entities.AlmanacRecord, error) {
		return r.inner.FindByLunarDate(ctx, date)
	}, zap.String("lunar_date", date.String()))
}

func (r *ResilientAlmanacRepository) FindEarliestCutoverAtOrAfter(ctx context.Context, instant time.Time) (*entities.AlmanacRecord, error) {
	return r.call(ctx, "find_cutover_after", func(ctx context.Context) (*entities.AlmanacRecord, error) {
		return r.inner.FindEarliestCutoverAtOrAfter(ctx, instant)
	}, zap.Time("instant", instant))
}

func (r *ResilientAlmanacRepository) FindLatestCutoverAtOrBefore(ctx context.Context, instant time.Time) (*entities.AlmanacRecord, error) {
	return r.call(ctx, "find_cutover_before", func(ctx context.Context) (*entities.AlmanacRecord, error) {
		return r.inner.FindLatestCutoverAtOrBefore(ctx, instant)
	}, zap.Time("instant", instant))
}

func (r *ResilientAlmanacRepository) call(
	ctx context.Context,
	operation string,
	fn func(ctx context.Context) (*entities.AlmanacRecord, error),
	fields ...zap.Field,
) (*entities.AlmanacRecord, error) {
	start := time.Now()

	result, err := r.breaker.Execute(func() (interface{}, error) {
		callCtx := ctx
		if r.config.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.config.Timeout)
			defer cancel()
		}
		rec, err := fn(callCtx)
		if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, pkgerrors.NewTimeoutError("almanac " + operation).WithCause(err)
		}
		return rec, err
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		err = pkgerrors.NewUnavailableError("almanac").WithCause(err)
	}

	duration := time.Since(start)
	r.observe(operation, duration, err, fields)
	if err != nil {
		return nil, err
	}
	return result.(*entities.AlmanacRecord), nil
}

func (r *ResilientAlmanacRepository) observe(operation string, duration time.Duration, err error, fields []zap.Field) {
	status := "success"
	switch {
	case err == nil:
	case pkgerrors.IsNotFound(err):
		status = "not_found"
	default:
		status = "error"
	}
	if r.recorder != nil {
		r.recorder.RecordAlmanacOperation(operation, status, duration)
	}

	fields = append(fields,
		zap.String("operation", operation),
		zap.Duration("duration", duration),
	)
	switch {
	case status == "error":
		r.logger.Error("Almanac lookup failed", append(fields, zap.Error(err))...)
	case status == "not_found":
		r.logger.Debug("Almanac record not found", fields...)
	case r.config.SlowThreshold > 0 && duration > r.config.SlowThreshold:
		r.logger.Warn("Slow almanac lookup", fields...)
	default:
		r.logger.Debug("Almanac lookup completed", fields...)
	}
}
