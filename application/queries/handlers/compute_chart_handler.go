package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kimtaewoo9/mansereok/application/ports"
	"github.com/kimtaewoo9/mansereok/application/queries"
	"github.com/kimtaewoo9/mansereok/application/queries/bus"
	"github.com/kimtaewoo9/mansereok/domain/core/aggregates"
	"github.com/kimtaewoo9/mansereok/domain/events"
)

// ChartEngine computes a chart from a birth query.
type ChartEngine interface {
	Compute(ctx context.Context, q aggregates.BirthQuery) (*aggregates.SajuChart, error)
}

// ChartRecorder is told about every computed chart.
type ChartRecorder interface {
	RecordChart(calendar, direction string)
}

// ComputeChartHandler handles chart queries
type ComputeChartHandler struct {
	engine    ChartEngine
	publisher ports.EventPublisher
	recorder  ChartRecorder
	logger    *zap.Logger
}

// NewComputeChartHandler creates a new chart handler. publisher and recorder
// may be nil.
func NewComputeChartHandler(
	engine ChartEngine,
	publisher ports.EventPublisher,
	recorder ChartRecorder,
	logger *zap.Logger,
) *ComputeChartHandler {
	return &ComputeChartHandler{
		engine:    engine,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
	}
}

// Handle implements bus.QueryHandler
func (h *ComputeChartHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ComputeChartQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
	return h.Compute(ctx, q)
}

// Compute runs one chart query and announces the result.
func (h *ComputeChartHandler) Compute(ctx context.Context, q queries.ComputeChartQuery) (*aggregates.SajuChart, error) {
	bq, err := q.BirthQuery()
	if err != nil {
		return nil, err
	}

	chart, err := h.engine.Compute(ctx, bq)
	if err != nil {
		return nil, err
	}

	if h.recorder != nil {
		h.recorder.RecordChart(bq.CalendarType().String(), chart.Direction.String())
	}
	if h.publisher != nil {
		// Publishing is best effort.
		if err := h.publisher.Publish(ctx, events.NewChartComputed(chart, time.Now().UTC())); err != nil {
			h.logger.Warn("Failed to publish chart event",
				zap.String("chart_id", chart.ID),
				zap.Error(err),
			)
		}
	}
	return chart, nil
}

// ComputeCompatibilityHandler computes the two charts of a pair concurrently.
type ComputeCompatibilityHandler struct {
	charts *ComputeChartHandler
}

// NewComputeCompatibilityHandler creates a new compatibility handler
func NewComputeCompatibilityHandler(charts *ComputeChartHandler) *ComputeCompatibilityHandler {
	return &ComputeCompatibilityHandler{charts: charts}
}

// Handle implements bus.QueryHandler
func (h *ComputeCompatibilityHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ComputeCompatibilityQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	var result queries.CompatibilityResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		chart, err := h.charts.Compute(gctx, q.First)
		if err != nil {
			return fmt.Errorf("person1: %w", err)
		}
		result.First = chart
		return nil
	})
	g.Go(func() error {
		chart, err := h.charts.Compute(gctx, q.Second)
		if err != nil {
			return fmt.Errorf("person2: %w", err)
		}
		result.Second = chart
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}
