package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/kimtaewoo9/mansereok/application/queries"
	querybus "github.com/kimtaewoo9/mansereok/application/queries/bus"
	"github.com/kimtaewoo9/mansereok/domain/core/aggregates"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
	"github.com/kimtaewoo9/mansereok/pkg/observability"
)

const maxBodyBytes = 1 << 16

// QueryAsker dispatches queries
type QueryAsker interface {
	Ask(ctx context.Context, query querybus.Query) (interface{}, error)
}

// ChartHandler handles chart calculation requests
type ChartHandler struct {
	queryBus QueryAsker
	errors   *pkgerrors.ErrorHandler
	tracer   *observability.Tracer
	logger   *zap.Logger
}

// NewChartHandler creates a new chart handler
func NewChartHandler(
	queryBus QueryAsker,
	errorHandler *pkgerrors.ErrorHandler,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *ChartHandler {
	return &ChartHandler{
		queryBus: queryBus,
		errors:   errorHandler,
		tracer:   tracer,
		logger:   logger,
	}
}

// CalculateRequest represents the request body for a chart calculation
type CalculateRequest struct {
	SolarDate    string `json:"solar_date" validate:"required,len=10"` // yyyy-mm-dd; lunar when is_lunar
	SolarTime    string `json:"solar_time,omitempty"`                   // HH:mm, optional
	Gender       string `json:"gender" validate:"required,oneof=MALE FEMALE M F"`
	IsLunar      *bool  `json:"is_lunar" validate:"required_without=CalendarType"`
	CalendarType string `json:"calendar_type,omitempty"` // S/L or SOLAR/LUNAR, instead of is_lunar
}

func (r CalculateRequest) query() queries.ComputeChartQuery {
	return queries.ComputeChartQuery{
		Date:     r.SolarDate,
		Time:     r.SolarTime,
		Gender:   r.Gender,
		IsLunar:  r.IsLunar != nil && *r.IsLunar,
		Calendar: r.CalendarType,
	}
}

// CompatibilityRequest represents the request body for a pair of charts
type CompatibilityRequest struct {
	Person1 *CalculateRequest `json:"person1" validate:"required"`
	Person2 *CalculateRequest `json:"person2" validate:"required"`
}

// Calculate handles POST /api/v1/manseryeok/calculate
func (h *ChartHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if !h.decode(w, r, &req) {
		return
	}

	var chart *aggregates.SajuChart
	err := h.tracer.TraceFunction(r.Context(), "ComputeChart", func(ctx context.Context) error {
		result, err := h.queryBus.Ask(ctx, req.query())
		if err != nil {
			return err
		}
		chart = result.(*aggregates.SajuChart)
		h.tracer.AddAnnotation(ctx, "day_pillar", chart.Day.Code.Glyph())
		return nil
	})
	if err != nil {
		h.tracer.RecordError(r.Context(), err)
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, newChartResponse(req, chart))
}

// Compatibility handles POST /api/v1/manseryeok/compatibility
func (h *ChartHandler) Compatibility(w http.ResponseWriter, r *http.Request) {
	var req CompatibilityRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ComputeCompatibilityQuery{
		First:  req.Person1.query(),
		Second: req.Person2.query(),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	pair := result.(*queries.CompatibilityResult)
	h.respondJSON(w, http.StatusOK, CompatibilityResponse{
		Person1: newChartResponse(*req.Person1, pair.First),
		Person2: newChartResponse(*req.Person2, pair.Second),
	})
}

func (h *ChartHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewInvalidInputError("invalid request body").WithCause(err))
		return false
	}
	if err := validateStruct(dst); err != nil {
		h.errors.Handle(w, r, err)
		return false
	}
	return true
}

func (h *ChartHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
