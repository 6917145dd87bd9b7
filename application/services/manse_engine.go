package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kimtaewoo9/mansereok/application/ports"
	"github.com/kimtaewoo9/mansereok/domain/core/aggregates"
	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	domain "github.com/kimtaewoo9/mansereok/domain/services"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// EngineOptions tunes how almanac edge cases are read.
type EngineOptions struct {
	// KeepCivilDayOnCutover keeps the civil date's day pillar when a birth
	// precedes the cutover on a cutover day. By default year, month and day
	// all come from the previous day's record.
	KeepCivilDayOnCutover bool
}

// ManseEngine computes Four Pillars charts. It holds no per-request state and
// is safe for concurrent use.
type ManseEngine struct {
	almanac ports.AlmanacRepository
	locator *CutoverLocator
	options EngineOptions
	logger  *zap.Logger
	now     func() time.Time
}

// NewManseEngine creates a new chart engine
func NewManseEngine(almanac ports.AlmanacRepository, options EngineOptions, logger *zap.Logger) *ManseEngine {
	return &ManseEngine{
		almanac: almanac,
		locator: NewCutoverLocator(almanac),
		options: options,
		logger:  logger,
		now:     time.Now,
	}
}

// Compute builds the chart for q. Any lookup failure aborts the computation;
// no partial chart is returned.
func (e *ManseEngine) Compute(ctx context.Context, q aggregates.BirthQuery) (*aggregates.SajuChart, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	// Resolve the Gregorian date and its record.
	var (
		base *entities.AlmanacRecord
		err  error
	)
	if q.IsLunar {
		base, err = e.almanac.FindByLunarDate(ctx, q.LunarDate)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "convert lunar date %s", q.LunarDate)
		}
	} else {
		base, err = e.almanac.FindBySolarDate(ctx, q.SolarDate)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "look up %s", q.SolarDate.Format(vo.DateLayout))
		}
	}
	solarDate := vo.DateOf(base.SolarDate)
	birth := domain.BirthInstant(solarDate, q.TimeOrNoon())

	yearCode, monthCode, dayCode := base.Year, base.Month, base.Day

	dayDate := domain.DayPillarDate(solarDate, q.Time)
	rolled := !dayDate.Equal(solarDate)
	if rolled {
		next, err := e.almanac.FindBySolarDate(ctx, dayDate)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "look up rolled-over day %s", dayDate.Format(vo.DateLayout))
		}
		dayCode = next.Day
	}

	if base.Precedes(birth) {
		prev, err := e.almanac.FindBySolarDate(ctx, solarDate.AddDate(0, 0, -1))
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "look up day before cutover %s", solarDate.Format(vo.DateLayout))
		}
		yearCode, monthCode = prev.Year, prev.Month
		// A rolled-over day already belongs to the next date.
		if !rolled && !e.options.KeepCivilDayOnCutover {
			dayCode = prev.Day
		}
		e.logger.Debug("Birth precedes cutover",
			zap.String("date", solarDate.Format(vo.DateLayout)),
			zap.String("term", base.SolarTerm),
			zap.String("year", yearCode.Glyph()),
			zap.String("month", monthCode.Glyph()),
			zap.String("day", dayCode.Glyph()),
		)
	}

	dir := domain.ResolveDirection(q.Gender, yearCode.Stem().Polarity())

	cutover, err := e.locator.Locate(ctx, dir, birth)
	if err != nil {
		return nil, err
	}
	fortune := domain.FortuneCycle(dir, *cutover.CutoverAt, birth)

	dayStem := dayCode.Stem()
	hourCode, err := domain.ResolveHourPillar(dayStem, q.Time)
	if err != nil {
		return nil, err
	}

	chart := &aggregates.SajuChart{
		ID:               uuid.New().String(),
		Query:            q,
		SolarDate:        solarDate,
		BirthInstant:     birth,
		Year:             domain.FormatPillar(yearCode, dayStem),
		Month:            domain.FormatPillar(monthCode, dayStem),
		Day:              domain.FormatPillar(dayCode, dayStem),
		Direction:        dir,
		CutoverAt:        *cutover.CutoverAt,
		CutoverTerm:      cutover.SolarTerm,
		FortuneStartAge:  fortune.StartAge,
		FortuneStartYear: fortune.StartYear,
		ComputedAt:       e.now().UTC(),
	}
	if hourCode != nil {
		hour := domain.FormatPillar(*hourCode, dayStem)
		chart.Hour = &hour
	}
	chart.GreatFortunes = domain.GreatFortunes(monthCode, dayStem, dir, fortune.StartAge, fortune.StartYear)
	chart.Balance = domain.ElementBalanceOf(chart.Pillars()...)

	e.logger.Debug("Chart computed",
		zap.String("chart_id", chart.ID),
		zap.String("day_master", chart.DayMaster().Glyph()),
		zap.String("solar_date", solarDate.Format(vo.DateLayout)),
		zap.String("direction", dir.String()),
		zap.Int("day_gap", fortune.DayGap),
		zap.Int("fortune_start_age", fortune.StartAge),
	)

	return chart, nil
}
