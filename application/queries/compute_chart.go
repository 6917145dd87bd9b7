package queries

import (
	"fmt"
	"strings"

	"github.com/kimtaewoo9/mansereok/domain/core/aggregates"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// ComputeChartQuery asks for the chart of one birth moment. Fields carry the
// raw request values; Validate parses them.
type ComputeChartQuery struct {
	Date    string // yyyy-mm-dd, solar or lunar per IsLunar
	Time    string // HH:mm or HH:mm:ss, empty when unknown
	Gender  string // M, F, MALE or FEMALE
	IsLunar bool
	// Calendar is an optional S, L, SOLAR or LUNAR code. When set it decides
	// the calendar and must not contradict IsLunar.
	Calendar string
}

// Validate validates the ComputeChartQuery
func (q ComputeChartQuery) Validate() error {
	_, err := q.BirthQuery()
	return err
}

// BirthQuery converts the request into the domain query.
func (q ComputeChartQuery) BirthQuery() (aggregates.BirthQuery, error) {
	gender, err := vo.ParseGender(q.Gender)
	if err != nil {
		return aggregates.BirthQuery{}, err
	}

	var tod *vo.TimeOfDay
	if s := strings.TrimSpace(q.Time); s != "" {
		t, err := vo.ParseTimeOfDay(s)
		if err != nil {
			return aggregates.BirthQuery{}, err
		}
		tod = &t
	}

	date := strings.TrimSpace(q.Date)
	if date == "" {
		return aggregates.BirthQuery{}, pkgerrors.NewInvalidInputError("birth date is required")
	}
	lunar, err := q.lunar()
	if err != nil {
		return aggregates.BirthQuery{}, err
	}
	if lunar {
		lunar, err := vo.ParseLunarDate(date)
		if err != nil {
			return aggregates.BirthQuery{}, err
		}
		return aggregates.NewLunarBirthQuery(lunar, tod, gender)
	}
	solar, err := vo.ParseSolarDate(date)
	if err != nil {
		return aggregates.BirthQuery{}, err
	}
	return aggregates.NewSolarBirthQuery(solar, tod, gender)
}

func (q ComputeChartQuery) lunar() (bool, error) {
	if strings.TrimSpace(q.Calendar) == "" {
		return q.IsLunar, nil
	}
	ct, err := vo.ParseCalendarType(q.Calendar)
	if err != nil {
		return false, err
	}
	if q.IsLunar && ct != vo.Lunar {
		return false, pkgerrors.NewInvalidInputError(
			fmt.Sprintf("calendar type %q contradicts is_lunar", q.Calendar))
	}
	return ct == vo.Lunar, nil
}

// CacheKey identifies the chart inputs after normalization, so "M" and
// "MALE" share an entry. Queries with equal keys are answered with the same
// *SajuChart, ID and ComputedAt included, and only the first computation
// publishes a ChartComputed event.
func (q ComputeChartQuery) CacheKey() string {
	bq, err := q.BirthQuery()
	if err != nil {
		return fmt.Sprintf("invalid:%s|%s|%s|%t|%s", q.Date, q.Time, q.Gender, q.IsLunar, q.Calendar)
	}
	date := bq.SolarDate.Format(vo.DateLayout)
	if bq.IsLunar {
		date = bq.LunarDate.String()
	}
	tod := "-"
	if bq.Time != nil {
		tod = fmt.Sprintf("%s:%02d", bq.Time, bq.Time.Second())
	}
	return fmt.Sprintf("%s|%s|%s|%s", bq.CalendarType().Code(), date, tod, bq.Gender.Code())
}

// ComputeCompatibilityQuery asks for the charts of two people.
type ComputeCompatibilityQuery struct {
	First  ComputeChartQuery
	Second ComputeChartQuery
}

// Validate validates both people.
func (q ComputeCompatibilityQuery) Validate() error {
	if err := q.First.Validate(); err != nil {
		return pkgerrors.Wrap(err, "person1")
	}
	if err := q.Second.Validate(); err != nil {
		return pkgerrors.Wrap(err, "person2")
	}
	return nil
}

// CacheKey combines the keys of both people.
func (q ComputeCompatibilityQuery) CacheKey() string {
	return q.First.CacheKey() + "&" + q.Second.CacheKey()
}

// CompatibilityResult holds the two charts in request order.
type CompatibilityResult struct {
	First  *aggregates.SajuChart
	Second *aggregates.SajuChart
}
