package entities

import (
	"fmt"
	"time"

	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// AlmanacRecord is one civil day of the perpetual calendar: its solar and
// lunar dates and the sexagenary codes of its year, month and day. On the day
// a solar term begins, CutoverAt holds the local instant the month changes.
//
// Records are read-only reference data produced outside this system.
type AlmanacRecord struct {
	SolarDate time.Time
	LunarDate vo.LunarDate
	LeapMonth bool

	Year  vo.StemBranch
	Month vo.StemBranch
	Day   vo.StemBranch

	SolarTerm string
	CutoverAt *time.Time
}

// IsCutoverDay reports whether a solar term begins on this day.
func (r *AlmanacRecord) IsCutoverDay() bool {
	return r.CutoverAt != nil
}

// Precedes reports whether instant falls before this day's cutover. It is
// false on days without one.
func (r *AlmanacRecord) Precedes(instant time.Time) bool {
	return r.CutoverAt != nil && instant.Before(*r.CutoverAt)
}

// Validate checks the record's internal consistency.
func (r *AlmanacRecord) Validate() error {
	if r.SolarDate.IsZero() {
		return pkgerrors.NewInvalidInputError("almanac record has no solar date")
	}
	if !vo.DateOf(r.SolarDate).Equal(r.SolarDate) {
		return pkgerrors.NewInvalidInputError(
			fmt.Sprintf("almanac solar date %s carries a time of day", r.SolarDate.Format(time.RFC3339)))
	}
	if r.LunarDate.IsZero() {
		return pkgerrors.NewInvalidInputError(
			fmt.Sprintf("almanac record %s has no lunar date", r.SolarDate.Format(vo.DateLayout)))
	}
	if r.CutoverAt != nil && !vo.DateOf(*r.CutoverAt).Equal(r.SolarDate) {
		return pkgerrors.NewInvalidInputError(
			fmt.Sprintf("cutover %s is not on %s", r.CutoverAt.Format(time.RFC3339), r.SolarDate.Format(vo.DateLayout)))
	}
	if r.CutoverAt == nil && r.SolarTerm != "" {
		return pkgerrors.NewInvalidInputError(
			fmt.Sprintf("almanac record %s names term %q without an instant", r.SolarDate.Format(vo.DateLayout), r.SolarTerm))
	}
	return nil
}

func (r *AlmanacRecord) String() string {
	return fmt.Sprintf("%s(%s) %s年 %s月 %s日",
		r.SolarDate.Format(vo.DateLayout), r.LunarDate, r.Year, r.Month, r.Day)
}
