package valueobjects

import (
	"fmt"
	"time"

	apperrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// ParseSolarDate parses yyyy-mm-dd into a UTC midnight instant.
func ParseSolarDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidInputError(fmt.Sprintf("invalid date %q, expected yyyy-mm-dd", s)).WithCause(err)
	}
	return t, nil
}

// DateOf truncates t to its civil date, keeping the wall-clock fields.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LunarDate is a day of the Korean lunisolar calendar. Leap months are carried
// on the almanac record, not here.
type LunarDate struct {
	Year  int
	Month int
	Day   int
}

// ParseLunarDate parses yyyy-mm-dd. Day 30 is allowed in every month; whether
// it exists is decided by the almanac.
func ParseLunarDate(s string) (LunarDate, error) {
	var d LunarDate
	if _, err := fmt.Sscanf(s, "%4d-%2d-%2d", &d.Year, &d.Month, &d.Day); err != nil || len(s) != len(DateLayout) {
		return LunarDate{}, apperrors.NewInvalidInputError(fmt.Sprintf("invalid lunar date %q, expected yyyy-mm-dd", s))
	}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 30 {
		return LunarDate{}, apperrors.NewInvalidInputError(fmt.Sprintf("lunar date %q out of range", s))
	}
	return d, nil
}

func (d LunarDate) IsZero() bool { return d == LunarDate{} }

func (d LunarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
