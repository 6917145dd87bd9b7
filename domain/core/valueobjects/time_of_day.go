package valueobjects

import (
	"fmt"
	"time"

	apperrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// MinutesPerDay is the number of minutes in a civil day.
const MinutesPerDay = 24 * 60

// lateNightStart is 23:30, the first minute that belongs to the next day's
// 子 hour.
const lateNightStart = 23*60 + 30

// TimeOfDay is a local wall-clock time.
type TimeOfDay struct {
	hour   int
	minute int
	second int
}

// NewTimeOfDay validates and builds a wall-clock time.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOfDay{}, apperrors.NewInvalidInputError(
			fmt.Sprintf("invalid time %02d:%02d:%02d", hour, minute, second))
	}
	return TimeOfDay{hour: hour, minute: minute, second: second}, nil
}

// ParseTimeOfDay accepts HH:mm or HH:mm:ss.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{hour: t.Hour(), minute: t.Minute(), second: t.Second()}, nil
		}
	}
	return TimeOfDay{}, apperrors.NewInvalidInputError(fmt.Sprintf("invalid time %q, expected HH:mm", s))
}

// Noon is used as the birth instant when no time was supplied.
func Noon() TimeOfDay { return TimeOfDay{hour: 12} }

func (t TimeOfDay) Hour() int { return t.hour }

func (t TimeOfDay) Minute() int { return t.minute }

func (t TimeOfDay) Second() int { return t.second }

// MinuteOfDay returns minutes since midnight, seconds truncated.
func (t TimeOfDay) MinuteOfDay() int { return t.hour*60 + t.minute }

// IsLateNight reports whether the time falls in [23:30, 23:59:59], the span
// whose 子 hour belongs to the following day.
func (t TimeOfDay) IsLateNight() bool { return t.MinuteOfDay() >= lateNightStart }

// On combines the time with the date part of d.
func (t TimeOfDay) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.hour, t.minute, t.second, 0, time.UTC)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}
