package services

import (
	"time"

	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

// DayPillarDate returns the civil date whose almanac record supplies the day
// pillar. A birth in [23:30, 23:59:59] belongs to the next day's 子 hour, so
// only the day pillar moves forward; year, month and the birth instant keep
// the original date.
func DayPillarDate(solarDate time.Time, t *vo.TimeOfDay) time.Time {
	date := vo.DateOf(solarDate)
	if t != nil && t.IsLateNight() {
		return date.AddDate(0, 0, 1)
	}
	return date
}

// BirthInstant places the time of birth on the civil date. Callers without a
// known time pass BirthQuery.TimeOrNoon.
func BirthInstant(solarDate time.Time, t vo.TimeOfDay) time.Time {
	return t.On(solarDate)
}
