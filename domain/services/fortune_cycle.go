package services

import (
	"time"

	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

// daysPerFortuneYear is the traditional conversion: three days between birth
// and the cutover count as one year of age.
const daysPerFortuneYear = 3

// FortuneCycleResult is the start of the Great Fortune sequence.
type FortuneCycleResult struct {
	DayGap    int
	StartAge  int
	StartYear int
}

// FortuneCycle derives the Great Fortune start age and year from the distance
// between the birth instant and the relevant cutover. dayGap counts whole
// 24-hour periods, truncated.
//
// The rounding is kept exactly as practised by the reference almanac: the age
// is dayGap/3, forced to 1 when dayGap < 4, then incremented when the
// remainder is exactly 2. A gap of 2 days therefore yields 2, not 1.
func FortuneCycle(dir vo.Direction, cutover, birth time.Time) FortuneCycleResult {
	var gap time.Duration
	if dir == vo.Forward {
		gap = cutover.Sub(birth)
	} else {
		gap = birth.Sub(cutover)
	}
	if gap < 0 {
		gap = -gap
	}
	dayGap := int(gap / (24 * time.Hour))

	age := dayGap / daysPerFortuneYear
	if dayGap < 4 {
		age = 1
	}
	if dayGap%daysPerFortuneYear == 2 {
		age++
	}

	return FortuneCycleResult{
		DayGap:    dayGap,
		StartAge:  age,
		StartYear: birth.Year() + age,
	}
}
