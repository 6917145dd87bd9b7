package seed

import (
	"fmt"
	"sort"
	"time"

	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

// Issue is one inconsistency found by Verify.
type Issue struct {
	SolarDate time.Time
	Problem   string
}

func (i Issue) String() string {
	return i.SolarDate.Format(vo.DateLayout) + ": " + i.Problem
}

// Verify cross-checks a data set against the sexagenary cycles: every day
// pillar must match the day count, dates must be contiguous, and year and
// month pillars may only advance, by one, on a solar-term day.
func Verify(records []*entities.AlmanacRecord) []Issue {
	sorted := make([]*entities.AlmanacRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SolarDate.Before(sorted[j].SolarDate)
	})

	var issues []Issue
	report := func(r *entities.AlmanacRecord, format string, args ...interface{}) {
		issues = append(issues, Issue{SolarDate: r.SolarDate, Problem: fmt.Sprintf(format, args...)})
	}

	var prev *entities.AlmanacRecord
	for _, r := range sorted {
		if err := r.Validate(); err != nil {
			report(r, "%v", err)
		}
		if want := vo.DayStemBranch(r.SolarDate); !r.Day.Equals(want) {
			report(r, "day pillar %s, expected %s", r.Day, want)
		}

		if prev != nil {
			switch next := prev.SolarDate.AddDate(0, 0, 1); {
			case r.SolarDate.Equal(prev.SolarDate):
				report(r, "duplicate record")
				continue
			case !r.SolarDate.Equal(next):
				report(r, "gap after %s", prev.SolarDate.Format(vo.DateLayout))
			default:
				checkAdvance(r, "year", prev.Year, r.Year, report)
				checkAdvance(r, "month", prev.Month, r.Month, report)
			}
		}
		prev = r
	}
	return issues
}

func checkAdvance(
	r *entities.AlmanacRecord,
	what string,
	before, after vo.StemBranch,
	report func(*entities.AlmanacRecord, string, ...interface{}),
) {
	if after.Equals(before) {
		return
	}
	if !r.IsCutoverDay() {
		report(r, "%s pillar changes from %s to %s without a solar term", what, before, after)
		return
	}
	if !after.Equals(before.Next(1)) {
		report(r, "%s pillar jumps from %s to %s", what, before, after)
	}
}
