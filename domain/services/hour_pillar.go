package services

import (
	"fmt"

	"github.com/kimtaewoo9/mansereok/domain/core/tables"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// hourWindow is an inclusive range of minutes since midnight. A window whose
// start is after its end wraps past midnight.
type hourWindow struct {
	start, end int
}

func (w hourWindow) contains(minute int) bool {
	if w.start <= w.end {
		return minute >= w.start && minute <= w.end
	}
	return minute >= w.start || minute <= w.end
}

// hourWindows[b] is the span of branch b: 子 covers 23:30-01:29 and every
// later branch the following two hours.
var hourWindows = func() [vo.BranchCount]hourWindow {
	var w [vo.BranchCount]hourWindow
	w[vo.BranchJa] = hourWindow{start: 23*60 + 30, end: 1*60 + 29}
	for k := 1; k < vo.BranchCount; k++ {
		w[k] = hourWindow{start: (2*k-1)*60 + 30, end: (2*k+1)*60 + 29}
	}
	return w
}()

// HourBranch returns the branch of the two-hour window containing t.
func HourBranch(t vo.TimeOfDay) (vo.Branch, error) {
	minute := t.MinuteOfDay()
	for b, w := range hourWindows {
		if w.contains(minute) {
			return vo.Branch(b), nil
		}
	}
	return 0, pkgerrors.NewAmbiguousHourError(fmt.Sprintf("no hour window contains %s", t))
}

// ResolveHourPillar computes the hour pillar for a birth time. The day stem
// must already reflect any late-night rollover. A nil time yields no pillar
// and no error.
func ResolveHourPillar(dayStem vo.Stem, t *vo.TimeOfDay) (*vo.StemBranch, error) {
	if t == nil {
		return nil, nil
	}
	branch, err := HourBranch(*t)
	if err != nil {
		return nil, err
	}
	code, err := vo.NewStemBranch(tables.HourStem(dayStem, branch), branch)
	if err != nil {
		return nil, pkgerrors.NewConfigurationError("hour stem table produced a mixed-parity pair").WithCause(err)
	}
	return &code, nil
}
