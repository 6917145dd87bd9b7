package services

import (
	"github.com/kimtaewoo9/mansereok/domain/core/aggregates"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

// GreatFortuneDecades is the length of the sequence produced for a chart.
const GreatFortuneDecades = 10

// GreatFortunes lists the decade pillars following the month pillar in the
// given direction. Decade i starts at startAge+10i in startYear+10i.
func GreatFortunes(month vo.StemBranch, dayStem vo.Stem, dir vo.Direction, startAge, startYear int) []aggregates.GreatFortune {
	fortunes := make([]aggregates.GreatFortune, 0, GreatFortuneDecades)
	for i := 0; i < GreatFortuneDecades; i++ {
		code := month.Next((i + 1) * dir.Step())
		fortunes = append(fortunes, aggregates.GreatFortune{
			Age:    startAge + 10*i,
			Year:   startYear + 10*i,
			Pillar: FormatPillar(code, dayStem),
		})
	}
	return fortunes
}
