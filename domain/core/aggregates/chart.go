package aggregates

import (
	"time"

	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

// AnnotatedElement is one stem or branch of a pillar with everything derived
// from it. HiddenStems is set only for branches.
type AnnotatedElement struct {
	Glyph       string
	Korean      string
	Ordinal     int
	Element     vo.FiveElement
	Polarity    vo.Polarity
	TenStar     vo.TenStar
	Color       string
	HiddenStems *vo.HiddenStems
}

// IsBranch reports whether the element annotates a branch.
func (a AnnotatedElement) IsBranch() bool { return a.HiddenStems != nil }

// Pillar is an annotated stem-branch pair.
type Pillar struct {
	Code   vo.StemBranch
	Stem   AnnotatedElement
	Branch AnnotatedElement
}

// GreatFortune is one decade of the Great Fortune sequence.
type GreatFortune struct {
	Age    int
	Year   int
	Pillar Pillar
}

// ElementBalance counts the stems and branches of a chart per element.
type ElementBalance struct {
	Counts [vo.ElementCount]int
	Total  int
}

// Percent returns the share of e in the chart, rounded down.
func (b ElementBalance) Percent(e vo.FiveElement) int {
	if b.Total == 0 {
		return 0
	}
	return b.Counts[e] * 100 / b.Total
}

// Missing returns the elements that do not appear at all.
func (b ElementBalance) Missing() []vo.FiveElement {
	var missing []vo.FiveElement
	for _, e := range vo.AllElements() {
		if b.Counts[e] == 0 {
			missing = append(missing, e)
		}
	}
	return missing
}

// SajuChart is the result of one chart computation. It is built once by the
// engine and not modified afterwards.
type SajuChart struct {
	ID    string
	Query BirthQuery

	// SolarDate is the resolved Gregorian birth date (converted when the
	// query was lunar); BirthInstant adds the time used for cutover search.
	SolarDate    time.Time
	BirthInstant time.Time

	Year  Pillar
	Month Pillar
	Day   Pillar
	Hour  *Pillar

	Direction        vo.Direction
	CutoverAt        time.Time
	CutoverTerm      string
	FortuneStartAge  int
	FortuneStartYear int

	GreatFortunes []GreatFortune
	Balance       ElementBalance
	ComputedAt    time.Time
}

// DayMaster returns the day stem every ten star is measured against.
func (c *SajuChart) DayMaster() vo.Stem {
	return c.Day.Code.Stem()
}

// Pillars returns the pillars in year, month, day, hour order, omitting the
// hour when no birth time was supplied.
func (c *SajuChart) Pillars() []Pillar {
	pillars := []Pillar{c.Year, c.Month, c.Day}
	if c.Hour != nil {
		pillars = append(pillars, *c.Hour)
	}
	return pillars
}
