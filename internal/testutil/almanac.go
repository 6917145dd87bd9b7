// Package testutil builds small, internally consistent almanac data sets for
// tests. Day pillars are exact; solar-term instants are rounded to the minute.
package testutil

import (
	"time"

	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

// Term is a month boundary and the pillars in force from it.
type Term struct {
	Name  string
	At    time.Time
	Year  string
	Month string
}

// Terms1987 covers December 1986 through May 1987, local time.
var Terms1987 = []Term{
	{"대설", at(1986, 12, 7, 19, 1), "丙寅", "庚子"},
	{"소한", at(1987, 1, 6, 6, 13), "丙寅", "辛丑"},
	{"입춘", at(1987, 2, 4, 18, 52), "丁卯", "壬寅"},
	{"경칩", at(1987, 3, 6, 12, 54), "丁卯", "癸卯"},
	{"청명", at(1987, 4, 5, 16, 44), "丁卯", "甲辰"},
	{"입하", at(1987, 5, 6, 10, 6), "丁卯", "乙巳"},
}

// lunarMonthStarts are the solar dates of the first day of each lunar month
// in range, with the lunar year and month they open.
var lunarMonthStarts = []struct {
	start       time.Time
	year, month int
}{
	{Date(1986, 12, 2), 1986, 11},
	{Date(1986, 12, 31), 1986, 12},
	{Date(1987, 1, 29), 1987, 1},
	{Date(1987, 2, 28), 1987, 2},
	{Date(1987, 3, 29), 1987, 3},
	{Date(1987, 4, 28), 1987, 4},
	{Date(1987, 5, 27), 1987, 5},
}

// Start and End bound the generated range, inclusive.
var (
	Start = Date(1986, 12, 7)
	End   = Date(1987, 5, 31)
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

// Date returns midnight UTC of a civil date.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Records1987 returns one record per day from Start to End.
func Records1987() []*entities.AlmanacRecord {
	var records []*entities.AlmanacRecord
	for d := Start; !d.After(End); d = d.AddDate(0, 0, 1) {
		records = append(records, Record(d))
	}
	return records
}

// Record builds the record of a single date in range.
func Record(d time.Time) *entities.AlmanacRecord {
	var term Term
	for _, t := range Terms1987 {
		if !vo.DateOf(t.At).After(d) {
			term = t
		}
	}

	r := &entities.AlmanacRecord{
		SolarDate: d,
		LunarDate: lunarOf(d),
		Year:      mustCode(term.Year),
		Month:     mustCode(term.Month),
		Day:       vo.DayStemBranch(d),
	}
	if vo.DateOf(term.At).Equal(d) {
		cut := term.At
		r.CutoverAt = &cut
		r.SolarTerm = term.Name
	}
	return r
}

func lunarOf(d time.Time) vo.LunarDate {
	var ld vo.LunarDate
	for _, m := range lunarMonthStarts {
		if !m.start.After(d) {
			days := int(d.Sub(m.start).Hours() / 24)
			ld = vo.LunarDate{Year: m.year, Month: m.month, Day: days + 1}
		}
	}
	return ld
}

func mustCode(s string) vo.StemBranch {
	code, err := vo.ParseStemBranch(s)
	if err != nil {
		panic(err)
	}
	return code
}
