package aggregates

import (
	"time"

	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	pkgerrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// BirthQuery describes a birth moment as entered by a user. Exactly one of
// SolarDate and LunarDate is meaningful, chosen by IsLunar.
type BirthQuery struct {
	SolarDate time.Time
	LunarDate vo.LunarDate
	Time      *vo.TimeOfDay
	Gender    vo.Gender
	IsLunar   bool
}

// NewSolarBirthQuery builds a query for a Gregorian birth date. tod may be nil
// when the time of birth is unknown.
func NewSolarBirthQuery(date time.Time, tod *vo.TimeOfDay, gender vo.Gender) (BirthQuery, error) {
	q := BirthQuery{SolarDate: vo.DateOf(date), Time: tod, Gender: gender}
	return q, q.Validate()
}

// NewLunarBirthQuery builds a query for a lunar birth date.
func NewLunarBirthQuery(date vo.LunarDate, tod *vo.TimeOfDay, gender vo.Gender) (BirthQuery, error) {
	q := BirthQuery{LunarDate: date, Time: tod, Gender: gender, IsLunar: true}
	return q, q.Validate()
}

// Validate checks that the query names a date in the calendar it claims.
func (q BirthQuery) Validate() error {
	if q.IsLunar {
		if q.LunarDate.IsZero() {
			return pkgerrors.NewInvalidInputError("lunar birth date is required")
		}
	} else if q.SolarDate.IsZero() {
		return pkgerrors.NewInvalidInputError("solar birth date is required")
	}
	if q.Gender != vo.Male && q.Gender != vo.Female {
		return pkgerrors.NewInvalidInputError("gender must be MALE or FEMALE")
	}
	return nil
}

// HasTime reports whether a time of birth was supplied.
func (q BirthQuery) HasTime() bool { return q.Time != nil }

// TimeOrNoon returns the supplied time, or 12:00 when none was given.
func (q BirthQuery) TimeOrNoon() vo.TimeOfDay {
	if q.Time == nil {
		return vo.Noon()
	}
	return *q.Time
}

// CalendarType reports which calendar the date was entered in.
func (q BirthQuery) CalendarType() vo.CalendarType {
	if q.IsLunar {
		return vo.Lunar
	}
	return vo.Solar
}
