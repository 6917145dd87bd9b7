package valueobjects

import (
	"fmt"
	"strings"

	apperrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// Gender of the chart subject.
type Gender int

const (
	Male Gender = iota
	Female
)

// ParseGender accepts the stored codes M/F and the API names MALE/FEMALE.
func ParseGender(s string) (Gender, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M", "MALE":
		return Male, nil
	case "F", "FEMALE":
		return Female, nil
	}
	return 0, apperrors.NewInvalidInputError(fmt.Sprintf("unknown gender %q", s))
}

func (g Gender) String() string {
	if g == Male {
		return "MALE"
	}
	return "FEMALE"
}

// Code returns the single-letter storage code.
func (g Gender) Code() string {
	if g == Male {
		return "M"
	}
	return "F"
}

// CalendarType says which calendar a birth date was given in.
type CalendarType int

const (
	Solar CalendarType = iota
	Lunar
)

// ParseCalendarType accepts S/L and SOLAR/LUNAR.
func ParseCalendarType(s string) (CalendarType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "S", "SOLAR":
		return Solar, nil
	case "L", "LUNAR":
		return Lunar, nil
	}
	return 0, apperrors.NewInvalidInputError(fmt.Sprintf("unknown calendar type %q", s))
}

func (c CalendarType) String() string {
	if c == Solar {
		return "SOLAR"
	}
	return "LUNAR"
}

func (c CalendarType) Code() string {
	if c == Solar {
		return "S"
	}
	return "L"
}
