package valueobjects

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	apperrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// CycleLength is the period of the sexagenary cycle.
const CycleLength = 60

// dayCycleEpoch is 1900-01-01, a 甲戌 day (cycle index 10).
var dayCycleEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

const dayCycleEpochIndex = 10

// StemBranch is a sexagenary code: a stem paired with a branch of the same
// parity. Only 60 of the 120 combinations exist.
type StemBranch struct {
	stem   Stem
	branch Branch
}

// NewStemBranch pairs a stem and a branch, rejecting mixed-parity pairs.
func NewStemBranch(stem Stem, branch Branch) (StemBranch, error) {
	if !stem.IsValid() || !branch.IsValid() {
		return StemBranch{}, apperrors.NewInvalidInputError(
			fmt.Sprintf("stem %d / branch %d out of range", stem, branch))
	}
	if int(stem)%2 != int(branch)%2 {
		return StemBranch{}, apperrors.NewInvalidInputError(
			fmt.Sprintf("%s%s is not a sexagenary pair", stem.Glyph(), branch.Glyph()))
	}
	return StemBranch{stem: stem, branch: branch}, nil
}

// MustStemBranch is NewStemBranch for literals known to be valid.
func MustStemBranch(stem Stem, branch Branch) StemBranch {
	sb, err := NewStemBranch(stem, branch)
	if err != nil {
		panic(err)
	}
	return sb
}

// FromCycleIndex returns the code at position i (taken mod 60).
func FromCycleIndex(i int) StemBranch {
	i = mod(i, CycleLength)
	return StemBranch{stem: Stem(i % StemCount), branch: Branch(i % BranchCount)}
}

// ParseStemBranch parses a two-character code such as "甲子" or "갑자".
func ParseStemBranch(s string) (StemBranch, error) {
	if utf8.RuneCountInString(s) != 2 {
		return StemBranch{}, apperrors.NewInvalidInputError(fmt.Sprintf("malformed sexagenary code %q", s))
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return StemBranch{}, apperrors.NewInvalidInputError(fmt.Sprintf("malformed sexagenary code %q", s))
	}
	stem, err := ParseStem(s[:size])
	if err != nil {
		return StemBranch{}, err
	}
	branch, err := ParseBranch(s[size:])
	if err != nil {
		return StemBranch{}, err
	}
	return NewStemBranch(stem, branch)
}

// YearStemBranch returns the code of a lunisolar year counted from 立春.
// Year 4 CE is 甲子.
func YearStemBranch(year int) StemBranch {
	return FromCycleIndex(year - 4)
}

// DayStemBranch returns the code of a civil day. Only the date part of d is used.
func DayStemBranch(d time.Time) StemBranch {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	days := int(day.Sub(dayCycleEpoch).Hours() / 24)
	return FromCycleIndex(dayCycleEpochIndex + days)
}

func (sb StemBranch) Stem() Stem { return sb.stem }

func (sb StemBranch) Branch() Branch { return sb.branch }

// Index returns the 0-based position in the 60-cycle (甲子 = 0, 癸亥 = 59).
func (sb StemBranch) Index() int {
	return mod(6*int(sb.stem)-5*int(sb.branch), CycleLength)
}

// Next steps n positions along the 60-cycle; n may be negative.
func (sb StemBranch) Next(n int) StemBranch {
	return FromCycleIndex(sb.Index() + n)
}

// Glyph returns the two-character Chinese code.
func (sb StemBranch) Glyph() string { return sb.stem.Glyph() + sb.branch.Glyph() }

// Korean returns the two-syllable Hangul name.
func (sb StemBranch) Korean() string { return sb.stem.Korean() + sb.branch.Korean() }

func (sb StemBranch) String() string { return sb.Glyph() }

// Equals reports whether both codes are the same.
func (sb StemBranch) Equals(other StemBranch) bool {
	return sb.stem == other.stem && sb.branch == other.branch
}

// MarshalJSON implements json.Marshaler
func (sb StemBranch) MarshalJSON() ([]byte, error) {
	return json.Marshal(sb.Glyph())
}

// UnmarshalJSON implements json.Unmarshaler
func (sb *StemBranch) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseStemBranch(s)
	if err != nil {
		return err
	}
	*sb = parsed
	return nil
}
