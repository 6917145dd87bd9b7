package services

import (
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

// ResolveDirection decides which way the Great Fortune runs. A yang year for a
// man or a yin year for a woman runs forward; every other case runs backward.
// This is the only place the rule is expressed.
func ResolveDirection(gender vo.Gender, yearStemPolarity vo.Polarity) vo.Direction {
	if (gender == vo.Male && yearStemPolarity == vo.Yang) ||
		(gender == vo.Female && yearStemPolarity == vo.Yin) {
		return vo.Forward
	}
	return vo.Backward
}
