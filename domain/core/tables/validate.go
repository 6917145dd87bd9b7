package tables

import (
	"fmt"

	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	apperrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// hiddenStemDays is the sum of weights in every hidden-stem triplet.
const hiddenStemDays = 30

// Validate checks that every table row is complete. It is run once at startup
// and returns a CONFIGURATION error naming the first defective entry.
func Validate() error {
	for s := vo.Stem(0); s < vo.StemCount; s++ {
		if s.Glyph() == "" || s.Korean() == "" || !s.Element().IsValid() || !s.Polarity().IsValid() {
			return configErr("stem %d has incomplete attributes", s)
		}
		for t := vo.Stem(0); t < vo.StemCount; t++ {
			if !stemTenStar[s][t].IsValid() {
				return configErr("stem ten star [%s][%s] out of range", s, t)
			}
		}
		if stemTenStar[s][s] != vo.Peer {
			return configErr("day stem %s is not its own peer", s)
		}
		for b := vo.Branch(0); b < vo.BranchCount; b++ {
			if !branchTenStar[s][b].IsValid() {
				return configErr("branch ten star [%s][%s] out of range", s, b)
			}
		}
	}

	for b := vo.Branch(0); b < vo.BranchCount; b++ {
		if b.Glyph() == "" || b.Korean() == "" || !b.Element().IsValid() || !b.Polarity().IsValid() {
			return configErr("branch %d has incomplete attributes", b)
		}
		hs := hiddenStems[b]
		if !hs[2].Present {
			return configErr("branch %s has no principal hidden stem", b)
		}
		if hs.TotalRate() != hiddenStemDays {
			return configErr("branch %s hidden stem weights sum to %d", b, hs.TotalRate())
		}
		for i, slot := range hs {
			if slot.Present && (!slot.Stem.IsValid() || slot.Rate <= 0) {
				return configErr("branch %s hidden stem slot %d is malformed", b, i+1)
			}
		}
	}

	for g := 0; g < len(hourStems); g++ {
		for b := 0; b < vo.BranchCount; b++ {
			if !hourStems[g][b].IsValid() {
				return configErr("hour stem [%d][%d] out of range", g, b)
			}
		}
	}

	for _, e := range vo.AllElements() {
		if elementColors[e] == "" {
			return configErr("element %s has no colour", e)
		}
	}
	return nil
}

func configErr(format string, args ...interface{}) error {
	return apperrors.NewConfigurationError(fmt.Sprintf(format, args...))
}
