package valueobjects

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// Stem is a heavenly stem, ordinal 0 (甲) through 9 (癸).
type Stem int

const (
	StemGap Stem = iota
	StemEul
	StemByeong
	StemJeong
	StemMu
	StemGi
	StemGyeong
	StemSin
	StemIm
	StemGye
)

// StemCount is the size of the stem cycle.
const StemCount = 10

var stemGlyphs = [StemCount]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

var stemKorean = [StemCount]string{"갑", "을", "병", "정", "무", "기", "경", "신", "임", "계"}

var stemElements = [StemCount]FiveElement{Wood, Wood, Fire, Fire, Earth, Earth, Metal, Metal, Water, Water}

var stemPolarities = [StemCount]Polarity{Yang, Yin, Yang, Yin, Yang, Yin, Yang, Yin, Yang, Yin}

// ParseStem accepts a glyph (甲), a Korean name (갑) or an ordinal ("0").
func ParseStem(s string) (Stem, error) {
	s = strings.TrimSpace(s)
	for i := 0; i < StemCount; i++ {
		if s == stemGlyphs[i] || s == stemKorean[i] {
			return Stem(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < StemCount {
		return Stem(n), nil
	}
	return 0, apperrors.NewInvalidInputError(fmt.Sprintf("unknown stem %q", s))
}

// Ordinal returns the 0-based position in the stem cycle.
func (s Stem) Ordinal() int { return int(s) }

// IsValid reports whether the ordinal is in range.
func (s Stem) IsValid() bool { return s >= 0 && s < StemCount }

func (s Stem) Glyph() string { return stemGlyphs[s] }

func (s Stem) Korean() string { return stemKorean[s] }

func (s Stem) Element() FiveElement { return stemElements[s] }

func (s Stem) Polarity() Polarity { return stemPolarities[s] }

// Next steps n positions along the cycle; n may be negative.
func (s Stem) Next(n int) Stem {
	return Stem(mod(int(s)+n, StemCount))
}

func (s Stem) String() string { return s.Glyph() }

func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
