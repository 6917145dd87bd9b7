package valueobjects

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

// Branch is an earthly branch, ordinal 0 (子) through 11 (亥).
type Branch int

const (
	BranchJa Branch = iota
	BranchChuk
	BranchIn
	BranchMyo
	BranchJin
	BranchSa
	BranchO
	BranchMi
	BranchSin
	BranchYu
	BranchSul
	BranchHae
)

// BranchCount is the size of the branch cycle.
const BranchCount = 12

var branchGlyphs = [BranchCount]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

var branchKorean = [BranchCount]string{"자", "축", "인", "묘", "진", "사", "오", "미", "신", "유", "술", "해"}

var branchElements = [BranchCount]FiveElement{
	Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water,
}

var branchPolarities = [BranchCount]Polarity{
	Yang, Yin, Yang, Yin, Yang, Yin, Yang, Yin, Yang, Yin, Yang, Yin,
}

// ParseBranch accepts a glyph (子), a Korean name (자) or an ordinal ("0").
func ParseBranch(s string) (Branch, error) {
	s = strings.TrimSpace(s)
	for i := 0; i < BranchCount; i++ {
		if s == branchGlyphs[i] || s == branchKorean[i] {
			return Branch(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < BranchCount {
		return Branch(n), nil
	}
	return 0, apperrors.NewInvalidInputError(fmt.Sprintf("unknown branch %q", s))
}

func (b Branch) Ordinal() int { return int(b) }

func (b Branch) IsValid() bool { return b >= 0 && b < BranchCount }

func (b Branch) Glyph() string { return branchGlyphs[b] }

func (b Branch) Korean() string { return branchKorean[b] }

func (b Branch) Element() FiveElement { return branchElements[b] }

func (b Branch) Polarity() Polarity { return branchPolarities[b] }

// Next steps n positions along the cycle; n may be negative.
func (b Branch) Next(n int) Branch {
	return Branch(mod(int(b)+n, BranchCount))
}

func (b Branch) String() string { return b.Glyph() }
