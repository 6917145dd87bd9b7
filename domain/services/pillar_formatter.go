package services

import (
	"github.com/kimtaewoo9/mansereok/domain/core/aggregates"
	"github.com/kimtaewoo9/mansereok/domain/core/tables"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

// FormatPillar annotates a stem-branch code relative to the day stem.
func FormatPillar(code vo.StemBranch, dayStem vo.Stem) aggregates.Pillar {
	return aggregates.Pillar{
		Code:   code,
		Stem:   FormatStem(code.Stem(), dayStem),
		Branch: FormatBranch(code.Branch(), dayStem),
	}
}

// FormatStem annotates a single stem.
func FormatStem(s, dayStem vo.Stem) aggregates.AnnotatedElement {
	return aggregates.AnnotatedElement{
		Glyph:    s.Glyph(),
		Korean:   s.Korean(),
		Ordinal:  s.Ordinal(),
		Element:  s.Element(),
		Polarity: s.Polarity(),
		TenStar:  tables.StemTenStar(dayStem, s),
		Color:    tables.ColorOf(s.Element()),
	}
}

// FormatBranch annotates a single branch, including its hidden stems.
func FormatBranch(b vo.Branch, dayStem vo.Stem) aggregates.AnnotatedElement {
	hidden := tables.HiddenStemsOf(b)
	return aggregates.AnnotatedElement{
		Glyph:       b.Glyph(),
		Korean:      b.Korean(),
		Ordinal:     b.Ordinal(),
		Element:     b.Element(),
		Polarity:    b.Polarity(),
		TenStar:     tables.BranchTenStar(dayStem, b),
		Color:       tables.ColorOf(b.Element()),
		HiddenStems: &hidden,
	}
}
