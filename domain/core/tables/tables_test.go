package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

// relation derives a ten star from the element cycle and polarity.
func relation(dayElem, targetElem vo.FiveElement, samePolarity bool) vo.TenStar {
	var base vo.TenStar
	switch {
	case dayElem == targetElem:
		base = vo.Peer
	case dayElem.Generates(targetElem):
		base = vo.EatingGod
	case dayElem.Controls(targetElem):
		base = vo.IndirectWealth
	case targetElem.Controls(dayElem):
		base = vo.SevenKillings
	default:
		base = vo.IndirectResource
	}
	if samePolarity {
		return base
	}
	return base + 1
}

var principalStem = [vo.BranchCount]vo.Stem{
	vo.StemGye, vo.StemGi, vo.StemGap, vo.StemEul, vo.StemMu, vo.StemByeong,
	vo.StemJeong, vo.StemGi, vo.StemGyeong, vo.StemSin, vo.StemMu, vo.StemIm,
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate())
}

func TestStemTenStar_MatchesElementRelations(t *testing.T) {
	for d := vo.Stem(0); d < vo.StemCount; d++ {
		for s := vo.Stem(0); s < vo.StemCount; s++ {
			want := relation(d.Element(), s.Element(), d.Polarity() == s.Polarity())
			assert.Equal(t, want, StemTenStar(d, s), "day %s target %s", d, s)
		}
	}
}

func TestBranchTenStar_MatchesPrincipalStem(t *testing.T) {
	for d := vo.Stem(0); d < vo.StemCount; d++ {
		for b := vo.Branch(0); b < vo.BranchCount; b++ {
			p := principalStem[b]
			assert.Equal(t, p.Element(), b.Element(), "branch %s", b)
			want := relation(d.Element(), p.Element(), d.Polarity() == p.Polarity())
			assert.Equal(t, want, BranchTenStar(d, b), "day %s target %s", d, b)
		}
	}
}

func TestTenStar_DayStemIsPeer(t *testing.T) {
	for d := vo.Stem(0); d < vo.StemCount; d++ {
		assert.Equal(t, vo.Peer, StemTenStar(d, d))
	}
}

func TestTenStar_KnownValues(t *testing.T) {
	assert.Equal(t, vo.IndirectWealth, StemTenStar(vo.StemGye, vo.StemJeong))
	assert.Equal(t, vo.RobWealth, StemTenStar(vo.StemGye, vo.StemIm))
	assert.Equal(t, vo.SevenKillings, StemTenStar(vo.StemGye, vo.StemGi))
	assert.Equal(t, vo.EatingGod, BranchTenStar(vo.StemGye, vo.BranchMyo))
	assert.Equal(t, vo.HurtingOfficer, BranchTenStar(vo.StemGye, vo.BranchIn))
	assert.Equal(t, vo.DirectWealth, BranchTenStar(vo.StemGye, vo.BranchSa))
	assert.Equal(t, vo.DirectOfficer, BranchTenStar(vo.StemGap, vo.BranchYu))
	assert.Equal(t, "정인", StemTenStar(vo.StemGap, vo.StemGye).Korean())
}

func TestHourStems_Formula(t *testing.T) {
	for d := vo.Stem(0); d < vo.StemCount; d++ {
		group := int(d) % 5
		for b := vo.Branch(0); b < vo.BranchCount; b++ {
			want := vo.Stem((2*group + int(b)) % vo.StemCount)
			assert.Equal(t, want, HourStem(d, b), "day %s branch %s", d, b)
		}
	}
	assert.Equal(t, vo.StemGap, HourStem(vo.StemGap, vo.BranchJa))
	assert.Equal(t, vo.StemGi, HourStem(vo.StemGye, vo.BranchMi))
	assert.Equal(t, vo.StemIm, HourStem(vo.StemMu, vo.BranchJa))
}

func TestHiddenStems_Fidelity(t *testing.T) {
	tests := []struct {
		branch vo.Branch
		want   vo.HiddenStems
	}{
		{vo.BranchJa, vo.HiddenStems{
			{Stem: vo.StemIm, Rate: 10, Present: true},
			{},
			{Stem: vo.StemGye, Rate: 20, Present: true},
		}},
		{vo.BranchO, vo.HiddenStems{
			{Stem: vo.StemByeong, Rate: 10, Present: true},
			{Stem: vo.StemGi, Rate: 10, Present: true},
			{Stem: vo.StemJeong, Rate: 10, Present: true},
		}},
		{vo.BranchHae, vo.HiddenStems{
			{Stem: vo.StemMu, Rate: 7, Present: true},
			{Stem: vo.StemGap, Rate: 7, Present: true},
			{Stem: vo.StemIm, Rate: 16, Present: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.branch.Glyph(), func(t *testing.T) {
			assert.Equal(t, tt.want, HiddenStemsOf(tt.branch))
		})
	}

	for b := vo.Branch(0); b < vo.BranchCount; b++ {
		hs := HiddenStemsOf(b)
		assert.Equal(t, principalStem[b], hs[2].Stem, "principal qi of %s", b)
		if b == vo.BranchJa || b == vo.BranchMyo || b == vo.BranchYu {
			assert.Equal(t, 2, hs.Count(), "%s", b)
			assert.False(t, hs[1].Present)
			assert.Zero(t, hs[1].Stem)
		} else {
			assert.Equal(t, 3, hs.Count(), "%s", b)
		}
	}
}

func TestColorOf(t *testing.T) {
	assert.Equal(t, "#4CAF50", ColorOf(vo.Wood))
	assert.Equal(t, "#039BE5", ColorOf(vo.Water))
}

func TestLookups_PanicOutOfRange(t *testing.T) {
	assert.Panics(t, func() { StemTenStar(vo.Stem(10), vo.StemGap) })
	assert.Panics(t, func() { HiddenStemsOf(vo.Branch(12)) })
}
