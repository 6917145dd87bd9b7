package valueobjects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

func TestStemBranch_CycleIndexRoundTrip(t *testing.T) {
	for i := 0; i < CycleLength; i++ {
		sb := FromCycleIndex(i)
		assert.Equal(t, i, sb.Index(), "index %d", i)
		assert.Equal(t, int(sb.Stem())%2, int(sb.Branch())%2, "parity at %d", i)
	}
}

func TestStemBranch_Periodicity(t *testing.T) {
	start := MustStemBranch(StemByeong, BranchIn)

	for n := -130; n <= 130; n++ {
		assert.True(t, start.Next(n).Equals(start.Next(n+CycleLength)), "n=%d", n)
		assert.Equal(t, start.Stem().Next(n), start.Next(n).Stem())
		assert.Equal(t, start.Branch().Next(n), start.Next(n).Branch())
	}
	assert.True(t, start.Next(CycleLength).Equals(start))
}

func TestStemBranch_KnownIndices(t *testing.T) {
	tests := []struct {
		glyph string
		index int
	}{
		{"甲子", 0},
		{"乙丑", 1},
		{"甲戌", 10},
		{"丁卯", 3},
		{"癸巳", 29},
		{"戊午", 54},
		{"癸亥", 59},
	}

	for _, tt := range tests {
		t.Run(tt.glyph, func(t *testing.T) {
			sb, err := ParseStemBranch(tt.glyph)
			require.NoError(t, err)
			assert.Equal(t, tt.index, sb.Index())
			assert.Equal(t, tt.glyph, FromCycleIndex(tt.index).Glyph())
		})
	}
}

func TestStemBranch_RejectsMixedParity(t *testing.T) {
	_, err := NewStemBranch(StemGap, BranchChuk)
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = ParseStemBranch("甲丑")
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = ParseStemBranch("甲")
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestStemBranch_ParseKorean(t *testing.T) {
	sb, err := ParseStemBranch("계사")
	require.NoError(t, err)
	assert.Equal(t, "癸巳", sb.Glyph())
	assert.Equal(t, "계사", sb.Korean())
}

func TestYearStemBranch(t *testing.T) {
	assert.Equal(t, "甲子", YearStemBranch(4).Glyph())
	assert.Equal(t, "甲子", YearStemBranch(1984).Glyph())
	assert.Equal(t, "丁卯", YearStemBranch(1987).Glyph())
	assert.Equal(t, "庚辰", YearStemBranch(2000).Glyph())
	assert.Equal(t, "甲辰", YearStemBranch(2024).Glyph())
}

func TestDayStemBranch(t *testing.T) {
	tests := []struct {
		date  string
		glyph string
	}{
		{"1900-01-01", "甲戌"},
		{"2000-01-01", "戊午"},
		{"1987-02-03", "癸未"},
		{"1987-02-04", "甲申"},
		{"1987-02-13", "癸巳"},
		{"1987-02-14", "甲午"},
		{"1899-12-31", "癸酉"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := time.Parse(DateLayout, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.glyph, DayStemBranch(d).Glyph())
		})
	}
}

func TestStemBranch_JSON(t *testing.T) {
	sb := MustStemBranch(StemJeong, BranchMyo)
	data, err := sb.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"丁卯"`, string(data))

	var decoded StemBranch
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.True(t, sb.Equals(decoded))
}
