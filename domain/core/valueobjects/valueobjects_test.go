package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kimtaewoo9/mansereok/pkg/errors"
)

func TestStem_Attributes(t *testing.T) {
	assert.Equal(t, "甲", StemGap.Glyph())
	assert.Equal(t, Wood, StemGap.Element())
	assert.Equal(t, Yang, StemGap.Polarity())

	assert.Equal(t, "정", StemJeong.Korean())
	assert.Equal(t, Fire, StemJeong.Element())
	assert.Equal(t, Yin, StemJeong.Polarity())

	assert.Equal(t, Water, StemGye.Element())
	assert.Equal(t, Yin, StemGye.Polarity())

	for s := Stem(0); s < StemCount; s++ {
		want := Yang
		if s%2 == 1 {
			want = Yin
		}
		assert.Equal(t, want, s.Polarity(), "stem %s", s)
	}
}

func TestBranch_Attributes(t *testing.T) {
	tests := []struct {
		branch   Branch
		element  FiveElement
		polarity Polarity
	}{
		{BranchJa, Water, Yang},
		{BranchChuk, Earth, Yin},
		{BranchIn, Wood, Yang},
		{BranchMyo, Wood, Yin},
		{BranchSa, Fire, Yin},
		{BranchO, Fire, Yang},
		{BranchMi, Earth, Yin},
		{BranchYu, Metal, Yin},
		{BranchHae, Water, Yin},
	}

	for _, tt := range tests {
		t.Run(tt.branch.Glyph(), func(t *testing.T) {
			assert.Equal(t, tt.element, tt.branch.Element())
			assert.Equal(t, tt.polarity, tt.branch.Polarity())
		})
	}
}

func TestStemAndBranch_NextWraps(t *testing.T) {
	assert.Equal(t, StemGap, StemGye.Next(1))
	assert.Equal(t, StemGye, StemGap.Next(-1))
	assert.Equal(t, StemGap, StemGap.Next(-20))
	assert.Equal(t, BranchJa, BranchHae.Next(1))
	assert.Equal(t, BranchHae, BranchJa.Next(-1))
	assert.Equal(t, BranchIn, BranchIn.Next(24))
}

func TestParseStemAndBranch(t *testing.T) {
	s, err := ParseStem("壬")
	require.NoError(t, err)
	assert.Equal(t, StemIm, s)

	s, err = ParseStem("경")
	require.NoError(t, err)
	assert.Equal(t, StemGyeong, s)

	b, err := ParseBranch(" 亥 ")
	require.NoError(t, err)
	assert.Equal(t, BranchHae, b)

	b, err = ParseBranch("11")
	require.NoError(t, err)
	assert.Equal(t, BranchHae, b)

	_, err = ParseStem("X")
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = ParseBranch("12")
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestFiveElement_Cycles(t *testing.T) {
	assert.True(t, Wood.Generates(Fire))
	assert.True(t, Water.Generates(Wood))
	assert.False(t, Wood.Generates(Earth))
	assert.True(t, Wood.Controls(Earth))
	assert.True(t, Metal.Controls(Wood))
	assert.True(t, Water.Controls(Fire))
	assert.False(t, Fire.Controls(Water))
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		input   string
		want    Gender
		wantErr bool
	}{
		{"M", Male, false},
		{"male", Male, false},
		{"FEMALE", Female, false},
		{"f", Female, false},
		{"", Male, true},
		{"X", Male, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGender(tt.input)
			if tt.wantErr {
				assert.True(t, apperrors.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCalendarType(t *testing.T) {
	c, err := ParseCalendarType("L")
	require.NoError(t, err)
	assert.Equal(t, Lunar, c)

	c, err = ParseCalendarType("solar")
	require.NoError(t, err)
	assert.Equal(t, Solar, c)
	assert.Equal(t, "S", c.Code())

	_, err = ParseCalendarType("julian")
	assert.Error(t, err)
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("23:30")
	require.NoError(t, err)
	assert.True(t, tod.IsLateNight())
	assert.Equal(t, 1410, tod.MinuteOfDay())

	tod, err = ParseTimeOfDay("23:59:59")
	require.NoError(t, err)
	assert.True(t, tod.IsLateNight())

	tod, err = ParseTimeOfDay("23:29")
	require.NoError(t, err)
	assert.False(t, tod.IsLateNight())

	tod, err = ParseTimeOfDay("00:00")
	require.NoError(t, err)
	assert.False(t, tod.IsLateNight())

	_, err = ParseTimeOfDay("24:00")
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = NewTimeOfDay(12, 60, 0)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestParseLunarDate(t *testing.T) {
	d, err := ParseLunarDate("1987-01-16")
	require.NoError(t, err)
	assert.Equal(t, LunarDate{Year: 1987, Month: 1, Day: 16}, d)
	assert.Equal(t, "1987-01-16", d.String())

	d, err = ParseLunarDate("2023-02-30")
	require.NoError(t, err)
	assert.Equal(t, 30, d.Day)

	_, err = ParseLunarDate("2023-13-01")
	assert.Error(t, err)

	_, err = ParseLunarDate("2023-1-1")
	assert.Error(t, err)
}

func TestDirection_Step(t *testing.T) {
	assert.Equal(t, 1, Forward.Step())
	assert.Equal(t, -1, Backward.Step())
}
