package tables

import (
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

// hourStems[group][branch] gives the stem of a two-hour period, where group is
// the day stem ordinal mod 5.
var hourStems = [5][vo.BranchCount]vo.Stem{
	// 甲己 day: 甲乙丙丁戊己庚辛壬癸甲乙
	{vo.StemGap, vo.StemEul, vo.StemByeong, vo.StemJeong, vo.StemMu, vo.StemGi, vo.StemGyeong, vo.StemSin, vo.StemIm, vo.StemGye, vo.StemGap, vo.StemEul},
	// 乙庚 day: 丙丁戊己庚辛壬癸甲乙丙丁
	{vo.StemByeong, vo.StemJeong, vo.StemMu, vo.StemGi, vo.StemGyeong, vo.StemSin, vo.StemIm, vo.StemGye, vo.StemGap, vo.StemEul, vo.StemByeong, vo.StemJeong},
	// 丙辛 day: 戊己庚辛壬癸甲乙丙丁戊己
	{vo.StemMu, vo.StemGi, vo.StemGyeong, vo.StemSin, vo.StemIm, vo.StemGye, vo.StemGap, vo.StemEul, vo.StemByeong, vo.StemJeong, vo.StemMu, vo.StemGi},
	// 丁壬 day: 庚辛壬癸甲乙丙丁戊己庚辛
	{vo.StemGyeong, vo.StemSin, vo.StemIm, vo.StemGye, vo.StemGap, vo.StemEul, vo.StemByeong, vo.StemJeong, vo.StemMu, vo.StemGi, vo.StemGyeong, vo.StemSin},
	// 戊癸 day: 壬癸甲乙丙丁戊己庚辛壬癸
	{vo.StemIm, vo.StemGye, vo.StemGap, vo.StemEul, vo.StemByeong, vo.StemJeong, vo.StemMu, vo.StemGi, vo.StemGyeong, vo.StemSin, vo.StemIm, vo.StemGye},
}

// HourStem returns the stem of the hour whose branch is b on a day with the
// given day stem.
func HourStem(day vo.Stem, b vo.Branch) vo.Stem {
	return hourStems[int(day)%5][b]
}
