package tables

import (
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

func slot(s vo.Stem, rate int) vo.HiddenStem {
	return vo.HiddenStem{Stem: s, Rate: rate, Present: true}
}

var absent = vo.HiddenStem{}

// hiddenStems[branch] lists the residual, middle and principal qi of each
// branch with their day weights.
var hiddenStems = [vo.BranchCount]vo.HiddenStems{
	{slot(vo.StemIm, 10), absent, slot(vo.StemGye, 20)},                    // 子
	{slot(vo.StemGye, 9), slot(vo.StemSin, 3), slot(vo.StemGi, 18)},        // 丑
	{slot(vo.StemMu, 7), slot(vo.StemByeong, 7), slot(vo.StemGap, 16)},     // 寅
	{slot(vo.StemGap, 10), absent, slot(vo.StemEul, 20)},                   // 卯
	{slot(vo.StemEul, 9), slot(vo.StemGye, 3), slot(vo.StemMu, 18)},        // 辰
	{slot(vo.StemMu, 7), slot(vo.StemGyeong, 7), slot(vo.StemByeong, 16)},  // 巳
	{slot(vo.StemByeong, 10), slot(vo.StemGi, 10), slot(vo.StemJeong, 10)}, // 午
	{slot(vo.StemJeong, 9), slot(vo.StemEul, 3), slot(vo.StemGi, 18)},      // 未
	{slot(vo.StemMu, 7), slot(vo.StemIm, 7), slot(vo.StemGyeong, 16)},      // 申
	{slot(vo.StemGyeong, 10), absent, slot(vo.StemSin, 20)},                // 酉
	{slot(vo.StemSin, 9), slot(vo.StemJeong, 3), slot(vo.StemMu, 18)},      // 戌
	{slot(vo.StemMu, 7), slot(vo.StemGap, 7), slot(vo.StemIm, 16)},         // 亥
}

// HiddenStemsOf returns the branch's intrinsic hidden-stem triplet.
func HiddenStemsOf(b vo.Branch) vo.HiddenStems {
	return hiddenStems[b]
}
