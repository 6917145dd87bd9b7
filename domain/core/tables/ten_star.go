// Package tables holds the fixed correspondences between stems, branches, the
// five elements and the ten stars. Every table is an array indexed by ordinal
// and is never written after initialization.
package tables

import (
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

// StemTenStar returns the ten star of target relative to the day stem.
func StemTenStar(day, target vo.Stem) vo.TenStar {
	return stemTenStar[day][target]
}

// BranchTenStar returns the ten star of target relative to the day stem.
func BranchTenStar(day vo.Stem, target vo.Branch) vo.TenStar {
	return branchTenStar[day][target]
}

// Branches are read through the stem they carry as principal qi:
// 子→癸 丑→己 寅→甲 卯→乙 辰→戊 巳→丙 午→丁 未→己 申→庚 酉→辛 戌→戊 亥→壬.
// 子, 巳, 午 and 亥 therefore take the polarity opposite to their own.

// stemTenStar[day][target] is the ten star of a stem seen from the day stem.
var stemTenStar = [vo.StemCount][vo.StemCount]vo.TenStar{
	// 甲
	{vo.Peer, vo.RobWealth, vo.EatingGod, vo.HurtingOfficer, vo.IndirectWealth, vo.DirectWealth, vo.SevenKillings, vo.DirectOfficer, vo.IndirectResource, vo.DirectResource},
	// 乙
	{vo.RobWealth, vo.Peer, vo.HurtingOfficer, vo.EatingGod, vo.DirectWealth, vo.IndirectWealth, vo.DirectOfficer, vo.SevenKillings, vo.DirectResource, vo.IndirectResource},
	// 丙
	{vo.IndirectResource, vo.DirectResource, vo.Peer, vo.RobWealth, vo.EatingGod, vo.HurtingOfficer, vo.IndirectWealth, vo.DirectWealth, vo.SevenKillings, vo.DirectOfficer},
	// 丁
	{vo.DirectResource, vo.IndirectResource, vo.RobWealth, vo.Peer, vo.HurtingOfficer, vo.EatingGod, vo.DirectWealth, vo.IndirectWealth, vo.DirectOfficer, vo.SevenKillings},
	// 戊
	{vo.SevenKillings, vo.DirectOfficer, vo.IndirectResource, vo.DirectResource, vo.Peer, vo.RobWealth, vo.EatingGod, vo.HurtingOfficer, vo.IndirectWealth, vo.DirectWealth},
	// 己
	{vo.DirectOfficer, vo.SevenKillings, vo.DirectResource, vo.IndirectResource, vo.RobWealth, vo.Peer, vo.HurtingOfficer, vo.EatingGod, vo.DirectWealth, vo.IndirectWealth},
	// 庚
	{vo.IndirectWealth, vo.DirectWealth, vo.SevenKillings, vo.DirectOfficer, vo.IndirectResource, vo.DirectResource, vo.Peer, vo.RobWealth, vo.EatingGod, vo.HurtingOfficer},
	// 辛
	{vo.DirectWealth, vo.IndirectWealth, vo.DirectOfficer, vo.SevenKillings, vo.DirectResource, vo.IndirectResource, vo.RobWealth, vo.Peer, vo.HurtingOfficer, vo.EatingGod},
	// 壬
	{vo.EatingGod, vo.HurtingOfficer, vo.IndirectWealth, vo.DirectWealth, vo.SevenKillings, vo.DirectOfficer, vo.IndirectResource, vo.DirectResource, vo.Peer, vo.RobWealth},
	// 癸
	{vo.HurtingOfficer, vo.EatingGod, vo.DirectWealth, vo.IndirectWealth, vo.DirectOfficer, vo.SevenKillings, vo.DirectResource, vo.IndirectResource, vo.RobWealth, vo.Peer},
}

// branchTenStar[day][target] is the ten star of a branch seen from the day stem.
var branchTenStar = [vo.StemCount][vo.BranchCount]vo.TenStar{
	// 甲
	{vo.DirectResource, vo.DirectWealth, vo.Peer, vo.RobWealth, vo.IndirectWealth, vo.EatingGod, vo.HurtingOfficer, vo.DirectWealth, vo.SevenKillings, vo.DirectOfficer, vo.IndirectWealth, vo.IndirectResource},
	// 乙
	{vo.IndirectResource, vo.IndirectWealth, vo.RobWealth, vo.Peer, vo.DirectWealth, vo.HurtingOfficer, vo.EatingGod, vo.IndirectWealth, vo.DirectOfficer, vo.SevenKillings, vo.DirectWealth, vo.DirectResource},
	// 丙
	{vo.DirectOfficer, vo.HurtingOfficer, vo.IndirectResource, vo.DirectResource, vo.EatingGod, vo.Peer, vo.RobWealth, vo.HurtingOfficer, vo.IndirectWealth, vo.DirectWealth, vo.EatingGod, vo.SevenKillings},
	// 丁
	{vo.SevenKillings, vo.EatingGod, vo.DirectResource, vo.IndirectResource, vo.HurtingOfficer, vo.RobWealth, vo.Peer, vo.EatingGod, vo.DirectWealth, vo.IndirectWealth, vo.HurtingOfficer, vo.DirectOfficer},
	// 戊
	{vo.DirectWealth, vo.RobWealth, vo.SevenKillings, vo.DirectOfficer, vo.Peer, vo.IndirectResource, vo.DirectResource, vo.RobWealth, vo.EatingGod, vo.HurtingOfficer, vo.Peer, vo.IndirectWealth},
	// 己
	{vo.IndirectWealth, vo.Peer, vo.DirectOfficer, vo.SevenKillings, vo.RobWealth, vo.DirectResource, vo.IndirectResource, vo.Peer, vo.HurtingOfficer, vo.EatingGod, vo.RobWealth, vo.DirectWealth},
	// 庚
	{vo.HurtingOfficer, vo.DirectResource, vo.IndirectWealth, vo.DirectWealth, vo.IndirectResource, vo.SevenKillings, vo.DirectOfficer, vo.DirectResource, vo.Peer, vo.RobWealth, vo.IndirectResource, vo.EatingGod},
	// 辛
	{vo.EatingGod, vo.IndirectResource, vo.DirectWealth, vo.IndirectWealth, vo.DirectResource, vo.DirectOfficer, vo.SevenKillings, vo.IndirectResource, vo.RobWealth, vo.Peer, vo.DirectResource, vo.HurtingOfficer},
	// 壬
	{vo.RobWealth, vo.DirectOfficer, vo.EatingGod, vo.HurtingOfficer, vo.SevenKillings, vo.IndirectWealth, vo.DirectWealth, vo.DirectOfficer, vo.IndirectResource, vo.DirectResource, vo.SevenKillings, vo.Peer},
	// 癸
	{vo.Peer, vo.SevenKillings, vo.HurtingOfficer, vo.EatingGod, vo.DirectOfficer, vo.DirectWealth, vo.IndirectWealth, vo.SevenKillings, vo.DirectResource, vo.IndirectResource, vo.DirectOfficer, vo.RobWealth},
}
