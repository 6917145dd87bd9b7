package services

import (
	"github.com/kimtaewoo9/mansereok/domain/core/aggregates"
)

// ElementBalanceOf counts every stem and branch of the given pillars by
// element. Hidden stems are not counted.
func ElementBalanceOf(pillars ...aggregates.Pillar) aggregates.ElementBalance {
	var balance aggregates.ElementBalance
	for _, p := range pillars {
		balance.Counts[p.Stem.Element]++
		balance.Counts[p.Branch.Element]++
		balance.Total += 2
	}
	return balance
}
