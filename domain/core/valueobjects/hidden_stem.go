package valueobjects

// HiddenStem is one weighted slot of a branch's hidden-stem triplet.
type HiddenStem struct {
	Stem    Stem
	Rate    int
	Present bool
}

// HiddenStems holds the first, second and third slots in that order. An absent
// slot has Present false and is never filled in.
type HiddenStems [3]HiddenStem

// Count returns the number of present slots.
func (h HiddenStems) Count() int {
	n := 0
	for _, slot := range h {
		if slot.Present {
			n++
		}
	}
	return n
}

// TotalRate sums the weights of the present slots.
func (h HiddenStems) TotalRate() int {
	total := 0
	for _, slot := range h {
		if slot.Present {
			total += slot.Rate
		}
	}
	return total
}
