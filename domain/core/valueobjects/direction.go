package valueobjects

// Direction is the way the Great Fortune sequence walks the 60-cycle.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Step returns +1 for Forward and -1 for Backward.
func (d Direction) Step() int {
	if d == Forward {
		return 1
	}
	return -1
}

func (d Direction) String() string {
	if d == Forward {
		return "FORWARD"
	}
	return "BACKWARD"
}
