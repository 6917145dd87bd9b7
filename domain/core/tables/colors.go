package tables

import (
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
)

var elementColors = [vo.ElementCount]string{
	vo.Wood:  "#4CAF50",
	vo.Fire:  "#F44336",
	vo.Earth: "#FFD600",
	vo.Metal: "#E0E0E0",
	vo.Water: "#039BE5",
}

// ColorOf returns the display colour consumers use for an element.
func ColorOf(e vo.FiveElement) string {
	return elementColors[e]
}
