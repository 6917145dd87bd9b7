package valueobjects

// FiveElement is one of the five phases. Ordinals follow the generating cycle,
// so element e generates e+1 and controls e+2 (mod 5).
type FiveElement int

const (
	Wood FiveElement = iota
	Fire
	Earth
	Metal
	Water
)

// ElementCount is the number of five elements.
const ElementCount = 5

var elementNames = [ElementCount]string{"WOOD", "FIRE", "EARTH", "METAL", "WATER"}

var elementKorean = [ElementCount]string{"목", "화", "토", "금", "수"}

var elementGlyphs = [ElementCount]string{"木", "火", "土", "金", "水"}

// AllElements returns the five elements in generating order.
func AllElements() []FiveElement {
	return []FiveElement{Wood, Fire, Earth, Metal, Water}
}

func (e FiveElement) String() string { return elementNames[e] }

// Korean returns the Hangul name used in serialized charts (목, 화, ...).
func (e FiveElement) Korean() string { return elementKorean[e] }

// Glyph returns the Chinese character for the element.
func (e FiveElement) Glyph() string { return elementGlyphs[e] }

// IsValid reports whether the element ordinal is in range.
func (e FiveElement) IsValid() bool { return e >= Wood && e <= Water }

// Generates reports whether e feeds other in the generating cycle.
func (e FiveElement) Generates(other FiveElement) bool {
	return (int(e)+1)%ElementCount == int(other)
}

// Controls reports whether e restrains other in the controlling cycle.
func (e FiveElement) Controls(other FiveElement) bool {
	return (int(e)+2)%ElementCount == int(other)
}

// Polarity is the yin-yang affiliation of a stem or branch.
type Polarity int

const (
	Yang Polarity = iota
	Yin
)

func (p Polarity) String() string {
	if p == Yang {
		return "YANG"
	}
	return "YIN"
}

// Korean returns 양 or 음.
func (p Polarity) Korean() string {
	if p == Yang {
		return "양"
	}
	return "음"
}

// IsValid reports whether the polarity ordinal is in range.
func (p Polarity) IsValid() bool { return p == Yang || p == Yin }
