package types

import (
	"strings"
)

const contextLength = 20

// Entity is a labeled span of a Doc. Start/End are token indices (End is
// exclusive), StartChar/EndChar are rune offsets into the document text.
type Entity struct {
	Label     string
	Text      string
	Start     int
	End       int
	StartChar int
	EndChar   int
	LContext  string
	RContext  string
}

func (e Entity) Len() int {
	return e.End - e.Start
}

func (e Entity) Overlaps(other Entity) bool {
	return e.Start < other.End && other.Start < e.End
}

func CreateEntityWithRune(label string, runes []rune, startChar, endChar, startToken, endToken int) Entity {
	if startChar < 0 {
		startChar = 0
	}
	if endChar > len(runes) {
		endChar = len(runes)
	}

	leftStart := max(0, startChar-contextLength)
	rightEnd := min(len(runes), endChar+contextLength)

	return Entity{
		Label:     label,
		Text:      strings.ToValidUTF8(string(runes[startChar:endChar]), ""),
		Start:     startToken,
		End:       endToken,
		StartChar: startChar,
		EndChar:   endChar,
		LContext:  strings.ToValidUTF8(string(runes[leftStart:startChar]), ""),
		RContext:  strings.ToValidUTF8(string(runes[endChar:rightEnd]), ""),
	}
}
