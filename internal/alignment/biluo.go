package alignment

import (
	"errors"
	"fmt"
	"strings"

	"condition-ner/internal/core/types"
)

const (
	// MissingTag marks tokens inside an annotation that does not align to
	// token boundaries.
	MissingTag = "-"
	OutsideTag = "O"
)

var ErrOverlappingEntities = errors.New("overlapping entity offsets")

// Offset is a character (rune) offset annotation, End exclusive.
type Offset struct {
	Start int
	End   int
	Label string
}

// BILUOTagsFromOffsets encodes offsets as per-token BILUO tags. An annotation
// is tagged only when both its start and end fall on token boundaries; tokens
// touched by an unaligned annotation get MissingTag and tokens outside every
// annotation get missing.
func BILUOTagsFromOffsets(doc *types.Doc, offsets []Offset, missing string) ([]string, error) {
	starts := make(map[int]int, len(doc.Tokens))
	ends := make(map[int]int, len(doc.Tokens))
	for i, tok := range doc.Tokens {
		starts[tok.Start] = i
		ends[tok.End] = i
	}

	tags := make([]string, len(doc.Tokens))
	for i := range tags {
		tags[i] = MissingTag
	}

	covered := make(map[int]struct{})
	for _, off := range offsets {
		for c := off.Start; c < off.End; c++ {
			if _, ok := covered[c]; ok {
				return nil, fmt.Errorf("%w: [%d, %d, %s]", ErrOverlappingEntities, off.Start, off.End, off.Label)
			}
			covered[c] = struct{}{}
		}

		startTok, okStart := starts[off.Start]
		endTok, okEnd := ends[off.End]
		if !okStart || !okEnd {
			continue
		}
		if startTok == endTok {
			tags[startTok] = "U-" + off.Label
			continue
		}
		tags[startTok] = "B-" + off.Label
		for i := startTok + 1; i < endTok; i++ {
			tags[i] = "I-" + off.Label
		}
		tags[endTok] = "L-" + off.Label
	}

	for i, tok := range doc.Tokens {
		touched := false
		for c := tok.Start; c < tok.End; c++ {
			if _, ok := covered[c]; ok {
				touched = true
				break
			}
		}
		if !touched {
			tags[i] = missing
		}
	}

	return tags, nil
}

// SpansFromBILUO decodes BILUO tags into entities of doc.
func SpansFromBILUO(doc *types.Doc, tags []string) ([]types.Entity, error) {
	if len(tags) != len(doc.Tokens) {
		return nil, fmt.Errorf("got %d tags for %d tokens", len(tags), len(doc.Tokens))
	}

	var entities []types.Entity
	start := -1
	for i, tag := range tags {
		switch {
		case tag == "" || tag == MissingTag:
			continue
		case strings.HasPrefix(tag, "O"):
			start = -1
		case strings.HasPrefix(tag, "I-"):
			if start < 0 {
				return nil, fmt.Errorf("invalid BILUO sequence: %s without a preceding B tag at token %d", tag, i)
			}
		case strings.HasPrefix(tag, "U-"):
			entities = append(entities, doc.NewEntity(tag[2:], i, i+1))
		case strings.HasPrefix(tag, "B-"):
			start = i
		case strings.HasPrefix(tag, "L-"):
			if start < 0 {
				return nil, fmt.Errorf("invalid BILUO sequence: %s without a preceding B tag at token %d", tag, i)
			}
			entities = append(entities, doc.NewEntity(tag[2:], start, i+1))
			start = -1
		default:
			return nil, fmt.Errorf("invalid BILUO tag '%s' at token %d", tag, i)
		}
	}
	return entities, nil
}

// OffsetsFromEntities returns the character offsets of entities.
func OffsetsFromEntities(entities []types.Entity) []Offset {
	out := make([]Offset, len(entities))
	for i, e := range entities {
		out[i] = Offset{Start: e.StartChar, End: e.EndChar, Label: e.Label}
	}
	return out
}
