package patterns

import (
	"sort"

	"condition-ner/internal/core/types"
)

// EntityRuler turns matcher output into non-overlapping document entities.
type EntityRuler struct {
	matcher   *Matcher
	overwrite bool
}

func NewEntityRuler(matcher *Matcher, overwrite bool) *EntityRuler {
	return &EntityRuler{matcher: matcher, overwrite: overwrite}
}

// Apply adds matched entities to doc. Longer matches win; among matches of
// equal length the later one wins. When overwrite is set, existing entities
// overlapping a new match are removed, otherwise such matches are skipped.
func (r *EntityRuler) Apply(doc *types.Doc) {
	matches := r.matcher.Match(doc)

	sort.SliceStable(matches, func(i, j int) bool {
		li, lj := matches[i].End-matches[i].Start, matches[j].End-matches[j].Start
		if li != lj {
			return li > lj
		}
		return matches[i].Start > matches[j].Start
	})

	entities := doc.Entities
	var added []types.Entity
	taken := make(map[int]struct{})

	for _, m := range matches {
		candidate := types.Entity{Start: m.Start, End: m.End}

		if !r.overwrite && overlapsAny(candidate, entities) {
			continue
		}

		free := true
		for i := m.Start; i < m.End; i++ {
			if _, ok := taken[i]; ok {
				free = false
				break
			}
		}
		if !free {
			continue
		}

		added = append(added, doc.NewEntity(m.Label, m.Start, m.End))
		entities = removeOverlapping(entities, candidate)
		for i := m.Start; i < m.End; i++ {
			taken[i] = struct{}{}
		}
	}

	entities = append(entities, added...)
	sort.Slice(entities, func(i, j int) bool { return entities[i].Start < entities[j].Start })
	doc.Entities = entities
}

func overlapsAny(ent types.Entity, entities []types.Entity) bool {
	for _, other := range entities {
		if ent.Overlaps(other) {
			return true
		}
	}
	return false
}

func removeOverlapping(entities []types.Entity, ent types.Entity) []types.Entity {
	out := entities[:0:0]
	for _, other := range entities {
		if !ent.Overlaps(other) {
			out = append(out, other)
		}
	}
	return out
}
