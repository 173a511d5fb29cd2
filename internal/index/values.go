package index

import (
	"sort"

	"github.com/starford/fmstat/internal/value"
)

// ValueCount is one distinct value of an attribute and how often it occurs.
type ValueCount struct {
	Value value.Canonical
	Count int
}

// ValueNotes is one distinct value of an attribute with the notes holding it.
// Count is the full number of notes even when Notes is truncated.
type ValueNotes struct {
	Value value.Canonical
	Count int
	Notes []string
}

// ValueCounts counts the distinct normalized values of attribute.
//
// With explode set, a sequence value contributes each of its elements instead
// of itself; null, "", empty sequence and empty mapping elements are skipped.
// Non-sequence values are counted whole either way.
//
// Results are sorted by count descending, ties in first-seen order, and cut
// to limit entries when limit > 0.
func (ix *Index) ValueCounts(attribute string, limit int, explode bool) []ValueCount {
	var out []ValueCount
	pos := make(map[value.Canonical]int)
	add := func(c value.Canonical) {
		if i, ok := pos[c]; ok {
			out[i].Count++
			return
		}
		pos[c] = len(out)
		out = append(out, ValueCount{Value: c, Count: 1})
	}

	for _, e := range ix.entries {
		raw, ok := e.fm.Lookup(attribute)
		if !ok {
			continue
		}
		if explode && raw.Kind() == value.KindSequence {
			for _, it := range raw.Items() {
				if c, ok := explodeElement(it); ok {
					add(c)
				}
			}
			continue
		}
		add(value.Normalize(raw))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ValueNotes groups notes by the whole normalized value of attribute.
// Groups are sorted by count descending, ties in first-seen order, and cut to
// limitValues groups; each group lists at most limitNotes notes. Limits <= 0
// mean no limit.
func (ix *Index) ValueNotes(attribute string, limitValues, limitNotes int) []ValueNotes {
	var out []ValueNotes
	pos := make(map[value.Canonical]int)
	for _, e := range ix.entries {
		raw, ok := e.fm.Lookup(attribute)
		if !ok {
			continue
		}
		c := value.Normalize(raw)
		i, ok := pos[c]
		if !ok {
			i = len(out)
			pos[c] = i
			out = append(out, ValueNotes{Value: c})
		}
		out[i].Count++
		if limitNotes <= 0 || len(out[i].Notes) < limitNotes {
			out[i].Notes = append(out[i].Notes, e.path)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limitValues > 0 && len(out) > limitValues {
		out = out[:limitValues]
	}
	return out
}

// explodeElement normalizes one list element, rejecting those that carry no
// information.
func explodeElement(v value.Value) (value.Canonical, bool) {
	if v.IsEmpty() {
		return value.Canonical{}, false
	}
	c := value.Normalize(v)
	if c.IsEmptyTuple() {
		return value.Canonical{}, false
	}
	return c, true
}
