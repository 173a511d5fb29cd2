package index

import (
	"sort"

	"github.com/starford/fmstat/internal/value"
)

// HubCount is the child count breakdown of one hub value.
type HubCount struct {
	Hub    value.Canonical
	Parent int // notes whose parent attribute equals the hub
	Refs   int // notes whose refs list holds the hub
	Total  int
}

// ChildCount returns how many notes point at hub: the notes whose
// parentAttribute value normalizes to hub, plus the notes whose
// refsAttribute sequence holds an element normalizing to hub. A note that
// does both counts twice. The hub must be given in its stored form, e.g. the
// exact "[[Note]]" token.
func (ix *Index) ChildCount(hub value.Value, parentAttribute, refsAttribute string) int {
	target := value.Normalize(hub)
	n := 0
	for _, e := range ix.entries {
		if p, ok := e.fm.Lookup(parentAttribute); ok && value.Normalize(p) == target {
			n++
		}
		if r, ok := e.fm.Lookup(refsAttribute); ok {
			for _, c := range refHubs(r) {
				if c == target {
					n++
					break
				}
			}
		}
	}
	return n
}

// ChildCounts returns the breakdown for every hub appearing as a parent value
// or a refs element, in a single pass over the index. Results are sorted by
// total descending; ties keep first-seen order, where a note's parent is seen
// before its refs.
func (ix *Index) ChildCounts(parentAttribute, refsAttribute string) []HubCount {
	var out []HubCount
	pos := make(map[value.Canonical]int)
	rec := func(c value.Canonical) *HubCount {
		i, ok := pos[c]
		if !ok {
			i = len(out)
			pos[c] = i
			out = append(out, HubCount{Hub: c})
		}
		return &out[i]
	}

	for _, e := range ix.entries {
		if p, ok := e.fm.Lookup(parentAttribute); ok {
			rec(value.Normalize(p)).Parent++
		}
		if r, ok := e.fm.Lookup(refsAttribute); ok {
			for _, c := range refHubs(r) {
				rec(c).Refs++
			}
		}
	}

	for i := range out {
		out[i].Total = out[i].Parent + out[i].Refs
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// refHubs returns the distinct hubs referenced by a refs value, in order.
// Only sequences reference hubs. Every element counts, empty ones included,
// so that any value usable as a parent can also be referenced.
func refHubs(refs value.Value) []value.Canonical {
	items := refs.Items()
	if len(items) == 0 {
		return nil
	}
	out := make([]value.Canonical, 0, len(items))
	seen := make(map[value.Canonical]struct{}, len(items))
	for _, it := range items {
		c := value.Normalize(it)
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
