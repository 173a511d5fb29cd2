// Package index provides the in-memory frontmatter index and its aggregate queries.
package index

import (
	"sort"

	"github.com/starford/fmstat/internal/value"
)

// Default attribute names used for hub child counts.
const (
	DefaultParentAttribute = "parent"
	DefaultRefsAttribute   = "refs"
)

type entry struct {
	path string
	fm   value.Value
}

// Index maps note paths to their frontmatter. Iteration follows the order in
// which paths were first ingested. It is not safe for concurrent mutation;
// once ingestion is over, concurrent reads are fine.
type Index struct {
	entries []entry
	pos     map[string]int
}

// New returns an empty index.
func New() *Index {
	return &Index{pos: make(map[string]int)}
}

// Ingest stores the frontmatter mapping of a note. A null fm marks a note that
// could not be decoded and is ignored, as is any other non-mapping value.
// Re-ingesting a path replaces its mapping but keeps its position.
// It reports whether fm was stored.
func (ix *Index) Ingest(path string, fm value.Value) bool {
	if fm.Kind() != value.KindMapping {
		return false
	}
	if i, ok := ix.pos[path]; ok {
		ix.entries[i].fm = fm
		return true
	}
	ix.pos[path] = len(ix.entries)
	ix.entries = append(ix.entries, entry{path: path, fm: fm})
	return true
}

// Len returns the number of indexed notes.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// WithFrontmatter returns the number of notes whose mapping is non-empty.
func (ix *Index) WithFrontmatter() int {
	n := 0
	for _, e := range ix.entries {
		if e.fm.Len() > 0 {
			n++
		}
	}
	return n
}

// Get returns the frontmatter stored for path.
func (ix *Index) Get(path string) (value.Value, bool) {
	i, ok := ix.pos[path]
	if !ok {
		return value.Value{}, false
	}
	return ix.entries[i].fm, true
}

// Paths returns every indexed path in index order.
func (ix *Index) Paths() []string {
	out := make([]string, len(ix.entries))
	for i, e := range ix.entries {
		out[i] = e.path
	}
	return out
}

// Attributes returns the union of attribute names, sorted.
func (ix *Index) Attributes() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range ix.entries {
		for _, k := range e.fm.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// AttributeCounts returns, per attribute, the number of notes that have it.
func (ix *Index) AttributeCounts() map[string]int {
	out := make(map[string]int)
	for _, e := range ix.entries {
		for _, k := range e.fm.Keys() {
			out[k]++
		}
	}
	return out
}

// AttributeCount is one row of AttributeStats.
type AttributeCount struct {
	Name  string
	Count int
}

// AttributeStats returns attribute counts sorted by count descending. Ties
// keep the order in which attributes were first met.
func (ix *Index) AttributeStats() []AttributeCount {
	var out []AttributeCount
	pos := make(map[string]int)
	for _, e := range ix.entries {
		for _, k := range e.fm.Keys() {
			if i, ok := pos[k]; ok {
				out[i].Count++
				continue
			}
			pos[k] = len(out)
			out = append(out, AttributeCount{Name: k, Count: 1})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// FilesWithAttribute returns the notes that have attribute, in index order.
// When want is non-nil the stored value must equal it or be a sequence that
// holds it as a direct element. limit <= 0 means no limit.
func (ix *Index) FilesWithAttribute(attribute string, want *value.Value, limit int) []string {
	var out []string
	for _, e := range ix.entries {
		v, ok := e.fm.Lookup(attribute)
		if !ok {
			continue
		}
		if want != nil && !v.Matches(*want) {
			continue
		}
		out = append(out, e.path)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
