package index

import "github.com/starford/fmstat/internal/value"

// Querier defines the read side of the frontmatter index.
// Consumers should depend on this interface rather than the concrete *Index
// to facilitate testing with fakes.
type Querier interface {
	Len() int
	WithFrontmatter() int
	Get(path string) (value.Value, bool)
	Paths() []string
	Attributes() []string
	AttributeCounts() map[string]int
	AttributeStats() []AttributeCount
	FilesWithAttribute(attribute string, want *value.Value, limit int) []string
	ValueCounts(attribute string, limit int, explode bool) []ValueCount
	ValueNotes(attribute string, limitValues, limitNotes int) []ValueNotes
	ChildCount(hub value.Value, parentAttribute, refsAttribute string) int
	ChildCounts(parentAttribute, refsAttribute string) []HubCount
}

// Verify *Index satisfies Querier at compile time.
var _ Querier = (*Index)(nil)
