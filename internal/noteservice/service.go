package noteservice

import (
	"context"
	"fmt"

	"github.com/starford/fmstat/internal/apperr"
	"github.com/starford/fmstat/internal/checksum"
	"github.com/starford/fmstat/internal/index"
	"github.com/starford/fmstat/internal/parser"
	"github.com/starford/fmstat/internal/storage"
	"github.com/starford/fmstat/internal/value"
)

// Stats summarises the index.
type Stats struct {
	TotalNotes      int             `json:"total_notes" yaml:"total_notes"`
	WithFrontmatter int             `json:"with_frontmatter" yaml:"with_frontmatter"`
	Attributes      []AttributeStat `json:"attributes" yaml:"attributes"`
}

// AttributeStat is the number of notes carrying an attribute.
type AttributeStat struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// ValueStat is a distinct attribute value and its count.
type ValueStat struct {
	Value value.Value `json:"value" yaml:"value"`
	Count int         `json:"count" yaml:"count"`
}

// ValueGroup is a distinct attribute value with the notes holding it.
type ValueGroup struct {
	Value value.Value `json:"value" yaml:"value"`
	Count int         `json:"count" yaml:"count"`
	Notes []string    `json:"notes" yaml:"notes"`
}

// HubStat is the child count breakdown of a hub.
type HubStat struct {
	Hub    value.Value `json:"hub" yaml:"hub"`
	Parent int         `json:"parent" yaml:"parent"`
	Refs   int         `json:"refs" yaml:"refs"`
	Total  int         `json:"total" yaml:"total"`
}

// NoteDetail is the indexed representation of a note.
type NoteDetail struct {
	Path        string      `json:"path" yaml:"path"`
	Frontmatter value.Value `json:"frontmatter" yaml:"frontmatter"`
	Body        string      `json:"body,omitempty" yaml:"body,omitempty"`
	Checksum    string      `json:"checksum,omitempty" yaml:"checksum,omitempty"`
}

// Service answers queries over a built index.
type Service struct {
	ix     index.Querier
	store  storage.Provider
	parent string
	refs   string
}

// Option configures a Service.
type Option func(*Service)

// WithHubAttributes sets the attributes used when a child count query leaves
// them empty.
func WithHubAttributes(parent, refs string) Option {
	return func(s *Service) {
		if parent != "" {
			s.parent = parent
		}
		if refs != "" {
			s.refs = refs
		}
	}
}

// NewService creates a query service. store may be nil, in which case
// GetNote returns no body.
func NewService(ix index.Querier, store storage.Provider, opts ...Option) *Service {
	s := &Service{
		ix:     ix,
		store:  store,
		parent: index.DefaultParentAttribute,
		refs:   index.DefaultRefsAttribute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HubAttributes returns the default parent and refs attribute names.
func (s *Service) HubAttributes() (parent, refs string) {
	return s.parent, s.refs
}

// Stats returns note totals and per-attribute counts.
func (s *Service) Stats(_ context.Context) *Stats {
	rows := s.ix.AttributeStats()
	attrs := make([]AttributeStat, len(rows))
	for i, r := range rows {
		attrs[i] = AttributeStat{Name: r.Name, Count: r.Count}
	}
	return &Stats{
		TotalNotes:      s.ix.Len(),
		WithFrontmatter: s.ix.WithFrontmatter(),
		Attributes:      attrs,
	}
}

// Attributes returns every attribute name, sorted.
func (s *Service) Attributes(_ context.Context) []string {
	return nonNilSlice(s.ix.Attributes())
}

// Values returns the distinct values of attribute with their counts.
func (s *Service) Values(_ context.Context, attribute string, limit int, explode bool) []ValueStat {
	rows := s.ix.ValueCounts(attribute, limit, explode)
	out := make([]ValueStat, len(rows))
	for i, r := range rows {
		out[i] = ValueStat{Value: r.Value.Denormalize(), Count: r.Count}
	}
	return out
}

// Groups returns the distinct values of attribute with the notes holding them.
func (s *Service) Groups(_ context.Context, attribute string, limitValues, limitNotes int) []ValueGroup {
	rows := s.ix.ValueNotes(attribute, limitValues, limitNotes)
	out := make([]ValueGroup, len(rows))
	for i, r := range rows {
		out[i] = ValueGroup{Value: r.Value.Denormalize(), Count: r.Count, Notes: nonNilSlice(r.Notes)}
	}
	return out
}

// Notes returns the notes carrying attribute, optionally filtered by value.
func (s *Service) Notes(_ context.Context, attribute string, want *value.Value, limit int) []string {
	return nonNilSlice(s.ix.FilesWithAttribute(attribute, want, limit))
}

// ChildCount returns the number of notes pointing at hub. Empty attribute
// names fall back to the service defaults.
func (s *Service) ChildCount(_ context.Context, hub value.Value, parent, refs string) int {
	parent, refs = s.hubAttributes(parent, refs)
	return s.ix.ChildCount(hub, parent, refs)
}

// Hubs returns the child count breakdown of every hub, cut to limit when
// limit > 0.
func (s *Service) Hubs(_ context.Context, parent, refs string, limit int) []HubStat {
	parent, refs = s.hubAttributes(parent, refs)
	rows := s.ix.ChildCounts(parent, refs)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]HubStat, len(rows))
	for i, r := range rows {
		out[i] = HubStat{Hub: r.Hub.Denormalize(), Parent: r.Parent, Refs: r.Refs, Total: r.Total}
	}
	return out
}

// GetNote returns the indexed frontmatter of a note, with its body and
// content checksum when the service has a store.
func (s *Service) GetNote(_ context.Context, path string) (*NoteDetail, error) {
	fm, ok := s.ix.Get(path)
	if !ok {
		return nil, fmt.Errorf("note %s: %w", path, apperr.ErrNotFound)
	}
	detail := &NoteDetail{Path: path, Frontmatter: fm}
	if s.store == nil {
		return detail, nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return nil, err
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	detail.Body = res.Body
	detail.Checksum = checksum.Sum(data)
	return detail, nil
}

func (s *Service) hubAttributes(parent, refs string) (string, string) {
	if parent == "" {
		parent = s.parent
	}
	if refs == "" {
		refs = s.refs
	}
	return parent, refs
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
