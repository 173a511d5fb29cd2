package api

import "github.com/starford/fmstat/internal/noteservice"

// Stats is the frontmatter summary response type (aliased from the domain layer).
type Stats = noteservice.Stats

// NoteDetail is the single note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// ValueStat is a distinct attribute value with its count.
type ValueStat = noteservice.ValueStat

// ValueGroup is a distinct attribute value with its notes.
type ValueGroup = noteservice.ValueGroup

// HubStat is the child count breakdown of one hub.
type HubStat = noteservice.HubStat

// AttributesResponse wraps the attribute names.
type AttributesResponse struct {
	Attributes []string `json:"attributes" validate:"required"`
}

// ValuesResponse wraps the value counts of an attribute.
type ValuesResponse struct {
	Attribute string      `json:"attribute" example:"status" validate:"required"`
	Values    []ValueStat `json:"values" validate:"required"`
}

// GroupsResponse wraps the value groups of an attribute.
type GroupsResponse struct {
	Attribute string       `json:"attribute" example:"status" validate:"required"`
	Groups    []ValueGroup `json:"groups" validate:"required"`
}

// NotesResponse wraps the notes carrying an attribute.
type NotesResponse struct {
	Attribute string   `json:"attribute" example:"status" validate:"required"`
	Value     *string  `json:"value,omitempty" example:"draft"`
	Notes     []string `json:"notes" validate:"required"`
}

// HubsResponse wraps the child count breakdown of every hub.
type HubsResponse struct {
	ParentAttribute string    `json:"parent_attribute" example:"parent" validate:"required"`
	RefsAttribute   string    `json:"refs_attribute" example:"refs" validate:"required"`
	Hubs            []HubStat `json:"hubs" validate:"required"`
}

// ChildCountResponse is the combined child count of one hub.
type ChildCountResponse struct {
	Hub             string `json:"hub" example:"[[Projects]]" validate:"required"`
	ParentAttribute string `json:"parent_attribute" example:"parent" validate:"required"`
	RefsAttribute   string `json:"refs_attribute" example:"refs" validate:"required"`
	Count           int    `json:"count" example:"4" validate:"required"`
}
