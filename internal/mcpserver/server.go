// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes fmstat queries for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/fmstat/internal/apperr"
	"github.com/starford/fmstat/internal/noteservice"
	"github.com/starford/fmstat/internal/value"
)

// AttributesURI is the resource listing every attribute name.
const AttributesURI = "fmstat://attributes"

// Server wraps the MCP server with fmstat tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all fmstat tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"fmstat",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("frontmatter_stats",
		mcp.WithDescription("Summarise the vault: note totals and how many notes carry each frontmatter attribute."),
	), s.frontmatterStats)

	s.mcp.AddTool(mcp.NewTool("attribute_values",
		mcp.WithDescription("Count the distinct values of a frontmatter attribute, most frequent first."),
		mcp.WithString("attribute", mcp.Required(), mcp.Description("Attribute name, e.g. tags")),
		mcp.WithNumber("limit", mcp.Description("Max values to return (0 for all)"), mcp.DefaultNumber(0)),
		mcp.WithBoolean("explode", mcp.Description("Count list elements individually"), mcp.DefaultBool(false)),
	), s.attributeValues)

	s.mcp.AddTool(mcp.NewTool("attribute_notes",
		mcp.WithDescription("List notes carrying an attribute. With value, the attribute must equal it "+
			"or be a list containing it."),
		mcp.WithString("attribute", mcp.Required(), mcp.Description("Attribute name, e.g. status")),
		mcp.WithString("value", mcp.Description("Required value, e.g. draft")),
		mcp.WithNumber("limit", mcp.Description("Max notes to return (0 for all)"), mcp.DefaultNumber(0)),
	), s.attributeNotes)

	s.mcp.AddTool(mcp.NewTool("child_count",
		mcp.WithDescription("Count the notes pointing at a hub through the parent attribute or the refs list. "+
			"The hub must be written exactly as stored, e.g. [[Projects]]."),
		mcp.WithString("hub", mcp.Required(), mcp.Description("Hub value, e.g. [[Projects]]")),
		mcp.WithString("parent_attribute", mcp.Description("Parent attribute name")),
		mcp.WithString("refs_attribute", mcp.Description("Refs attribute name")),
	), s.childCount)

	s.mcp.AddTool(mcp.NewTool("hub_counts",
		mcp.WithDescription("Child count breakdown (parent, refs, total) of every hub, largest first."),
		mcp.WithString("parent_attribute", mcp.Description("Parent attribute name")),
		mcp.WithString("refs_attribute", mcp.Description("Refs attribute name")),
		mcp.WithNumber("limit", mcp.Description("Max hubs to return (0 for all)"), mcp.DefaultNumber(0)),
	), s.hubCounts)

	s.mcp.AddTool(mcp.NewTool("read_frontmatter",
		mcp.WithDescription("Read the indexed frontmatter and body of a note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.readFrontmatter)

	s.mcp.AddResource(
		mcp.NewResource(AttributesURI, "Frontmatter attributes",
			mcp.WithResourceDescription("Every frontmatter attribute name found in the vault."),
			mcp.WithMIMEType("application/json"),
		),
		s.readAttributesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) frontmatterStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Stats(ctx))
}

func (s *Server) attributeValues(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	attr, err := req.RequireString("attribute")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 0)
	explode := req.GetBool("explode", false)
	return jsonResult(s.svc.Values(ctx, attr, limit, explode))
}

func (s *Server) attributeNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	attr, err := req.RequireString("attribute")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var want *value.Value
	if raw, ok := req.GetArguments()["value"]; ok {
		v, err := value.FromAny(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("value: %v", err)), nil
		}
		want = &v
	}
	return jsonResult(s.svc.Notes(ctx, attr, want, req.GetInt("limit", 0)))
}

func (s *Server) childCount(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hub, err := req.RequireString("hub")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	parent := req.GetString("parent_attribute", "")
	refs := req.GetString("refs_attribute", "")
	n := s.svc.ChildCount(ctx, value.String(hub), parent, refs)
	return mcp.NewToolResultText(strconv.Itoa(n)), nil
}

func (s *Server) hubCounts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parent := req.GetString("parent_attribute", "")
	refs := req.GetString("refs_attribute", "")
	return jsonResult(s.svc.Hubs(ctx, parent, refs, req.GetInt("limit", 0)))
}

func (s *Server) readFrontmatter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.GetNote(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(note)
}

func (s *Server) readAttributesResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.Marshal(s.svc.Attributes(ctx))
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      AttributesURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
