package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fmstat/internal/apperr"
	"github.com/starford/fmstat/internal/checksum"
	"github.com/starford/fmstat/internal/noteservice"
	"github.com/starford/fmstat/internal/value"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the URL (everything after /api/notes/).
// Supports encoded slashes from OpenAPI clients (e.g. topics%2Fnote.md).
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// attributeName extracts the {name} segment.
func attributeName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// queryInt reads an optional integer query parameter. Absent means 0.
func queryInt(q url.Values, key string) (int, error) {
	s := q.Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("query parameter '%s' must be an integer", key)
	}
	return n, nil
}

// queryBool reads an optional boolean query parameter. Absent means false.
func queryBool(q url.Values, key string) (bool, error) {
	s := q.Get(key)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("query parameter '%s' must be a boolean", key)
	}
	return b, nil
}

// Stats handles GET /api/stats.
//
//	@Summary		Frontmatter summary of the vault
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	Stats
//	@Security		BearerAuth
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats(r.Context()))
}

// Attributes handles GET /api/attributes.
//
//	@Summary		List attribute names
//	@Tags			attributes
//	@Produce		json
//	@Success		200	{object}	AttributesResponse
//	@Security		BearerAuth
//	@Router			/attributes [get]
func (h *Handler) Attributes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, AttributesResponse{Attributes: h.svc.Attributes(r.Context())})
}

// Values handles GET /api/attributes/{name}/values.
//
//	@Summary		Count the distinct values of an attribute
//	@Tags			attributes
//	@Produce		json
//	@Param			name	path		string	true	"Attribute name"
//	@Param			limit	query		int		false	"Max values"
//	@Param			explode	query		bool	false	"Count list elements individually"
//	@Success		200		{object}	ValuesResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/attributes/{name}/values [get]
func (h *Handler) Values(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	explode, err := queryBool(q, "explode")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := attributeName(r)
	writeJSON(w, http.StatusOK, ValuesResponse{
		Attribute: name,
		Values:    h.svc.Values(r.Context(), name, limit, explode),
	})
}

// Groups handles GET /api/attributes/{name}/groups.
//
//	@Summary		Group notes by the value of an attribute
//	@Tags			attributes
//	@Produce		json
//	@Param			name			path		string	true	"Attribute name"
//	@Param			limit_values	query		int		false	"Max groups"
//	@Param			limit_notes		query		int		false	"Max notes per group"
//	@Success		200				{object}	GroupsResponse
//	@Failure		400				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/attributes/{name}/groups [get]
func (h *Handler) Groups(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limitValues, err := queryInt(q, "limit_values")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limitNotes, err := queryInt(q, "limit_notes")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := attributeName(r)
	writeJSON(w, http.StatusOK, GroupsResponse{
		Attribute: name,
		Groups:    h.svc.Groups(r.Context(), name, limitValues, limitNotes),
	})
}

// Notes handles GET /api/attributes/{name}/notes.
//
//	@Summary		List notes carrying an attribute
//	@Tags			attributes
//	@Produce		json
//	@Param			name	path		string	true	"Attribute name"
//	@Param			value	query		string	false	"Required value (string match or list membership)"
//	@Param			limit	query		int		false	"Max notes"
//	@Success		200		{object}	NotesResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/attributes/{name}/notes [get]
func (h *Handler) Notes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := attributeName(r)
	resp := NotesResponse{Attribute: name}
	var want *value.Value
	if q.Has("value") {
		s := q.Get("value")
		v := value.String(s)
		want = &v
		resp.Value = &s
	}
	resp.Notes = h.svc.Notes(r.Context(), name, want, limit)
	writeJSON(w, http.StatusOK, resp)
}

// Hubs handles GET /api/hubs.
//
//	@Summary		Child count breakdown of every hub
//	@Tags			hubs
//	@Produce		json
//	@Param			parent	query		string	false	"Parent attribute"
//	@Param			refs	query		string	false	"Refs attribute"
//	@Param			limit	query		int		false	"Max hubs"
//	@Success		200		{object}	HubsResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/hubs [get]
func (h *Handler) Hubs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	parent, refs := h.hubAttributes(q)
	writeJSON(w, http.StatusOK, HubsResponse{
		ParentAttribute: parent,
		RefsAttribute:   refs,
		Hubs:            h.svc.Hubs(r.Context(), parent, refs, limit),
	})
}

// ChildCount handles GET /api/hubs/count.
//
//	@Summary		Combined child count of one hub
//	@Tags			hubs
//	@Produce		json
//	@Param			hub		query		string	true	"Hub value, e.g. [[Projects]]"
//	@Param			parent	query		string	false	"Parent attribute"
//	@Param			refs	query		string	false	"Refs attribute"
//	@Success		200		{object}	ChildCountResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/hubs/count [get]
func (h *Handler) ChildCount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hub := q.Get("hub")
	if hub == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'hub' is required")
		return
	}
	parent, refs := h.hubAttributes(q)
	writeJSON(w, http.StatusOK, ChildCountResponse{
		Hub:             hub,
		ParentAttribute: parent,
		RefsAttribute:   refs,
		Count:           h.svc.ChildCount(r.Context(), value.String(hub), parent, refs),
	})
}

// GetNote handles GET /api/notes/*.
//
//	@Summary		Get the indexed frontmatter of a note
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	NoteDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	note, err := h.svc.GetNote(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("get note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	if tag := checksum.ETag(note.Checksum); tag != "" {
		w.Header().Set("ETag", tag)
		if r.Header.Get("If-None-Match") == tag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) hubAttributes(q url.Values) (string, string) {
	parent, refs := h.svc.HubAttributes()
	if v := q.Get("parent"); v != "" {
		parent = v
	}
	if v := q.Get("refs"); v != "" {
		refs = v
	}
	return parent, refs
}
