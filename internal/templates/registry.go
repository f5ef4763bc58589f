// Package templates defines the fixed set of post rendering templates.
// The registry is an enum-keyed dispatch table constructed once at
// startup; nothing mutates it afterwards, so lookups are safe from any
// goroutine without locking.
package templates

import "sort"

// Template describes one rendering layout the front end knows how to
// draw. The API only validates and echoes these; actual rendering is a
// front-end concern.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registry maps template id to its definition.
type Registry struct {
	byID map[string]Template
}

// NewRegistry builds the registry with the built-in template set.
func NewRegistry() *Registry {
	list := []Template{
		{ID: "standard", Name: "Standard", Description: "Cover image, text and media in document order"},
		{ID: "gallery", Name: "Gallery", Description: "Photo-grid first, text below"},
		{ID: "timeline", Name: "Timeline", Description: "Content grouped day by day along the trip"},
	}
	r := &Registry{byID: make(map[string]Template, len(list))}
	for _, t := range list {
		r.byID[t.ID] = t
	}
	return r
}

// Lookup returns the template for an id.
func (r *Registry) Lookup(id string) (Template, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// Valid reports whether id names a known template.
func (r *Registry) Valid(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns every template sorted by id for stable API output.
func (r *Registry) All() []Template {
	out := make([]Template, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
