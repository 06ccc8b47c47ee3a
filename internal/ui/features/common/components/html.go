// Package components holds the page chrome shared by all features: layout,
// sidebar and breadcrumb.
package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// HTML writes markup to w and keeps the first write error.
type HTML struct {
	w   io.Writer
	err error
}

// NewHTML wraps w.
func NewHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

// Raw writes s unescaped.
func (h *HTML) Raw(s string) *HTML {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
	return h
}

// Text writes s with HTML escaping.
func (h *HTML) Text(s string) *HTML {
	return h.Raw(templ.EscapeString(s))
}

// Attr writes ` name="value"` with the value escaped.
func (h *HTML) Attr(name, value string) *HTML {
	return h.Raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// Render writes a nested component.
func (h *HTML) Render(ctx context.Context, c templ.Component) *HTML {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
	return h
}

// Err returns the first write error.
func (h *HTML) Err() error {
	return h.err
}

// Func adapts a markup-writing function to a templ component.
func Func(fn func(ctx context.Context, h *HTML)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewHTML(w)
		fn(ctx, h)
		return h.Err()
	})
}
