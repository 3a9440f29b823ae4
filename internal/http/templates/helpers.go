package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// RawHTML returns a templ component that writes the provided HTML without escaping.
// Only content that was cleaned on save may be passed here.
func RawHTML(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, err := io.WriteString(w, html)
		return err
	})
}

// htmlWriter remembers the first write error so templates can be written as
// straight-line code.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

func (hw *htmlWriter) raw(parts ...string) {
	for _, part := range parts {
		if hw.err != nil {
			return
		}
		_, hw.err = io.WriteString(hw.w, part)
	}
}

func (hw *htmlWriter) text(value string) {
	hw.raw(templ.EscapeString(value))
}

func (hw *htmlWriter) component(c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(hw.ctx, hw.w)
}

func (hw *htmlWriter) done() error {
	if hw.err != nil {
		return hw.err
	}
	return hw.ctx.Err()
}

// href sanitises a link target for an attribute value.
func href(value string) string {
	return templ.EscapeString(string(templ.URL(value)))
}

// imageSrc allows inline data:image URIs in addition to safe URLs.
func imageSrc(value string) string {
	if strings.HasPrefix(value, "data:image/") {
		return templ.EscapeString(value)
	}
	return href(value)
}
