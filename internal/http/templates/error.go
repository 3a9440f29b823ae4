package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ErrorPage renders a status page with a friendly message.
func ErrorPage(data ErrorPageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)

		hw.raw(`<section class="section error"><h1>`)
		hw.text(data.StatusLabel)
		hw.raw(`</h1><p>`)
		hw.text(data.Message)
		hw.raw(`</p><p><a class="button" href="/">Back to home</a></p></section>`)

		return hw.done()
	})

	return Layout(data.Title, blogNav(), body)
}
