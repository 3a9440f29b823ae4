package templates

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

type navLink struct {
	Label string
	Href  string
}

// Layout wraps page content in the shared document shell.
func Layout(title string, nav []navLink, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)

		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`)
		hw.text(title)
		hw.raw(`</title>`,
			`<link rel="icon" href="/favicon.svg" type="image/svg+xml">`,
			`<link rel="stylesheet" href="/static/site.css">`,
			`<script src="/static/site.js" defer></script>`,
			`</head><body>`)

		hw.raw(`<header class="navbar"><a class="brand" href="/">`)
		hw.text(SiteName)
		hw.raw(`</a><nav>`)
		for _, link := range nav {
			hw.raw(`<a href="`, href(link.Href), `">`)
			hw.text(link.Label)
			hw.raw(`</a>`)
		}
		hw.raw(`</nav></header><main>`)

		hw.component(body)

		hw.raw(`</main><footer class="footer"><p>&copy; `, strconv.Itoa(time.Now().Year()), ` `)
		hw.text(SiteName)
		hw.raw(`. All rights reserved.</p></footer></body></html>`)

		return hw.done()
	})
}

func blogNav() []navLink {
	return []navLink{{Label: "Home", Href: "/"}, {Label: "Blog", Href: "/blog"}}
}
