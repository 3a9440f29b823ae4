package templates

import (
	"context"
	"io"
	"time"

	"github.com/a-h/templ"

	"portfolio/app/internal/content"
)

const postDateLayout = "January 2, 2006"

// BlogListPage renders every published post.
func BlogListPage(data BlogListPageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)

		hw.raw(`<section class="section"><h1 class="section-title">Blog</h1>`)
		if len(data.Posts) == 0 {
			hw.raw(`<p class="empty">No articles published yet.</p>`)
		} else {
			hw.raw(`<div class="grid">`)
			for _, post := range data.Posts {
				writePostCard(hw, post)
			}
			hw.raw(`</div>`)
		}
		hw.raw(`</section>`)

		return hw.done()
	})

	return Layout(data.Title, blogNav(), body)
}

// BlogPostPage renders one post. Its content was cleaned when it was saved.
func BlogPostPage(data BlogPostPageData) templ.Component {
	post := data.Post

	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)

		hw.raw(`<article class="post"><a class="back" href="/blog">&larr; Back to all articles</a><h1>`)
		hw.text(post.Title)
		hw.raw(`</h1><p class="meta">`)
		writePostMeta(hw, post)
		hw.raw(`</p>`)
		if post.ImageURL != "" {
			hw.raw(`<img class="post-image" src="`, imageSrc(post.ImageURL), `" alt="`)
			hw.text(post.Title)
			hw.raw(`">`)
		}
		hw.raw(`<div class="post-content">`)
		hw.component(RawHTML(post.Content))
		hw.raw(`</div></article>`)

		return hw.done()
	})

	return Layout(data.Title, blogNav(), body)
}

func writePostCard(hw *htmlWriter, post content.BlogPost) {
	link := href("/blog/" + post.ID)

	hw.raw(`<article class="card post-card">`)
	if post.ImageURL != "" {
		hw.raw(`<img src="`, imageSrc(post.ImageURL), `" alt="" loading="lazy">`)
	}
	hw.raw(`<h3><a href="`, link, `">`)
	hw.text(post.Title)
	hw.raw(`</a></h3><p class="meta">`)
	writePostMeta(hw, post)
	hw.raw(`</p><p>`)
	hw.text(post.Excerpt)
	hw.raw(`</p><a class="read-more" href="`, link, `">Read more</a></article>`)
}

func writePostMeta(hw *htmlWriter, post content.BlogPost) {
	if !post.Date.IsZero() {
		hw.raw(`<time datetime="`, post.Date.UTC().Format(time.RFC3339), `">`)
		hw.text(post.Date.Format(postDateLayout))
		hw.raw(`</time>`)
	}
	if post.Author != "" {
		hw.raw(` &middot; `)
		hw.text(post.Author)
	}
}
