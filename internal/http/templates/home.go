package templates

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"portfolio/app/internal/content"
)

// HomePage renders the landing page with every visible section.
func HomePage(data HomePageData) templ.Component {
	vis := data.Visibility

	var nav []navLink
	add := func(show bool, label, anchor string) {
		if show {
			nav = append(nav, navLink{Label: label, Href: anchor})
		}
	}
	add(vis.About, "About", "#about")
	add(vis.Experience, "Experience", "#experience")
	add(vis.Education, "Education", "#education")
	add(vis.Publications, "Publications", "#publications")
	add(vis.Trainings, "Trainings", "#trainings")
	add(vis.Skills, "Skills", "#skills")
	add(vis.Blog, "Blog", "#blog")
	add(vis.Contact, "Contact", "#contact")

	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(ctx, w)

		if vis.Hero {
			writeHero(hw, data.Hero)
		}
		if vis.About {
			writeAbout(hw, data.About)
		}
		if vis.Experience {
			writeExperience(hw, data.Experiences)
		}
		if vis.Education {
			writeEducation(hw, data.Education)
		}
		if vis.Publications {
			writePublications(hw, data.Publications)
		}
		if vis.Trainings {
			writeTrainings(hw, data.Trainings)
		}
		if vis.Skills {
			writeSkills(hw, data.Skills)
		}
		if vis.Blog {
			writeLatestPosts(hw, data.LatestPosts)
		}
		if vis.Contact {
			writeContact(hw)
		}

		return hw.done()
	})

	return Layout(data.Title, nav, body)
}

func sectionStart(hw *htmlWriter, id, heading string) {
	hw.raw(`<section id="`, id, `" class="section"><h2 class="section-title">`)
	hw.text(heading)
	hw.raw(`</h2>`)
}

func writeHero(hw *htmlWriter, hero content.Hero) {
	hw.raw(`<section id="hero" class="hero"><div class="hero-text"><h1>`)
	hw.text(hero.Title)
	hw.raw(`</h1>`)
	if hero.Subtitle != "" {
		hw.raw(`<h2>`)
		hw.text(hero.Subtitle)
		hw.raw(`</h2>`)
	}
	if hero.Description != "" {
		hw.raw(`<p>`)
		hw.text(hero.Description)
		hw.raw(`</p>`)
	}
	hw.raw(`<div class="actions"><a class="button" href="#contact">Contact me</a><a class="button outline" href="#about">Learn more</a></div></div>`)
	if hero.ImageURL != "" {
		hw.raw(`<img class="hero-image" src="`, imageSrc(hero.ImageURL), `" alt="`)
		hw.text(hero.Title)
		hw.raw(`">`)
	}
	if hero.ShowScrollIndicator {
		hw.raw(`<a class="scroll-indicator" href="#about" aria-label="Scroll down">&#8595;</a>`)
	}
	hw.raw(`</section>`)
}

func writeAbout(hw *htmlWriter, about content.About) {
	sectionStart(hw, "about", "About Me")
	if about.Bio != "" {
		for _, paragraph := range strings.Split(about.Bio, "\n\n") {
			if strings.TrimSpace(paragraph) == "" {
				continue
			}
			hw.raw(`<p>`)
			hw.text(paragraph)
			hw.raw(`</p>`)
		}
	}
	if len(about.Highlights) > 0 {
		hw.raw(`<ul class="highlights">`)
		for _, highlight := range about.Highlights {
			hw.raw(`<li>`)
			hw.text(highlight)
			hw.raw(`</li>`)
		}
		hw.raw(`</ul>`)
	}
	hw.raw(`</section>`)
}

func writeExperience(hw *htmlWriter, items []content.Experience) {
	sectionStart(hw, "experience", "Experience")
	hw.raw(`<ol class="timeline">`)
	for _, item := range items {
		hw.raw(`<li class="card"><h3>`)
		hw.text(item.Title)
		hw.raw(`</h3><p class="meta">`)
		hw.text(item.Company)
		if item.Period != "" {
			hw.raw(` &middot; `)
			hw.text(item.Period)
		}
		hw.raw(`</p>`)
		if item.Description != "" {
			hw.raw(`<p>`)
			hw.text(item.Description)
			hw.raw(`</p>`)
		}
		hw.raw(`</li>`)
	}
	hw.raw(`</ol></section>`)
}

func writeEducation(hw *htmlWriter, items []content.Education) {
	sectionStart(hw, "education", "Education")
	hw.raw(`<ol class="timeline">`)
	for _, item := range items {
		hw.raw(`<li class="card"><h3>`)
		hw.text(item.Degree)
		hw.raw(`</h3><p class="meta">`)
		hw.text(item.Institution)
		if item.Location != "" {
			hw.raw(`, `)
			hw.text(item.Location)
		}
		hw.raw(`</p>`)
		if item.Years != "" {
			hw.raw(`<p class="period">`)
			hw.text(item.Years)
			hw.raw(`</p>`)
		}
		hw.raw(`</li>`)
	}
	hw.raw(`</ol></section>`)
}

func writePublications(hw *htmlWriter, items []content.Publication) {
	sectionStart(hw, "publications", "Publications & Presentations")
	hw.raw(`<div class="grid">`)
	for _, item := range items {
		hw.raw(`<article class="card"`)
		if item.Color != "" {
			hw.raw(` data-color="`)
			hw.text(item.Color)
			hw.raw(`"`)
		}
		hw.raw(`>`)
		if item.Type != "" {
			hw.raw(`<span class="badge">`)
			hw.text(item.Type)
			hw.raw(`</span>`)
		}
		hw.raw(`<h3>`)
		hw.text(item.Title)
		hw.raw(`</h3><p class="meta">`)
		hw.text(joinNonEmpty(" · ", item.Event, item.Date, item.Location))
		hw.raw(`</p>`)
		if item.PDFLink != "" {
			hw.raw(`<a class="button outline" href="`, href(item.PDFLink), `" target="_blank" rel="noopener">View PDF</a>`)
		}
		hw.raw(`</article>`)
	}
	hw.raw(`</div></section>`)
}

func writeTrainings(hw *htmlWriter, items []content.Training) {
	sectionStart(hw, "trainings", "Trainings & Workshops")
	hw.raw(`<ul class="grid">`)
	for _, item := range items {
		hw.raw(`<li class="card"><h3>`)
		hw.text(item.Title)
		hw.raw(`</h3><p class="meta">`)
		hw.text(joinNonEmpty(" · ", item.Date, item.Location))
		hw.raw(`</p></li>`)
	}
	hw.raw(`</ul></section>`)
}

func writeSkills(hw *htmlWriter, items []content.Skill) {
	sectionStart(hw, "skills", "Skills")
	for _, group := range []struct {
		label string
		kind  content.SkillType
	}{
		{"Technical Skills", content.SkillTechnical},
		{"Personal Skills", content.SkillPersonal},
	} {
		hw.raw(`<div class="skill-group"><h3>`)
		hw.text(group.label)
		hw.raw(`</h3><ul>`)
		for _, skill := range items {
			if skill.Type != group.kind {
				continue
			}
			hw.raw(`<li class="skill"><span>`)
			hw.text(skill.Name)
			hw.raw(`</span>`)
			if skill.Level > 0 {
				level := strconv.Itoa(skill.Level)
				hw.raw(`<progress max="100" value="`, level, `">`, level, `%</progress>`)
			}
			hw.raw(`</li>`)
		}
		hw.raw(`</ul></div>`)
	}
	hw.raw(`</section>`)
}

func writeLatestPosts(hw *htmlWriter, posts []content.BlogPost) {
	sectionStart(hw, "blog", "Latest Articles")
	if len(posts) == 0 {
		hw.raw(`<p class="empty">No articles published yet.</p>`)
	} else {
		hw.raw(`<div class="grid">`)
		for _, post := range posts {
			writePostCard(hw, post)
		}
		hw.raw(`</div>`)
	}
	hw.raw(`<p><a class="button outline" href="/blog">View all articles</a></p></section>`)
}

func writeContact(hw *htmlWriter) {
	sectionStart(hw, "contact", "Get In Touch")
	hw.raw(`<form class="contact-form" data-contact-form action="/api/contact" method="post">`,
		`<label>Name<input name="name" required></label>`,
		`<label>Email<input name="email" type="email" required></label>`,
		`<label>Subject<input name="subject"></label>`,
		`<label>Message<textarea name="message" rows="5" required></textarea></label>`,
		`<button class="button" type="submit">Send Message</button>`,
		`<p class="form-status" role="status"></p>`,
		`</form></section>`)
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, sep)
}
