package templates

import "portfolio/app/internal/content"

// SiteName is used in titles and the footer when the hero has no title.
const SiteName = "Dr. Saugat Bhandari"

// HomePageData contains every section shown on the landing page. Sections are
// rendered only when enabled in Visibility.
type HomePageData struct {
	Title        string
	Hero         content.Hero
	About        content.About
	Visibility   content.SectionVisibility
	Experiences  []content.Experience
	Education    []content.Education
	Publications []content.Publication
	Trainings    []content.Training
	Skills       []content.Skill
	LatestPosts  []content.BlogPost
}

// BlogListPageData bundles the published posts for the blog index.
type BlogListPageData struct {
	Title string
	Posts []content.BlogPost
}

// BlogPostPageData holds one published post.
type BlogPostPageData struct {
	Title string
	Post  content.BlogPost
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	Title       string
	StatusLabel string
	Message     string
}
