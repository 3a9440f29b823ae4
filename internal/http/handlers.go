package http

import (
	"context"
	stdhttp "net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"portfolio/app/internal/auth"
	"portfolio/app/internal/content"
	"portfolio/app/internal/db"
	"portfolio/app/internal/http/templates"
	applog "portfolio/app/internal/log"
	"portfolio/app/internal/media"
)

const (
	htmlContentType      = "text/html; charset=utf-8"
	latestPostsOnHome    = 3
	errorFallbackMessage = "We couldn't process your request right now."
)

type htmlResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type idInput struct {
	ID string `path:"id" doc:"Record identifier"`
}

type healthResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Remote   string `json:"remote"`
	}
}

func (s *Server) registerPageRoutes() {
	huma.Get(s.api, "/", s.homeHandler, htmlOperation("Portfolio home", stdhttp.StatusNotFound, stdhttp.StatusInternalServerError))
	huma.Get(s.api, "/blog", s.blogListHandler, htmlOperation("Blog index", stdhttp.StatusInternalServerError))
	huma.Get(s.api, "/blog/{id}", s.blogPostHandler, htmlOperation(
		"Blog post",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
		op.Tags = []string{"ops"}
	})
}

func (s *Server) homeHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	// "GET /" is the mux catch-all.
	if path := requestPathFromContext(ctx); path != "" && path != "/" {
		return s.renderErrorResponse(ctx, stdhttp.StatusNotFound, "We couldn't find that page.")
	}

	snapshot := s.content.Snapshot(ctx)

	latest := snapshot.Posts
	if len(latest) > latestPostsOnHome {
		latest = latest[:latestPostsOnHome]
	}

	title := templates.SiteName
	if subtitle := strings.TrimSpace(snapshot.Hero.Subtitle); subtitle != "" {
		title += " • " + subtitle
	}

	return s.renderPage(ctx, templates.HomePage(templates.HomePageData{
		Title:        title,
		Hero:         snapshot.Hero,
		About:        snapshot.About,
		Visibility:   snapshot.Visibility,
		Experiences:  snapshot.Experiences,
		Education:    snapshot.Education,
		Publications: snapshot.Publications,
		Trainings:    snapshot.Trainings,
		Skills:       snapshot.Skills,
		LatestPosts:  latest,
	}), "home")
}

func (s *Server) blogListHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	return s.renderPage(ctx, templates.BlogListPage(templates.BlogListPageData{
		Title: "Blog • " + templates.SiteName,
		Posts: s.content.PublishedPosts(ctx),
	}), "blog")
}

func (s *Server) blogPostHandler(ctx context.Context, input *idInput) (*htmlResponse, error) {
	id := strings.TrimSpace(input.ID)

	post, err := s.content.PublishedPost(ctx, id)
	if err != nil {
		status, message := classifyError(err)
		if status == stdhttp.StatusNotFound {
			message = "We couldn't find that article. It may have been moved or unpublished."
		} else {
			s.recordError(ctx, err, "loading blog post", logrus.Fields{"id": id})
		}
		return s.renderErrorResponse(ctx, status, message)
	}

	return s.renderPage(ctx, templates.BlogPostPage(templates.BlogPostPageData{
		Title: post.Title + " • " + templates.SiteName,
		Post:  post,
	}), "blog_post")
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{Status: stdhttp.StatusOK}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"
	resp.Body.Remote = "ok"

	if err := db.Ping(ctx, s.db); err != nil {
		s.recordError(ctx, err, "pinging database", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	if !s.content.RemoteAvailable() {
		resp.Body.Remote = "unconfigured"
	} else if err := s.content.PingRemote(ctx); err != nil {
		s.recordError(ctx, err, "pinging remote document store", nil)
		resp.Body.Status = "degraded"
		resp.Body.Remote = "error"
	}

	return resp, nil
}

func newHTMLResponse(status int, body []byte) *htmlResponse {
	return &htmlResponse{
		Status:      status,
		ContentType: htmlContentType,
		Body:        body,
	}
}

func htmlOperation(summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		if summary != "" {
			op.Summary = summary
		}
		op.Tags = []string{"pages"}
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		statusCodes := append([]int{stdhttp.StatusOK}, statuses...)
		for _, status := range statusCodes {
			code := strconv.Itoa(status)
			op.Responses[code] = &huma.Response{
				Description: stdhttp.StatusText(status),
				Content: map[string]*huma.MediaType{
					htmlContentType: {
						Schema: &huma.Schema{Type: "string"},
					},
				},
			}
		}
	}
}

// classifyError maps service errors to a status and a message safe to show.
func classifyError(err error) (int, string) {
	if err == nil {
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	}

	if verr, ok := content.AsValidation(err); ok {
		return stdhttp.StatusBadRequest, verr.Error()
	}

	switch {
	case eris.Is(err, content.ErrNotFound), eris.Is(err, media.ErrUnknownFile):
		return stdhttp.StatusNotFound, "The requested item does not exist."
	case eris.Is(err, auth.ErrInvalidCredentials):
		return stdhttp.StatusUnauthorized, "Invalid email or password."
	case eris.Is(err, auth.ErrUnauthorized):
		return stdhttp.StatusUnauthorized, "Admin session required. Please log in."
	case eris.Is(err, media.ErrTooLarge):
		return stdhttp.StatusRequestEntityTooLarge, "The uploaded file is too large."
	case eris.Is(err, media.ErrUnsupportedType):
		return stdhttp.StatusBadRequest, "Only image uploads are supported."
	default:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	}
}

// apiError converts err into a problem response. Server errors are recorded.
func (s *Server) apiError(ctx context.Context, err error, message string, fields logrus.Fields) error {
	status, detail := classifyError(err)
	if status >= stdhttp.StatusInternalServerError {
		s.recordError(ctx, err, message, fields)
	}
	return huma.NewError(status, detail)
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	applog.Capture(ctx, s.sentry, err)
}
