package http

import (
	"context"
	stdhttp "net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"portfolio/app/internal/content"
)

type contentOutput struct {
	Body content.Snapshot
}

type postsOutput struct {
	Body []content.BlogPost
}

type postOutput struct {
	Body content.BlogPost
}

type contactInput struct {
	Body struct {
		Name    string `json:"name" maxLength:"200"`
		Email   string `json:"email" maxLength:"320"`
		Subject string `json:"subject,omitempty" maxLength:"300"`
		Message string `json:"message" maxLength:"10000"`
	}
}

type contactOutput struct {
	Body struct {
		ID      string `json:"id"`
		Success bool   `json:"success"`
	}
}

func (s *Server) registerPublicAPIRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-content",
		Method:      stdhttp.MethodGet,
		Path:        "/api/content",
		Summary:     "All public sections",
		Tags:        []string{"public"},
	}, s.contentHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-published-posts",
		Method:      stdhttp.MethodGet,
		Path:        "/api/blog",
		Summary:     "Published blog posts",
		Tags:        []string{"public"},
	}, s.publishedPostsHandler)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-published-post",
		Method:      stdhttp.MethodGet,
		Path:        "/api/blog/{id}",
		Summary:     "One published blog post",
		Tags:        []string{"public"},
		Errors:      []int{stdhttp.StatusNotFound},
	}, s.publishedPostHandler)

	huma.Register(s.api, huma.Operation{
		OperationID:   "submit-contact",
		Method:        stdhttp.MethodPost,
		Path:          "/api/contact",
		Summary:       "Submit the contact form",
		Tags:          []string{"public"},
		DefaultStatus: stdhttp.StatusCreated,
		Errors:        []int{stdhttp.StatusBadRequest},
	}, s.contactHandler)
}

func (s *Server) contentHandler(ctx context.Context, _ *struct{}) (*contentOutput, error) {
	return &contentOutput{Body: s.content.Snapshot(ctx)}, nil
}

func (s *Server) publishedPostsHandler(ctx context.Context, _ *struct{}) (*postsOutput, error) {
	return &postsOutput{Body: s.content.PublishedPosts(ctx)}, nil
}

func (s *Server) publishedPostHandler(ctx context.Context, input *idInput) (*postOutput, error) {
	id := strings.TrimSpace(input.ID)

	post, err := s.content.PublishedPost(ctx, id)
	if err != nil {
		return nil, s.apiError(ctx, err, "loading blog post", logrus.Fields{"id": id})
	}
	return &postOutput{Body: post}, nil
}

func (s *Server) contactHandler(ctx context.Context, input *contactInput) (*contactOutput, error) {
	msg, err := s.content.SubmitMessage(ctx, content.Message{
		Name:    input.Body.Name,
		Email:   input.Body.Email,
		Subject: input.Body.Subject,
		Message: input.Body.Message,
	})
	if err != nil {
		return nil, s.apiError(ctx, err, "saving contact message", nil)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"component":  "contact",
			"message_id": msg.ID,
			"request_id": RequestIDFromContext(ctx),
		}).Info("contact message received")
	}

	out := &contactOutput{}
	out.Body.ID = msg.ID
	out.Body.Success = true
	return out, nil
}
