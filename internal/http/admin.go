package http

import (
	"context"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"portfolio/app/internal/auth"
	"portfolio/app/internal/content"
)

const adminSecurityScheme = "adminSession"

type loginInput struct {
	Body struct {
		Email    string `json:"email" maxLength:"320"`
		Password string `json:"password" maxLength:"1024"`
	}
}

type sessionOutput struct {
	SetCookie stdhttp.Cookie `header:"Set-Cookie"`
	Body      auth.Session
}

type logoutInput struct {
	Token string `cookie:"admin_session"`
}

type logoutOutput struct {
	SetCookie stdhttp.Cookie `header:"Set-Cookie"`
}

type currentSessionOutput struct {
	Body auth.Session
}

type documentInput[T any] struct {
	Body T
}

type documentOutput[T any] struct {
	Body T
}

type listOutput[T any] struct {
	Source string `header:"X-Content-Source" doc:"Tier that served the list: remote, cache or default"`
	Body   []T
}

type updateInput[T any] struct {
	ID   string `path:"id" doc:"Record identifier"`
	Body T
}

type messageReadInput struct {
	ID   string `path:"id" doc:"Message identifier"`
	Body struct {
		Read bool `json:"read"`
	}
}

// adminOperation describes an operation behind the admin session check.
func (s *Server) adminOperation(id, method, path, summary string, errors ...int) huma.Operation {
	return huma.Operation{
		OperationID: id,
		Method:      method,
		Path:        path,
		Summary:     summary,
		Tags:        []string{"admin"},
		Security:    []map[string][]string{{adminSecurityScheme: {}}},
		Middlewares: huma.Middlewares{s.requireAdmin()},
		Errors:      append([]int{stdhttp.StatusUnauthorized}, errors...),
	}
}

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "admin-login",
		Method:      stdhttp.MethodPost,
		Path:        "/api/admin/login",
		Summary:     "Open an admin session",
		Tags:        []string{"admin"},
		Errors:      []int{stdhttp.StatusUnauthorized},
	}, s.loginHandler)

	huma.Register(s.api, huma.Operation{
		OperationID:   "admin-logout",
		Method:        stdhttp.MethodPost,
		Path:          "/api/admin/logout",
		Summary:       "Close the admin session",
		Tags:          []string{"admin"},
		DefaultStatus: stdhttp.StatusNoContent,
	}, s.logoutHandler)

	huma.Register(s.api, s.adminOperation("admin-session", stdhttp.MethodGet, "/api/admin/session", "Current admin session"), s.sessionHandler)

	registerDocument(s, "hero", "/api/admin/hero", s.content.HeroData, s.content.UpdateHero)
	registerDocument(s, "about", "/api/admin/about", s.content.AboutData, s.content.UpdateAbout)
	registerDocument(s, "visibility", "/api/admin/visibility", s.content.SectionVisibility, s.content.UpdateSectionVisibility)

	registerCollection(s, "experiences", "/api/admin/experiences", s.content.Experiences())
	registerCollection(s, "education", "/api/admin/education", s.content.Education())
	registerCollection(s, "publications", "/api/admin/publications", s.content.Publications())
	registerCollection(s, "trainings", "/api/admin/trainings", s.content.Trainings())
	registerCollection(s, "skills", "/api/admin/skills", s.content.Skills())
	registerCollection(s, "blog", "/api/admin/blog", s.content.Posts())

	s.registerMessageRoutes()
	s.registerImageRoutes()
}

func (s *Server) loginHandler(ctx context.Context, input *loginInput) (*sessionOutput, error) {
	session, err := s.auth.Login(input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, s.apiError(ctx, err, "admin login", nil)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"component":  "auth",
			"email":      session.Email,
			"request_id": RequestIDFromContext(ctx),
		}).Info("admin logged in")
	}

	return &sessionOutput{
		SetCookie: s.sessionCookie(session.Token, session.ExpiresAt),
		Body:      session,
	}, nil
}

func (s *Server) logoutHandler(_ context.Context, input *logoutInput) (*logoutOutput, error) {
	if input.Token != "" {
		s.auth.Logout(input.Token)
	}
	return &logoutOutput{SetCookie: s.sessionCookie("", time.Unix(0, 0))}, nil
}

func (s *Server) sessionHandler(ctx context.Context, _ *struct{}) (*currentSessionOutput, error) {
	session, ok := SessionFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Admin session required. Please log in.")
	}
	return &currentSessionOutput{Body: session}, nil
}

// sessionCookie builds the admin cookie. An empty token clears it.
func (s *Server) sessionCookie(token string, expires time.Time) stdhttp.Cookie {
	cookie := stdhttp.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires.UTC(),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: stdhttp.SameSiteLaxMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

// registerDocument exposes GET and PUT for one singleton document.
func registerDocument[T any](s *Server, name, path string, get func(context.Context) T, set func(context.Context, T) (T, error)) {
	huma.Register(s.api, s.adminOperation("get-"+name, stdhttp.MethodGet, path, "Read "+name),
		func(ctx context.Context, _ *struct{}) (*documentOutput[T], error) {
			return &documentOutput[T]{Body: get(ctx)}, nil
		})

	huma.Register(s.api, s.adminOperation("put-"+name, stdhttp.MethodPut, path, "Replace "+name, stdhttp.StatusBadRequest),
		func(ctx context.Context, input *documentInput[T]) (*documentOutput[T], error) {
			saved, err := set(ctx, input.Body)
			if err != nil {
				return nil, s.apiError(ctx, err, "saving "+name, nil)
			}
			return &documentOutput[T]{Body: saved}, nil
		})
}

// registerCollection exposes list, create, replace and delete for one collection.
func registerCollection[T content.Record[T]](s *Server, name, path string, store *content.Collection[T]) {
	huma.Register(s.api, s.adminOperation("list-"+name, stdhttp.MethodGet, path, "List "+name),
		func(ctx context.Context, _ *struct{}) (*listOutput[T], error) {
			items, source := store.List(ctx)
			return &listOutput[T]{Source: string(source), Body: items}, nil
		})

	create := s.adminOperation("create-"+name, stdhttp.MethodPost, path, "Create "+name, stdhttp.StatusBadRequest)
	create.DefaultStatus = stdhttp.StatusCreated
	huma.Register(s.api, create,
		func(ctx context.Context, input *documentInput[T]) (*documentOutput[T], error) {
			saved, err := store.Add(ctx, input.Body)
			if err != nil {
				return nil, s.apiError(ctx, err, "creating "+name, nil)
			}
			return &documentOutput[T]{Body: saved}, nil
		})

	huma.Register(s.api, s.adminOperation("update-"+name, stdhttp.MethodPut, path+"/{id}", "Replace one of "+name,
		stdhttp.StatusBadRequest, stdhttp.StatusNotFound),
		func(ctx context.Context, input *updateInput[T]) (*documentOutput[T], error) {
			id := strings.TrimSpace(input.ID)
			saved, err := store.Update(ctx, id, input.Body)
			if err != nil {
				return nil, s.apiError(ctx, err, "updating "+name, logrus.Fields{"id": id})
			}
			return &documentOutput[T]{Body: saved}, nil
		})

	remove := s.adminOperation("delete-"+name, stdhttp.MethodDelete, path+"/{id}", "Delete one of "+name, stdhttp.StatusNotFound)
	remove.DefaultStatus = stdhttp.StatusNoContent
	huma.Register(s.api, remove,
		func(ctx context.Context, input *idInput) (*struct{}, error) {
			id := strings.TrimSpace(input.ID)
			if err := store.Delete(ctx, id); err != nil {
				return nil, s.apiError(ctx, err, "deleting "+name, logrus.Fields{"id": id})
			}
			return nil, nil
		})
}

func (s *Server) registerMessageRoutes() {
	messages := s.content.Messages()

	huma.Register(s.api, s.adminOperation("list-messages", stdhttp.MethodGet, "/api/admin/messages", "List contact messages"),
		func(ctx context.Context, _ *struct{}) (*listOutput[content.Message], error) {
			items, source := messages.List(ctx)
			return &listOutput[content.Message]{Source: string(source), Body: items}, nil
		})

	huma.Register(s.api, s.adminOperation("mark-message", stdhttp.MethodPatch, "/api/admin/messages/{id}", "Set the read flag of a message", stdhttp.StatusNotFound),
		func(ctx context.Context, input *messageReadInput) (*documentOutput[content.Message], error) {
			id := strings.TrimSpace(input.ID)
			saved, err := s.content.MarkMessageRead(ctx, id, input.Body.Read)
			if err != nil {
				return nil, s.apiError(ctx, err, "updating message", logrus.Fields{"id": id})
			}
			return &documentOutput[content.Message]{Body: saved}, nil
		})

	remove := s.adminOperation("delete-message", stdhttp.MethodDelete, "/api/admin/messages/{id}", "Delete a message", stdhttp.StatusNotFound)
	remove.DefaultStatus = stdhttp.StatusNoContent
	huma.Register(s.api, remove,
		func(ctx context.Context, input *idInput) (*struct{}, error) {
			id := strings.TrimSpace(input.ID)
			if err := messages.Delete(ctx, id); err != nil {
				return nil, s.apiError(ctx, err, "deleting message", logrus.Fields{"id": id})
			}
			return nil, nil
		})
}
