package http

import (
	"bytes"
	"embed"
	"io/fs"
	stdhttp "net/http"
	"time"

	"github.com/rotisserie/eris"
)

//go:embed static/*
var staticFiles embed.FS

const svgContentType = "image/svg+xml"

func newStaticAssetHandler() (stdhttp.Handler, error) {
	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, eris.Wrap(err, "preparing static assets filesystem")
	}

	return stdhttp.StripPrefix("/static/", stdhttp.FileServer(stdhttp.FS(assets))), nil
}

// serveEmbedded serves one embedded file at a fixed path.
func serveEmbedded(name, contentType string) stdhttp.HandlerFunc {
	data, err := staticFiles.ReadFile("static/" + name)

	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if err != nil || len(data) == 0 {
			w.WriteHeader(stdhttp.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=86400")
		stdhttp.ServeContent(w, r, name, time.Time{}, bytes.NewReader(data))
	}
}

func (s *Server) registerStaticRoutes() {
	favicon := serveEmbedded("favicon.svg", svgContentType)
	for _, path := range []string{"/favicon.ico", "/favicon.svg"} {
		s.mux.HandleFunc("GET "+path, favicon)
		s.mux.HandleFunc("HEAD "+path, favicon)
	}
	s.mux.HandleFunc("GET /placeholder.svg", serveEmbedded("placeholder.svg", svgContentType))

	handler, err := newStaticAssetHandler()
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Error("registering static assets handler failed")
		}
		return
	}

	s.mux.Handle("GET /static/", handler)
	s.mux.Handle("HEAD /static/", handler)
}
