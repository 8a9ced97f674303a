// Package server exposes the studio over HTTP: the UI page, the JSON API,
// generated audio files and Prometheus metrics.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arpagon/eightzeros/internal/studio"
	"github.com/arpagon/eightzeros/internal/web"
)

// Server holds handler dependencies.
type Server struct {
	studio  *studio.Studio
	page    web.Page
	origins []string
	logger  *zap.Logger
}

// New creates a Server. page carries the UI settings that do not come
// from the audio package (title, embed URL, model name). origins lists the
// browser origins allowed to call the API cross-site; nil keeps it
// same-origin.
func New(st *studio.Studio, page web.Page, origins []string, logger *zap.Logger) *Server {
	return &Server{studio: st, page: page, origins: origins, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestID)
	r.Use(accessLog(s.logger))
	r.Use(chimw.Recoverer)
	// cors treats an empty origin list as "*", so only mount it when
	// origins are configured.
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/", s.Index)
	r.Get("/logo.svg", s.Logo)
	r.Get("/healthz", s.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/audio/{name}", s.Audio)

	r.Route("/api", func(r chi.Router) {
		r.Get("/waveform", s.Waveform)
		r.Post("/sine", s.GenerateSine)
		r.Post("/inference", s.Inference)
	})
	return r
}
