// Package httpapi wires the generation endpoints into a chi router.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pptgen/internal/config"
	"pptgen/internal/httpapi/handlers"
	"pptgen/internal/httpkit"
	"pptgen/internal/pkg/logger"
	"pptgen/internal/pkg/middleware"
	"pptgen/internal/session"
	"pptgen/internal/worker/queue"
)

type Deps struct {
	Cfg      config.Config
	Sessions *session.Store
	Queue    queue.Queue
	Log      *logger.Logger
	Generate handlers.GenerateFunc
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log.WithComponent("http")))

	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins:   d.Cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAgeSeconds:    600,
	}))

	h := handlers.New(handlers.Deps{
		Cfg:      d.Cfg,
		Sessions: d.Sessions,
		Queue:    d.Queue,
		Log:      log,
		Generate: d.Generate,
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/models", h.Models)

		r.Group(func(r chi.Router) {
			if d.Cfg.RequestTimeout > 0 {
				r.Use(middleware.Timeout(d.Cfg.RequestTimeout))
			}
			if d.Cfg.MaxUploadBytes > 0 {
				r.Use(middleware.MaxBytes(d.Cfg.MaxUploadBytes))
			}
			r.Post("/generate", h.Generate)
		})

		r.Get("/pdf_status/{sessionID}", h.PDFStatus)
		r.Get("/preview/{sessionID}", h.Preview)
		r.Get("/download/{sessionID}", h.Download)
	})

	r.Get("/sessions/{sessionID}/output.pdf", h.ServePDF)

	// Static front end.
	if d.Cfg.WebDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(d.Cfg.WebDir)))
	}

	return r
}
