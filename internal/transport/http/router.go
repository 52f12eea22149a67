package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"talentgate/internal/application/service"
	"talentgate/pkg/domain"
	"talentgate/pkg/requestcontext"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// NewRouter assembles the API surface.
func NewRouter(engine *service.Engine, validator TokenValidator, logger *slog.Logger) chi.Router {
	h := NewHandler(engine, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestScope)
	r.Use(bearerUser(validator))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/applications", func(r chi.Router) {
			r.Post("/", h.createApplication)
			r.Post("/anonymous", h.createAnonymous)
			r.Get("/mine", h.listMine)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getApplication)
				r.Patch("/status", h.updateStatus)
				r.Delete("/", h.removeApplication)
				r.Post("/notes", h.addNote)
				r.Get("/notes", h.listNotes)
			})
		})
		r.Route("/notes/{noteID}", func(r chi.Router) {
			r.Patch("/", h.updateNote)
			r.Delete("/", h.deleteNote)
		})
		r.Get("/jobs/{jobID}/applications", h.listByJob)

		// Inbound callback from the external analysis service.
		r.Post("/callbacks/analysis", h.analysisCallback)
	})

	return r
}

// pagination reads limit/offset query params with sane bounds.
func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxPageSize)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

func actingUser(r *http.Request) domain.UserID {
	return requestcontext.UserID(r.Context())
}
