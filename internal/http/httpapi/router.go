package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"viewtracker/internal/http/handlers"
	"viewtracker/internal/infra"
	"viewtracker/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		middleware.Logger(logger),
		chimw.Recoverer,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

	r.Get("/healthz", app.Health)

	r.Post("/increment", app.Increment)
	r.Get("/count", app.Counts)
	r.Get("/unique_users", app.UniqueUsers)
	r.Get("/online", app.Online)

	return r
}
