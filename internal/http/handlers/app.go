package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"viewtracker/internal/domain"
	"viewtracker/internal/infra/geoip"
	"viewtracker/internal/presence"
)

// VisitorCookieName carries the visitor identifier between visits.
const VisitorCookieName = "user_id"

// App bundles the stores and helpers the handlers need. Repositories are the
// domain interfaces so tests can inject in-memory fakes.
type App struct {
	Days     domain.DayCountRepository
	Visitors domain.VisitorRepository
	Presence *presence.Tracker
	Country  geoip.CountryResolver // nil when no GeoIP database is configured
	Logger   zerolog.Logger

	// CookieMaxAge is the TTL of the visitor cookie, about a year in
	// production.
	CookieMaxAge time.Duration

	// Clock is overridable in tests; defaults to time.Now.
	Clock func() time.Time
}

// NewApp wires the handler container.
func NewApp(days domain.DayCountRepository, visitors domain.VisitorRepository, tracker *presence.Tracker, country geoip.CountryResolver, logger zerolog.Logger, cookieMaxAge time.Duration) *App {
	return &App{
		Days:         days,
		Visitors:     visitors,
		Presence:     tracker,
		Country:      country,
		Logger:       logger,
		CookieMaxAge: cookieMaxAge,
		Clock:        time.Now,
	}
}

func (a *App) now() time.Time {
	if a.Clock != nil {
		return a.Clock()
	}
	return time.Now()
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}
