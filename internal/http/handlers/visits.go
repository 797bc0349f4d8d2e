package handlers

import (
	"net/http"

	"viewtracker/internal/domain"
	"viewtracker/internal/middleware"
)

// Increment records one page view: bump today's counter, upsert the visitor,
// mark them online, and hand the identifier back as a long-lived cookie.
//
// The counter is written first on purpose. If the visitor upsert fails
// afterwards the view is already durable and bookkeeping lags by one event;
// undercounting visitors beats overcounting views.
func (a *App) Increment(w http.ResponseWriter, r *http.Request) {
	now := a.now()
	visitorID := a.resolveVisitorID(r)

	views, err := a.Days.IncrementToday(r.Context(), domain.DayOf(now))
	if err != nil {
		a.Logger.Error().Err(err).Msg("increment day count failed")
		a.error(w, http.StatusInternalServerError, "failed to record view")
		return
	}

	country := a.resolveCountry(r)
	locale := middleware.PreferredLocale(r.Header.Get("Accept-Language"))

	if _, isNew, err := a.Visitors.Upsert(r.Context(), visitorID, now, country, locale); err != nil {
		// The view itself is already counted.
		a.Logger.Error().Err(err).Str("visitor_id", visitorID).Msg("visitor upsert failed")
		a.error(w, http.StatusInternalServerError, "failed to record visitor")
		return
	} else if isNew {
		a.Logger.Debug().Str("visitor_id", visitorID).Msg("new visitor")
	}

	a.Presence.Touch(visitorID, now)
	a.setVisitorCookie(w, visitorID)
	a.json(w, http.StatusOK, map[string]any{"views": views})
}

// Counts reports today's and yesterday's view totals. Days without a bucket
// read as zero.
func (a *App) Counts(w http.ResponseWriter, r *http.Request) {
	now := a.now()
	today := domain.DayOf(now)
	yesterday := today.AddDate(0, 0, -1)

	todayCount, err := a.Days.CountFor(r.Context(), today)
	if err != nil {
		a.Logger.Error().Err(err).Msg("read today count failed")
		a.error(w, http.StatusInternalServerError, "failed to load counts")
		return
	}
	yesterdayCount, err := a.Days.CountFor(r.Context(), yesterday)
	if err != nil {
		a.Logger.Error().Err(err).Msg("read yesterday count failed")
		a.error(w, http.StatusInternalServerError, "failed to load counts")
		return
	}

	a.json(w, http.StatusOK, map[string]int64{
		"today":     todayCount,
		"yesterday": yesterdayCount,
	})
}

// UniqueUsers reports how many distinct visitors have ever been recorded.
func (a *App) UniqueUsers(w http.ResponseWriter, r *http.Request) {
	total, err := a.Visitors.CountDistinct(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("count visitors failed")
		a.error(w, http.StatusInternalServerError, "failed to load unique users")
		return
	}
	a.json(w, http.StatusOK, map[string]int64{"unique_users": total})
}

// Online reports how many visitors were seen within the presence window.
// The tracker is process-local, so the number resets on restart.
func (a *App) Online(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]int{
		"online_count": a.Presence.OnlineCount(a.now()),
	})
}

// resolveVisitorID takes the identifier from the request cookie when it is
// present and well-formed, otherwise mints a fresh one.
func (a *App) resolveVisitorID(r *http.Request) string {
	cookie, err := r.Cookie(VisitorCookieName)
	if err != nil || cookie.Value == "" {
		return domain.NewVisitorID()
	}
	if err := domain.ValidateVisitorID(cookie.Value); err != nil {
		a.Logger.Warn().Err(err).Msg("rejecting visitor cookie")
		return domain.NewVisitorID()
	}
	return cookie.Value
}

func (a *App) resolveCountry(r *http.Request) string {
	if a.Country == nil {
		return ""
	}
	ip := middleware.ClientIP(r)
	if ip == "" {
		return ""
	}
	code, err := a.Country.CountryCode(ip)
	if err != nil {
		a.Logger.Debug().Err(err).Str("ip", ip).Msg("country lookup failed")
		return ""
	}
	return code
}

func (a *App) setVisitorCookie(w http.ResponseWriter, visitorID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookieName,
		Value:    visitorID,
		Path:     "/",
		MaxAge:   int(a.CookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
