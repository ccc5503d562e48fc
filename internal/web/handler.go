package web

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"mahjong-seisan/internal/i18n"
	"mahjong-seisan/internal/session"
	"mahjong-seisan/internal/settlement"
)

const SessionCookieName = "seisan_session"

// Options configures the web handler
type Options struct {
	Logger        *slog.Logger
	DefaultLang   string
	SecureCookies bool
}

type Handler struct {
	sessions      session.Service
	logger        *slog.Logger
	langs         *i18n.Resolver
	secureCookies bool
	upgrader      websocket.Upgrader
}

func NewHandler(sessions session.Service, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Handler{
		sessions:      sessions,
		logger:        opts.Logger,
		langs:         i18n.NewResolver(opts.DefaultLang),
		secureCookies: opts.SecureCookies,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.GET("/", h.withSession(h.Index))
	router.POST("/calculate", h.withSession(h.Calculate))
	router.POST("/reset", h.withSession(h.Reset))
	router.POST("/settings", h.withSession(h.UpdateSettings))
	router.POST("/settings/toggle", h.withSession(h.ToggleSettings))

	router.GET("/api/presets", h.ListPresets)
	router.GET("/api/rates", h.ListRates)
	router.GET("/api/defaults", h.GetDefaults)
	router.POST("/api/settle", h.Settle)
	router.GET("/api/session", h.withSession(h.GetSession))
	router.GET("/api/session/events", h.withSession(h.SubscribeToEvents))

	router.GET("/healthz", h.Health)

	router.PanicHandler = h.recoverPanic

	return h.logRequests(router)
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s := session.FromContext(r.Context())

	tag, persist := h.langs.Resolve(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "index.html", newPageView(s, tag)); err != nil {
		h.serverError(w, r, fmt.Errorf("failed to render page: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := h.applyForm(w, r)
	if !ok {
		return
	}

	if _, err := h.sessions.Calculate(r.Context(), s.ID); err != nil {
		h.sessionError(w, r, err)
		return
	}

	http.Redirect(w, r, "/#results", http.StatusSeeOther)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := h.applyForm(w, r)
	if !ok {
		return
	}

	if _, err := h.sessions.Reset(r.Context(), s.ID); err != nil {
		h.sessionError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, ok := h.applyForm(w, r); !ok {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) ToggleSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := h.applyForm(w, r)
	if !ok {
		return
	}

	if _, err := h.sessions.ToggleSettings(r.Context(), s.ID); err != nil {
		h.sessionError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// applyForm stores whatever the calculator form carried: the four seats when
// present, then the settings when present. Every button submits the same
// form, so typed scores survive a settings change.
func (h *Handler) applyForm(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return nil, false
	}

	ctx := r.Context()
	s := session.FromContext(ctx)

	if _, ok := r.PostForm["score0"]; ok {
		var seats [settlement.PlayerCount]session.SeatInput
		for i := range seats {
			seats[i] = session.SeatInput{
				Name:  r.PostFormValue("name" + strconv.Itoa(i)),
				Score: r.PostFormValue("score" + strconv.Itoa(i)),
			}
		}
		updated, err := h.sessions.UpdatePlayers(ctx, s.ID, seats)
		if err != nil {
			h.sessionError(w, r, err)
			return nil, false
		}
		s = updated
	}

	if _, ok := r.PostForm["rate"]; ok {
		settings := s.Settings
		if id := r.PostFormValue("uma_preset"); id != "" {
			// Unknown presets leave the uma alone
			if withPreset, err := settings.WithPreset(id); err == nil {
				settings = withPreset
			}
		}
		settings.Rate = settlement.ParseScore(r.PostFormValue("rate"))
		// Absent fields keep the session's current value
		if _, ok := r.PostForm["starting_points"]; ok {
			settings.StartingPoints = settlement.ParseScore(r.PostFormValue("starting_points"))
		}
		if _, ok := r.PostForm["return_points"]; ok {
			settings.ReturnPoints = settlement.ParseScore(r.PostFormValue("return_points"))
		}
		if tb := r.PostFormValue("tie_break"); tb != "" {
			settings.TieBreak = settlement.TieBreak(tb)
		}

		updated, err := h.sessions.UpdateSettings(ctx, s.ID, settings)
		if err != nil {
			h.sessionError(w, r, err)
			return nil, false
		}
		s = updated
	}

	return s, true
}

// withSession loads the caller's session from its cookie, starting a new one
// when the cookie is missing or the session has expired
func (h *Handler) withSession(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := r.Context()

		var s *session.Session
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			s, err = h.sessions.Get(ctx, cookie.Value)
			if err != nil && !errors.Is(err, session.ErrSessionNotFound) {
				h.serverError(w, r, err)
				return
			}
		}

		if s == nil {
			created, err := h.sessions.Create(ctx)
			if err != nil {
				h.serverError(w, r, err)
				return
			}
			s = created
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    s.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   h.secureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next(w, r.WithContext(session.WithSession(ctx, s)), ps)
	}
}

func (h *Handler) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, settlement.ErrInvalidSettings), errors.Is(err, session.ErrInvalidSeat):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, session.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (h *Handler) recoverPanic(w http.ResponseWriter, r *http.Request, v interface{}) {
	h.serverError(w, r, fmt.Errorf("panic: %v", v))
}
