package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mahjong-seisan/internal/session"
	"mahjong-seisan/internal/settlement"
)

func newTestHandler(t *testing.T) (http.Handler, session.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := session.DefaultOptions()
	opts.Logger = logger
	svc := session.NewService(session.NewMemoryStore(), opts)
	h := NewHandler(svc, Options{Logger: logger, DefaultLang: "ja"})
	return h.Routes(), svc
}

// newSession starts a session through the page and returns its cookie
func newSession(t *testing.T, routes http.Handler) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func postForm(routes http.Handler, path string, cookie *http.Cookie, form url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, r)
	return w
}

func getPage(routes http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, r)
	return w
}

func playersForm(scores ...string) url.Values {
	form := url.Values{}
	names := []string{"あき", "はる", "なつ", "ふゆ"}
	for i, score := range scores {
		form.Set("name"+string(rune('0'+i)), names[i])
		form.Set("score"+string(rune('0'+i)), score)
	}
	return form
}

func TestIndexRendersDefaults(t *testing.T) {
	routes, _ := newTestHandler(t)

	w := getPage(routes, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "麻雀精算アプリ")
	assert.Contains(t, body, `value="プレイヤー1"`)
	assert.Contains(t, body, `value="25000"`)
	assert.NotContains(t, body, `id="results"`)
	assert.NotContains(t, body, `name="rate"`, "settings panel starts collapsed")
}

func TestIndexReusesSession(t *testing.T) {
	routes, _ := newTestHandler(t)
	cookie := newSession(t, routes)

	w := getPage(routes, "/", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies(), "existing session keeps its cookie")
}

func TestIndexReplacesUnknownSession(t *testing.T) {
	routes, _ := newTestHandler(t)

	w := getPage(routes, "/", &http.Cookie{Name: SessionCookieName, Value: "stale"})
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "stale", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestIndexLanguage(t *testing.T) {
	routes, _ := newTestHandler(t)

	w := getPage(routes, "/?lang=en", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mahjong Settlement")
	assert.Contains(t, w.Body.String(), `<html lang="en">`)

	var langCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "seisan_lang" {
			langCookie = c
		}
	}
	require.NotNil(t, langCookie)
	assert.Equal(t, "en", langCookie.Value)
}

func TestCalculate(t *testing.T) {
	routes, svc := newTestHandler(t)
	cookie := newSession(t, routes)

	w := postForm(routes, "/calculate", cookie, playersForm("35000", "30000", "20000", "15000"))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/#results", w.Header().Get("Location"))

	s, err := svc.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	require.Len(t, s.Results, settlement.PlayerCount)
	assert.Equal(t, "あき", s.Results[0].Name)
	assert.Equal(t, 55000, s.Results[0].Points)

	page := getPage(routes, "/", cookie).Body.String()
	assert.Contains(t, page, `id="results"`)
	assert.Contains(t, page, "🏆")
	// html/template escapes the plus sign
	assert.Contains(t, page, "&#43;55.0")
	assert.Contains(t, page, "-45.0")
}

func TestCalculateMalformedScore(t *testing.T) {
	routes, svc := newTestHandler(t)
	cookie := newSession(t, routes)

	w := postForm(routes, "/calculate", cookie, playersForm("abc", "30000", "20000", "15000"))
	require.Equal(t, http.StatusSeeOther, w.Code)

	s, err := svc.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Players[0].Score)
	assert.False(t, s.ZeroSum(), "65000 points on the table cannot balance")
}

func TestReset(t *testing.T) {
	routes, svc := newTestHandler(t)
	cookie := newSession(t, routes)

	postForm(routes, "/calculate", cookie, playersForm("35000", "30000", "20000", "15000"))

	w := postForm(routes, "/reset", cookie, url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	s, err := svc.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Nil(t, s.Results)
	for _, p := range s.Players {
		assert.Equal(t, settlement.DefaultStartingPoints, p.Score)
	}
	assert.Equal(t, "あき", s.Players[0].Name)
}

func TestToggleSettings(t *testing.T) {
	routes, _ := newTestHandler(t)
	cookie := newSession(t, routes)

	w := postForm(routes, "/settings/toggle", cookie, url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	page := getPage(routes, "/", cookie).Body.String()
	assert.Contains(t, page, `name="rate"`)
	assert.Contains(t, page, "3位-10, 4位-30")
}

func TestUpdateSettings(t *testing.T) {
	routes, svc := newTestHandler(t)
	cookie := newSession(t, routes)

	form := playersForm("40000", "30000", "20000", "10000")
	form.Set("rate", "5")
	form.Set("starting_points", "25000")
	form.Set("return_points", "30000")
	form.Set("uma_preset", "5-10")
	form.Set("tie_break", "split")

	w := postForm(routes, "/settings", cookie, form)
	require.Equal(t, http.StatusSeeOther, w.Code)

	s, err := svc.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Settings.Rate)
	assert.Equal(t, "5-10", s.Settings.UmaPreset)
	assert.Equal(t, 10, s.Settings.Uma.First)
	assert.Equal(t, settlement.TieBreakSplit, s.Settings.TieBreak)
	assert.Equal(t, 40000, s.Players[0].Score, "typed scores are kept")
	assert.Nil(t, s.Results)
}

func TestUpdateSettingsKeepsAbsentPoints(t *testing.T) {
	routes, svc := newTestHandler(t)
	cookie := newSession(t, routes)

	form := url.Values{}
	form.Set("rate", "10")

	w := postForm(routes, "/settings", cookie, form)
	require.Equal(t, http.StatusSeeOther, w.Code)

	s, err := svc.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, 10, s.Settings.Rate)
	assert.Equal(t, settlement.DefaultStartingPoints, s.Settings.StartingPoints)
	assert.Equal(t, settlement.DefaultReturnPoints, s.Settings.ReturnPoints)
}

func TestUpdateSettingsUnknownPresetKeepsUma(t *testing.T) {
	routes, svc := newTestHandler(t)
	cookie := newSession(t, routes)

	form := url.Values{}
	form.Set("rate", "3")
	form.Set("starting_points", "25000")
	form.Set("return_points", "30000")
	form.Set("uma_preset", "99-99")

	w := postForm(routes, "/settings", cookie, form)
	require.Equal(t, http.StatusSeeOther, w.Code)

	s, err := svc.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, settlement.DefaultSettings(), s.Settings)
}

func TestUpdateSettingsRejectsInvalid(t *testing.T) {
	routes, _ := newTestHandler(t)
	cookie := newSession(t, routes)

	tests := []struct {
		name  string
		field string
		value string
	}{
		{"Unknown rate", "rate", "7"},
		{"Negative starting points", "starting_points", "-100"},
		{"Unknown tie-break", "tie_break", "coin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("rate", "3")
			form.Set("starting_points", "25000")
			form.Set("return_points", "30000")
			form.Set(tt.field, tt.value)

			w := postForm(routes, "/settings", cookie, form)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHealth(t *testing.T) {
	routes, _ := newTestHandler(t)

	w := getPage(routes, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Empty(t, w.Result().Cookies(), "health checks do not start sessions")
}
