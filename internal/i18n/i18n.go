// Package i18n resolves the page language and holds the UI message catalog.
//
// Messages are registered with golang.org/x/text/message under a stable key;
// formatting through a Printer also groups digits for the language.
package i18n

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "seisan_lang"
)

var supported = []language.Tag{language.Japanese, language.English}

var matcher = language.NewMatcher(supported)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	return supported
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ParseTag matches value against the supported languages
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Und, false
	}
	return supported[idx], true
}

// Resolver picks the language for a request
type Resolver struct {
	Default language.Tag
}

// NewResolver builds a resolver whose fallback is defaultLang, or Japanese
// when defaultLang is not supported
func NewResolver(defaultLang string) *Resolver {
	tag, ok := ParseTag(defaultLang)
	if !ok {
		tag = language.Japanese
	}
	return &Resolver{Default: tag}
}

// Resolve determines the best language tag for the request: query param,
// then cookie, then Accept-Language. The bool indicates whether the query
// param should be persisted as a cookie.
func (res *Resolver) Resolve(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return res.Default, false
	}

	if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
		return tag, true
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			if _, idx, conf := matcher.Match(tags...); conf != language.No {
				return supported[idx], false
			}
		}
	}

	return res.Default, false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
