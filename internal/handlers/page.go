package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"
	"github.com/gin-gonic/gin"

	"cellar_thermostat/internal/service"
)

const indexFile = "index.html"

// tokens maps the %NAME% markers of index.html to their substitutions.
// TEMP triggers a real sensor reading; the page always shows a fresh
// value on load.
func (h *Handler) tokens() map[string]func() string {
	return map[string]func() string{
		"TEMP": func() string {
			t := h.services.Read()
			if math32.IsNaN(t) {
				return errorBody
			}
			return formatTemp(t)
		},
		"MIN_TEMP":   func() string { return formatTemp(service.DefaultLower) },
		"MAX_TEMP":   func() string { return formatTemp(service.DefaultUpper) },
		"LOWER_TEMP": func() string { return formatTemp(h.services.Current().Lower) },
		"UPPER_TEMP": func() string { return formatTemp(h.services.Current().Upper) },
	}
}

// index renders the operator page: index.html from the assets directory
// with its template markers substituted.
func (h *Handler) index(c *gin.Context) {
	raw, err := os.ReadFile(filepath.Join(h.assetsDir, indexFile))
	if err != nil {
		if h.log != nil {
			h.log.Errorw("index_page_unavailable", "err", err)
		}
		c.Status(http.StatusNotFound)
		return
	}
	page := renderPage(string(raw), h.tokens())
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// renderPage substitutes %NAME% markers. Unrecognized token names render
// as the empty string; %% collapses to a literal percent; a stray % that
// opens no well-formed marker passes through untouched.
func renderPage(tmpl string, tokens map[string]func() string) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(tmpl, '%')
		if open < 0 {
			b.WriteString(tmpl)
			break
		}
		b.WriteString(tmpl[:open])
		rest := tmpl[open+1:]

		end := strings.IndexByte(rest, '%')
		if end < 0 {
			b.WriteByte('%')
			tmpl = rest
			continue
		}

		name := rest[:end]
		switch {
		case name == "":
			b.WriteByte('%')
			tmpl = rest[end+1:]
		case isTokenName(name):
			if fn, ok := tokens[name]; ok {
				b.WriteString(fn())
			}
			tmpl = rest[end+1:]
		default:
			b.WriteByte('%')
			tmpl = rest
		}
	}
	return b.String()
}

// isTokenName reports whether s looks like a template marker name
// (uppercase, digits, underscores).
func isTokenName(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
