package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/leca/dt-pokeapi/internal/config"
	"github.com/leca/dt-pokeapi/internal/database"
	"github.com/leca/dt-pokeapi/internal/storage"
)

// APIPrefix is the mount point of the catalog routes.
const APIPrefix = "/api/v2"

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	DB     database.Database
	Store  storage.Storage
	Config *config.Config
}

// baseURL returns the configured API base, or one derived from the request
// when none is configured.
func (h *Handler) baseURL(r *http.Request) string {
	if h.Config != nil && h.Config.BaseURL != "" {
		return h.Config.BaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + APIPrefix
}

var nameRE = regexp.MustCompile(`^[a-z0-9-]+$`)

// identifier is a parsed {id_or_name} path segment.
type identifier struct {
	id   int
	name string
}

// parseIdentifier accepts a numeric id or a lowercase slug. ok is false for
// anything else.
func parseIdentifier(raw string) (identifier, bool) {
	raw = strings.ToLower(raw)
	if !nameRE.MatchString(raw) {
		return identifier{}, false
	}
	if n, err := strconv.Atoi(raw); err == nil && !strings.HasPrefix(raw, "-") {
		return identifier{id: n}, true
	}
	return identifier{name: raw}, true
}
