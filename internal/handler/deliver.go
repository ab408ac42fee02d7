package handler

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/leca/dt-pokeapi/internal/api"
	"github.com/leca/dt-pokeapi/internal/database"
	"github.com/leca/dt-pokeapi/internal/sprite"
)

// DeliverSprite handles GET /sprites/pokemon/{file} -- serves the front
// sprite of a pokemon, rendering and storing it on first request. An
// optional ?size= rescales the square sprite.
func (h *Handler) DeliverSprite(w http.ResponseWriter, r *http.Request) {
	idStr, ok := strings.CutSuffix(chi.URLParam(r, "file"), ".png")
	id, err := strconv.Atoi(idStr)
	if !ok || err != nil || id < 1 {
		api.NotFound(w)
		return
	}

	size := sprite.Size
	if v := r.URL.Query().Get("size"); v != "" {
		size, err = strconv.Atoi(v)
		if err != nil || size < 1 || size > sprite.MaxSize {
			api.BadRequest(w)
			return
		}
	}

	if _, err := h.DB.GetPokemon(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			api.NotFound(w)
			return
		}
		slog.Error("DeliverSprite: lookup failed", "id", id, "error", err)
		api.InternalError(w)
		return
	}

	data, err := h.loadSprite(id)
	if err != nil {
		slog.Error("DeliverSprite: load failed", "id", id, "error", err)
		api.InternalError(w)
		return
	}

	if size != sprite.Size {
		data, err = sprite.Resize(bytes.NewReader(data), size)
		if err != nil {
			slog.Error("DeliverSprite: resize failed", "id", id, "error", err)
			api.InternalError(w)
			return
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("DeliverSprite: failed to write response", "error", err)
	}
}

// loadSprite returns the stored sprite of id, rendering and storing it when
// missing.
func (h *Handler) loadSprite(id int) ([]byte, error) {
	stored, err := h.Store.Exists("pokemon", id)
	if err != nil {
		return nil, err
	}
	if stored {
		rc, err := h.Store.Retrieve("pokemon", id)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	data, err := sprite.Render(id)
	if err != nil {
		return nil, err
	}
	if _, err := h.Store.Store("pokemon", id, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return data, nil
}
