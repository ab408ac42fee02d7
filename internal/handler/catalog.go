package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leca/dt-pokeapi/internal/api"
	"github.com/leca/dt-pokeapi/internal/database"
	"github.com/leca/dt-pokeapi/internal/model"
)

// ListPokemon handles GET /pokemon.
func (h *Handler) ListPokemon(w http.ResponseWriter, r *http.Request) {
	limit, offset := api.ParsePage(r.URL.Query())

	entries, total, err := h.DB.ListPokemon(limit, offset)
	if err != nil {
		slog.Error("ListPokemon", "error", err, "correlation_id", api.GetCorrelationID(r.Context()))
		api.InternalError(w)
		return
	}

	base := h.baseURL(r)
	api.WriteJSON(w, http.StatusOK, api.NewListing(base, "pokemon", namedResources(base, entries), total, limit, offset))
}

// GetPokemon handles GET /pokemon/{id_or_name}.
func (h *Handler) GetPokemon(w http.ResponseWriter, r *http.Request) {
	ident, ok := parseIdentifier(chi.URLParam(r, "id_or_name"))
	if !ok {
		api.BadRequest(w)
		return
	}

	var (
		p   *model.Pokemon
		err error
	)
	if ident.name != "" {
		p, err = h.DB.GetPokemonByName(ident.name)
	} else {
		p, err = h.DB.GetPokemon(ident.id)
	}
	if errors.Is(err, database.ErrNotFound) {
		api.NotFound(w)
		return
	}
	if err != nil {
		slog.Error("GetPokemon", "error", err, "correlation_id", api.GetCorrelationID(r.Context()))
		api.InternalError(w)
		return
	}

	base := h.baseURL(r)
	for i := range p.Abilities {
		p.Abilities[i].Ability.URL = api.ResourceURL(base, p.Abilities[i].Ability.URL)
	}
	for i := range p.Moves {
		p.Moves[i].Move.URL = api.ResourceURL(base, p.Moves[i].Move.URL)
	}
	for i := range p.Stats {
		p.Stats[i].Stat.URL = api.ResourceURL(base, p.Stats[i].Stat.URL)
	}
	for i := range p.Types {
		p.Types[i].Type.URL = api.ResourceURL(base, p.Types[i].Type.URL)
	}
	front := api.ResourceURL(base, spritePath(p.ID))
	p.Sprites.FrontDefault = &front

	api.WriteJSON(w, http.StatusOK, p)
}

// ListResources returns the handler of GET /{kind}.
func (h *Handler) ListResources(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := api.ParsePage(r.URL.Query())

		entries, total, err := h.DB.ListResources(kind, limit, offset)
		if err != nil {
			slog.Error("ListResources", "kind", kind, "error", err)
			api.InternalError(w)
			return
		}

		base := h.baseURL(r)
		api.WriteJSON(w, http.StatusOK, api.NewListing(base, kind, namedResources(base, entries), total, limit, offset))
	}
}

// GetResource returns the handler of GET /{kind}/{id_or_name}.
func (h *Handler) GetResource(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := parseIdentifier(chi.URLParam(r, "id_or_name"))
		if !ok {
			api.BadRequest(w)
			return
		}

		var (
			res *model.Resource
			err error
		)
		if ident.name != "" {
			res, err = h.DB.GetResourceByName(kind, ident.name)
		} else {
			res, err = h.DB.GetResource(kind, ident.id)
		}
		if errors.Is(err, database.ErrNotFound) {
			api.NotFound(w)
			return
		}
		if err != nil {
			slog.Error("GetResource", "kind", kind, "error", err)
			api.InternalError(w)
			return
		}

		api.WriteJSON(w, http.StatusOK, res)
	}
}

func namedResources(base string, entries []*model.Resource) []model.NamedAPIResource {
	out := make([]model.NamedAPIResource, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.NamedAPIResource{
			Name: e.Name,
			URL:  api.ResourceURL(base, database.ResourcePath(e.Kind, e.ID)),
		})
	}
	return out
}

func spritePath(id int) string {
	return "sprites/pokemon/" + strconv.Itoa(id) + ".png"
}
