package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/leca/dt-pokeapi/internal/api"
	"github.com/leca/dt-pokeapi/internal/config"
	"github.com/leca/dt-pokeapi/internal/database"
	"github.com/leca/dt-pokeapi/internal/handler"
	"github.com/leca/dt-pokeapi/internal/storage"
)

// Server holds the application dependencies and HTTP router.
type Server struct {
	DB     database.Database
	Store  storage.Storage
	Config *config.Config
	Router chi.Router
}

// New creates a new Server with a fully configured chi router.
func New(db database.Database, store storage.Storage, cfg *config.Config) *Server {
	s := &Server{DB: db, Store: store, Config: cfg}

	h := &handler.Handler{
		DB:     db,
		Store:  store,
		Config: cfg,
	}

	r := chi.NewRouter()

	// CORS runs first so preflight OPTIONS requests are answered directly.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type", api.CorrelationHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(api.SecurityHeadersMiddleware)
	r.Use(api.CorrelationIDMiddleware)

	r.Get("/health", s.Health)

	r.Route(handler.APIPrefix, func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, cfg.RateWindow))
		}

		r.Get("/pokemon", h.ListPokemon)
		r.Get("/pokemon/{id_or_name}", h.GetPokemon)

		for _, kind := range []string{database.KindAbility, database.KindMove, database.KindItem} {
			r.Get("/"+kind, h.ListResources(kind))
			r.Get("/"+kind+"/{id_or_name}", h.GetResource(kind))
		}

		r.Get("/sprites/pokemon/{file}", h.DeliverSprite)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) { api.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, HEAD, OPTIONS")
		w.WriteHeader(http.StatusMethodNotAllowed)
	})

	s.Router = r
	return s
}

// Health returns a simple health-check response.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	count, err := s.DB.CountPokemon()
	if err != nil {
		api.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "pokemon": count})
}
