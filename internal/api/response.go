package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON serialises v as JSON and writes it to w with the given HTTP status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("WriteJSON: failed to encode response", "error", err)
	}
}

// writeText writes a plain-text body the way PokeAPI reports errors.
func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(msg)); err != nil {
		slog.Error("writeText: failed to write response", "error", err)
	}
}
