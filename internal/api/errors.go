package api

import "net/http"

// BadRequest writes a 400 plain-text response.
func BadRequest(w http.ResponseWriter) {
	writeText(w, http.StatusBadRequest, "Bad Request")
}

// NotFound writes a 404 plain-text response. PokeAPI answers unknown
// resources with the bare text "Not Found".
func NotFound(w http.ResponseWriter) {
	writeText(w, http.StatusNotFound, "Not Found")
}

// InternalError writes a 500 response without leaking the cause.
func InternalError(w http.ResponseWriter) {
	writeText(w, http.StatusInternalServerError, "Internal Server Error")
}
