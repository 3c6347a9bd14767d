package httpserver

import (
	"encoding/json"
	"net/http"

	"paintgate/internal/apperr"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// respondError maps the domain error taxonomy to a status and writes the
// client-facing message. Infrastructure failures collapse to a generic 500.
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, apperr.HTTPStatus(err), map[string]string{"detail": apperr.Message(err)})
}
