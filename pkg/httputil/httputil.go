package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"vatour/pkg/domerr"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError centralizes domain error translation to HTTP responses so every
// handler emits the same JSON error envelope.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := string(domerr.CodeInternal)
	message := "internal error"

	var de *domerr.Error
	if errors.As(err, &de) {
		status = domerr.ToHTTPStatus(de.Code)
		code = string(de.Code)
		message = de.Message
	}

	WriteJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

// Decode reads a JSON request body into T, returning a CodeBadRequest domain
// error on malformed input.
func Decode[T any](r *http.Request) (T, error) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return v, domerr.Wrap(domerr.CodeBadRequest, "invalid request body", err)
	}
	return v, nil
}
