package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache marks a response as non-cacheable. Required for anything carrying
// tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteError writes a structured denial body. Failure details never include
// library internals or stack traces, only the stable code and description.
func WriteError(w http.ResponseWriter, code int, errCode, description string) {
	NoCache(w)
	WriteJSON(w, code, map[string]string{
		"error":             errCode,
		"error_description": description,
	})
}
