package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openlearnco/campus/pkg/httpx"
)

// ErrorResponse is the JSON shape every error in the API uses.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// decodeJSON reads a JSON request body into dst, rejecting non-JSON
// content types and bodies that do not parse. It writes the error response
// itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/json") {
		httpx.WriteError(w, http.StatusUnsupportedMediaType,
			"invalid_content_type", "expected application/json")
		return false
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "request body is not valid JSON")
		return false
	}

	return true
}

func writeServerError(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusInternalServerError,
		"server_error", "an unexpected error occurred")
}
