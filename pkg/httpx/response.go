package httpx

import (
	"encoding/json"
	"net/http"
)

// Error response codes used across the API.
const (
	CodeAuthentication = "AuthenticationError"
	CodeTokenExpired   = "TokenExpired"
	CodeAuthorization  = "AuthorizationError"
	CodeNotFound       = "NotFound"
	CodeConflict       = "Conflict"
	CodeBadRequest     = "BadRequest"
	CodeServerError    = "ServerError"
)

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for responses carrying tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
