package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform JSON response body used by every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code. It sets
// no-store caching headers since most of what these services return is
// sensitive.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a success envelope.
func OK(w http.ResponseWriter, code int, message string, data any) {
	WriteJSON(w, code, Envelope{Success: true, Message: message, Data: data})
}

// Error writes a failure envelope.
func Error(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, Envelope{Success: false, Message: message})
}

// Unauthorized writes a 401 failure envelope carrying the login page the
// caller should send the user to.
func Unauthorized(w http.ResponseWriter, message, redirectURL string) {
	WriteJSON(w, http.StatusUnauthorized, Envelope{
		Success: false,
		Message: message,
		Data:    map[string]string{"redirectUrl": redirectURL},
	})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
