package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// Response is the envelope used by every endpoint.
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failed requests. Code is a
// machine-readable error code clients can branch on.
type ErrorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RespondJSON sends a success envelope with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, statusCode int, message string, data any) {
	writeJSON(w, statusCode, Response{Status: true, Message: message, Data: data})
}

// RespondError sends an error envelope with the given message and status code.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Status: false, Message: message})
}

// RespondErrorWithCode sends an error envelope with a machine-readable error code.
func RespondErrorWithCode(w http.ResponseWriter, message string, code string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Status: false, Message: message, Code: code})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}
