// Package apiutil writes the JSON response envelope used by every
// endpoint: a success flag, a human-readable message, a stable machine
// code on errors, and optional data / pagination blocks.
//
// No operation returns 200 with an embedded failure indicator; the HTTP
// status and the success flag always agree.
package apiutil

import (
	"encoding/json"
	"net/http"
)

// Pagination is the list-endpoint metadata block.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Envelope is the wire shape of every response.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Code       string      `json:"code,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Details    interface{} `json:"details,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// OK writes a success envelope with the given status and data.
func OK(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, Envelope{Success: true, Message: message, Data: data})
}

// OKList writes a success envelope with pagination metadata.
func OKList(w http.ResponseWriter, message string, data interface{}, p Pagination) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data, Pagination: &p})
}

// Error writes a failure envelope with a stable code string.
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, Envelope{Success: false, Message: message, Code: code})
}

// ErrorDetails writes a failure envelope with contextual data, e.g.
// field-level validation problems or the current entity status.
func ErrorDetails(w http.ResponseWriter, status int, code, message string, details interface{}) {
	write(w, status, Envelope{Success: false, Message: message, Code: code, Details: details})
}

// Internal writes the generic 500 envelope. Detail is deliberately
// suppressed; the handler logs the underlying error.
func Internal(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred.")
}

// Decode parses a JSON request body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
