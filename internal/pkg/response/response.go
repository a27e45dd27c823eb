package response

import (
	"encoding/json"
	"net/http"
)

// HTML writes a rendered page. Pages carry per-session state and must not be cached.
func HTML(w http.ResponseWriter, status int, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(page)
}

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// headers are already sent, nothing else to report
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error writes a plain-text error; browsers show it as is
func Error(w http.ResponseWriter, status int, message string) {
	http.Error(w, message, status)
}

// Success writes a 200 JSON response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}
