package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status. Encoding failures are logged, not
// surfaced: headers are already committed by then.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode response", "error", err, "path", r.URL.Path)
	}
}

// Error writes {"error": msg} with the given status.
func Error(w http.ResponseWriter, r *http.Request, status int, msg string) {
	JSON(w, r, status, errorBody{Error: msg})
}
