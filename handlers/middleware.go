package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/saferide/portal/auth"
)

// Response is the standard JSON envelope for all API responses.
type Response struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// DB is the shared database connection used by all handlers.
var DB *sql.DB

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Data: data})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Error: msg})
}

// RequireAuth is middleware that verifies the bearer token and attaches
// the session to the request context.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "no token provided")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		session, err := auth.VerifyToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		// The user may have been deleted since the token was issued.
		var exists int
		if err := DB.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", session.UserID).Scan(&exists); err != nil || exists == 0 {
			writeError(w, http.StatusUnauthorized, "user not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), session)))
	})
}

// requireAdmin writes a 403 and returns false unless the session belongs
// to an admin.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	session, ok := auth.FromContext(r.Context())
	if !ok || !session.IsAdmin() {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}
