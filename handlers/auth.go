package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/saferide/portal/auth"
	"github.com/saferide/portal/models"
)

// Register creates a new user
// @Summary      Register user
// @Description  Create a new portal user. Requires an admin token unless no users exist yet (first-run bootstrap).
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user  body      models.RegisterInput  true  "User credentials"
// @Success      201   {object}  Response{data=models.User}
// @Failure      400   {object}  Response{error=string}
// @Router       /auth/register [post]
func Register(w http.ResponseWriter, r *http.Request) {
	var input models.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// Once a user exists, only admins may create more.
	var userCount int
	if err := DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if userCount > 0 {
		session, ok := sessionFromRequest(r)
		if !ok || !session.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
	}

	var exists int
	DB.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", input.Username).Scan(&exists)
	if exists > 0 {
		writeError(w, http.StatusBadRequest, "username already exists")
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	role := input.Role
	if role == "" {
		role = "user"
	}
	id := uuid.NewString()
	if _, err := DB.Exec("INSERT INTO users (id, username, password_hash, role) VALUES (?, ?, ?, ?)",
		id, input.Username, hash, role); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	u, err := getUserByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to re-fetch created user: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Login authenticates a user
// @Summary      Login
// @Description  Verify credentials and return a bearer token with the user profile.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      models.LoginInput  true  "Login credentials"
// @Success      200          {object}  Response{data=map[string]any}
// @Failure      401          {object}  Response{error=string}
// @Router       /auth/login [post]
func Login(w http.ResponseWriter, r *http.Request) {
	var input models.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var u models.User
	var hash string
	err := DB.QueryRow("SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?", input.Username).
		Scan(&u.ID, &u.Username, &hash, &u.Role, &u.CreatedAt)
	if err != nil || !auth.CheckPassword(hash, input.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.IssueToken(auth.Session{UserID: u.ID, Username: u.Username, Role: u.Role})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": u})
}

// sessionFromRequest verifies the bearer token on an unauthenticated route.
func sessionFromRequest(r *http.Request) (auth.Session, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return auth.Session{}, false
	}
	session, err := auth.VerifyToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return auth.Session{}, false
	}
	return session, true
}
