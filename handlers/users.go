package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saferide/portal/auth"
	"github.com/saferide/portal/models"
)

func getUserByID(id string) (models.User, error) {
	var u models.User
	err := DB.QueryRow("SELECT id, username, role, created_at FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt)
	return u, err
}

// ListUsers lists all users
// @Summary      List users
// @Description  Get all portal users. Admin only.
// @Tags         users
// @Produce      json
// @Success      200  {object}  Response{data=[]models.User}
// @Failure      403  {object}  Response{error=string}
// @Router       /users [get]
// @Security     BearerAuth
func ListUsers(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	rows, err := DB.Query("SELECT id, username, role, created_at FROM users ORDER BY username")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		users = append(users, u)
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// DeleteUser deletes a user
// @Summary      Delete user
// @Description  Remove a portal user. Admin only; self-deletion is rejected.
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      400  {object}  Response{error=string}
// @Failure      404  {object}  Response{error=string}
// @Router       /users/{id} [delete]
// @Security     BearerAuth
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id := chi.URLParam(r, "id")

	session, _ := auth.FromContext(r.Context())
	if id == session.UserID {
		writeError(w, http.StatusBadRequest, "cannot delete yourself")
		return
	}

	res, err := DB.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// ChangePassword changes the password of the authenticated user
// @Summary      Change password
// @Description  Verify the old password and store a new one.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        passwords  body      models.ChangePasswordInput  true  "Old and new password"
// @Success      200        {object}  Response{data=map[string]string}
// @Failure      400        {object}  Response{error=string}
// @Failure      401        {object}  Response{error=string}
// @Router       /users/change-password [post]
// @Security     BearerAuth
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input models.ChangePasswordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(input.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "new password must be at least 6 characters")
		return
	}

	var hash string
	if err := DB.QueryRow("SELECT password_hash FROM users WHERE id = ?", session.UserID).Scan(&hash); err != nil {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}
	if !auth.CheckPassword(hash, input.OldPassword) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	newHash, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := DB.Exec("UPDATE users SET password_hash = ? WHERE id = ?", newHash, session.UserID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}
