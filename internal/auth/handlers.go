package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jarawa/josaa-predictor/internal/users"
)

// POST /auth/login  { "username": "...", "password": "..." }
func LoginHandler(a *AuthService, store *users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		u, err := store.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			http.Error(w, "invalid username or password", http.StatusUnauthorized)
			return
		}
		tok, err := a.IssueJWT(u.Username, u.Role)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": tok,
			"token_type":   "bearer",
		})
	}
}

// POST /auth/register  { "email", "username", "password", "confirm_password" }
func RegisterHandler(store *users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email           string `json:"email"`
			Username        string `json:"username"`
			Password        string `json:"password"`
			ConfirmPassword string `json:"confirm_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.Username == "" || req.Password == "" {
			http.Error(w, "email, username and password required", http.StatusBadRequest)
			return
		}
		if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
			http.Error(w, "passwords do not match", http.StatusBadRequest)
			return
		}
		u, err := store.Create(r.Context(), req.Email, req.Username, req.Password, users.RoleUser)
		switch {
		case errors.Is(err, users.ErrUsernameTaken), errors.Is(err, users.ErrEmailTaken):
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case err != nil:
			http.Error(w, "registration failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(u)
	}
}

// POST /auth/reset/request  { "email" }
//
// Responds 202 whether or not the email exists, to avoid leaking which
// addresses are registered.
func RequestResetHandler(store *users.Store, resets *ResetStore, mailer Mailer, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if _, err := store.GetByEmail(r.Context(), req.Email); err == nil {
			token, err := resets.Issue(req.Email)
			if err == nil {
				if err := mailer.SendReset(req.Email, token); err != nil {
					log.Error("reset mail delivery failed", "email", req.Email, "error", err)
				}
			}
		}
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "reset instructions sent if the email is registered",
		})
	}
}

// POST /auth/reset/confirm  { "email", "token", "new_password" }
func ConfirmResetHandler(store *users.Store, resets *ResetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email       string `json:"email"`
			Token       string `json:"token"`
			NewPassword string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.NewPassword == "" {
			http.Error(w, "new password required", http.StatusBadRequest)
			return
		}
		if !resets.Verify(req.Email, req.Token) {
			http.Error(w, "invalid or expired reset token", http.StatusForbidden)
			return
		}
		if err := store.UpdatePassword(r.Context(), req.Email, req.NewPassword); err != nil {
			http.Error(w, "password reset failed", http.StatusInternalServerError)
			return
		}
		resets.Clear(req.Email)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "password reset successful"})
	}
}
