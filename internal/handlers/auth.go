package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"blogpanel/internal/middleware"
	"blogpanel/internal/session"
	"blogpanel/internal/store"
)

// Auth groups the login/logout handlers. They maintain the server-side
// session the data gateway's currentUser lookup is answered from.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates the auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{sessions: sessions, userStore: userStore}
}

// Login checks credentials and creates a session. Lookup failures and bad
// credentials produce the same response so the endpoint does not leak
// which emails exist.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, user.Identity())
}

// Logout destroys the current session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me reports the identity behind the current session, mirroring the
// gateway's optional currentUser result: 200 with the identity when
// signed in, 204 when not.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromCtx(r.Context())
	if ident == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, ident)
}
