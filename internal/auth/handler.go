package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/httpx"
)

// SessionManager creates and destroys sessions.
type SessionManager interface {
	Create(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

// Handler holds the session HTTP handlers.
type Handler struct {
	checker  *Checker
	users    UserLookup
	sessions SessionManager
	log      zerolog.Logger
}

func NewHandler(checker *Checker, users UserLookup, sessions SessionManager, log zerolog.Logger) *Handler {
	return &Handler{checker: checker, users: users, sessions: sessions, log: log}
}

// CreateSession exchanges a verified bearer identity token for a session cookie.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	cred, ok := CredentialFromContext(r.Context())
	if !ok || cred.BearerToken == "" {
		httpx.WriteError(w, apperror.Unauthenticated("bearer identity token required"))
		return
	}

	email, err := h.checker.Identify(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	user, err := h.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		if apperror.Is(err, apperror.CodeNotFound) {
			err = apperror.Unauthenticated("user must sign up first")
		} else {
			h.log.Error().Err(err).Str("email", email).Msg("session user lookup failed")
		}
		httpx.WriteError(w, err)
		return
	}

	sid, err := h.sessions.Create(r.Context(), user.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("session creation failed")
		httpx.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})
	httpx.WriteJSON(w, http.StatusOK, user)
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.log.Warn().Err(err).Msg("session delete failed")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.checker.CheckAuth(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}
