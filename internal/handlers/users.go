package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/example/learning-tracker/internal/platform/api"
	"github.com/example/learning-tracker/internal/platform/auth"
	"github.com/example/learning-tracker/internal/platform/httpserver"
	"github.com/example/learning-tracker/internal/users"
)

type upsertUserRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// UpsertUser handles POST /v1/users: the OAuth callback writes the
// caller's own profile through here.
func UpsertUser(store users.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok || strings.TrimSpace(uid) == "" {
			api.Unauthorized(w, "AUTH_MISSING", "Missing auth", rid)
			return
		}

		var req upsertUserRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		if strings.TrimSpace(req.Email) == "" {
			api.BadRequest(w, "MISSING_EMAIL", "email is required", rid, nil)
			return
		}

		u, err := store.Upsert(r.Context(), users.User{
			ID:        uid,
			Email:     strings.TrimSpace(req.Email),
			Name:      strings.TrimSpace(req.Name),
			AvatarURL: strings.TrimSpace(req.AvatarURL),
		})
		if err != nil {
			writeDomainError(w, rid, err, log)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"user": u})
	}
}

// Me handles GET /v1/me: the token's subject plus the stored profile
// when one exists.
func Me(store users.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok || strings.TrimSpace(uid) == "" {
			api.Unauthorized(w, "AUTH_MISSING", "Missing auth", rid)
			return
		}

		u, err := store.Get(r.Context(), uid)
		if errors.Is(err, users.ErrNotFound) {
			api.WriteJSON(w, http.StatusOK, map[string]any{"user_id": uid})
			return
		}
		if err != nil {
			writeDomainError(w, rid, err, log)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"user_id": uid, "user": u})
	}
}
