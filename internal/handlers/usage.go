package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/learning-tracker/internal/platform/api"
	"github.com/example/learning-tracker/internal/platform/auth"
	"github.com/example/learning-tracker/internal/platform/httpserver"
	"github.com/example/learning-tracker/internal/quota"
)

type usageResponse struct {
	CurrentCount int  `json:"current_count"`
	MaxCount     int  `json:"max_count"`
	Remaining    int  `json:"remaining"`
	CanUse       bool `json:"can_use"`
}

// GetUsage handles GET /v1/usage.
func GetUsage(store quota.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok || strings.TrimSpace(uid) == "" {
			api.Unauthorized(w, "AUTH_MISSING", "Missing auth", rid)
			return
		}

		u, err := store.GetUsage(r.Context(), uid, time.Now())
		if err != nil {
			writeDomainError(w, rid, err, log)
			return
		}
		api.WriteJSON(w, http.StatusOK, usageResponse{
			CurrentCount: u.Count,
			MaxCount:     u.Max,
			Remaining:    u.Remaining,
			CanUse:       u.Remaining > 0,
		})
	}
}
