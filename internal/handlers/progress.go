package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/learning-tracker/internal/insights"
	"github.com/example/learning-tracker/internal/platform/analytics"
	"github.com/example/learning-tracker/internal/platform/api"
	"github.com/example/learning-tracker/internal/platform/auth"
	"github.com/example/learning-tracker/internal/platform/httpserver"
	"github.com/example/learning-tracker/internal/progress"
)

type saveProgressRequest struct {
	PlaylistID  string  `json:"playlist_id"`
	VideoID     string  `json:"video_id"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	Completed   bool    `json:"completed"`
}

type saveProgressResponse struct {
	Progress progress.Record `json:"progress"`
	Created  bool            `json:"created"`
}

// SaveProgress handles POST /v1/progress. The body is always parsed as
// JSON even when sent as text/plain, which is what sendBeacon unload
// flushes produce.
func SaveProgress(store progress.Store, ap *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok || strings.TrimSpace(uid) == "" {
			api.Unauthorized(w, "AUTH_MISSING", "Missing auth", rid)
			return
		}

		var req saveProgressRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		req.PlaylistID = strings.TrimSpace(req.PlaylistID)
		req.VideoID = strings.TrimSpace(req.VideoID)
		if req.PlaylistID == "" || req.VideoID == "" {
			api.BadRequest(w, "MISSING_FIELDS", "playlist_id and video_id are required", rid, nil)
			return
		}

		rec, created, err := store.Upsert(r.Context(), progress.Update{
			UserID:          uid,
			PlaylistID:      req.PlaylistID,
			VideoID:         req.VideoID,
			WatchedSeconds:  req.CurrentTime,
			DurationSeconds: req.Duration,
			Completed:       req.Completed,
		})
		if err != nil {
			writeDomainError(w, rid, err, log)
			return
		}

		ap.Publish(analytics.SubjectProgressSaved, "progress_saved", uid, map[string]any{
			"playlist_id": req.PlaylistID,
			"video_id":    req.VideoID,
			"completed":   rec.Completed,
		})

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		api.WriteJSON(w, status, saveProgressResponse{Progress: rec, Created: created})
	}
}

type progressListResponse struct {
	Progress  []progress.Record `json:"progress"`
	Analytics insights.Report   `json:"analytics"`
}

// GetProgress handles GET /v1/progress?playlist_id=. It returns the
// raw records plus the derived analytics in one shot.
func GetProgress(store progress.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok || strings.TrimSpace(uid) == "" {
			api.Unauthorized(w, "AUTH_MISSING", "Missing auth", rid)
			return
		}

		playlistID := strings.TrimSpace(r.URL.Query().Get("playlist_id"))
		records, err := store.List(r.Context(), uid, playlistID)
		if err != nil {
			writeDomainError(w, rid, err, log)
			return
		}
		if records == nil {
			records = []progress.Record{}
		}

		api.WriteJSON(w, http.StatusOK, progressListResponse{
			Progress:  records,
			Analytics: insights.Build(records, time.UTC, time.Now()),
		})
	}
}
