package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/learning-tracker/internal/cache"
	"github.com/example/learning-tracker/internal/catalog"
	"github.com/example/learning-tracker/internal/platform/api"
	"github.com/example/learning-tracker/internal/platform/auth"
	"github.com/example/learning-tracker/internal/platform/httpserver"
)

// TranscriptSource fetches a transcript; satisfied by transcript.Fetcher.
type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

const transcriptCacheTTL = 6 * time.Hour

// GetTranscript handles GET /v1/videos/{video_id}/transcript.
// Transcripts are immutable in practice, so hits are cached long.
func GetTranscript(src TranscriptSource, c cache.Cache, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok || strings.TrimSpace(uid) == "" {
			api.Unauthorized(w, "AUTH_MISSING", "Missing auth", rid)
			return
		}

		videoID := strings.TrimSpace(chi.URLParam(r, "video_id"))
		if !catalog.VideoIDPattern.MatchString(videoID) {
			api.BadRequest(w, "INVALID_VIDEO_ID", "Not a valid video id", rid, nil)
			return
		}

		cacheKey := "transcript:" + videoID
		var cached string
		if hit, err := c.Get(r.Context(), cacheKey, &cached); err == nil && hit {
			api.WriteJSON(w, http.StatusOK, map[string]any{"video_id": videoID, "transcript": cached})
			return
		}

		text, err := src.Fetch(r.Context(), videoID)
		if err != nil {
			writeDomainError(w, rid, err, log)
			return
		}

		if err := c.Set(r.Context(), cacheKey, text, transcriptCacheTTL); err != nil {
			log.Warn("transcript cache set failed", zap.Error(err))
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"video_id": videoID, "transcript": text})
	}
}
