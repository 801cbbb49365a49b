package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/learning-tracker/internal/catalog"
	"github.com/example/learning-tracker/internal/notes"
	"github.com/example/learning-tracker/internal/platform/api"
	"github.com/example/learning-tracker/internal/playlists"
	"github.com/example/learning-tracker/internal/progress"
	"github.com/example/learning-tracker/internal/quota"
	"github.com/example/learning-tracker/internal/transcript"
	"github.com/example/learning-tracker/internal/users"
)

// writeDomainError translates domain sentinels into the error envelope.
// Anything unrecognized logs and becomes a 500.
func writeDomainError(w http.ResponseWriter, rid string, err error, log *zap.Logger) {
	var noCaptions *transcript.ErrNoCaptions
	switch {
	case errors.Is(err, catalog.ErrPlaylistNotFound):
		api.NotFound(w, "PLAYLIST_NOT_FOUND", "Playlist not found", rid)
	case errors.Is(err, catalog.ErrVideoNotFound):
		api.NotFound(w, "VIDEO_NOT_FOUND", "Video not found or comments disabled", rid)
	case errors.Is(err, playlists.ErrNotFound):
		api.NotFound(w, "PLAYLIST_NOT_SAVED", "Playlist is not in your library", rid)
	case errors.Is(err, progress.ErrNotFound):
		api.NotFound(w, "PROGRESS_NOT_FOUND", "No progress recorded", rid)
	case errors.Is(err, users.ErrNotFound):
		api.NotFound(w, "USER_NOT_FOUND", "User not found", rid)
	case errors.As(err, &noCaptions):
		api.WriteError(w, http.StatusNotFound, "NO_CAPTIONS",
			"No captions available for this video", rid,
			map[string]any{"causes": noCaptions.Causes})
	case errors.Is(err, quota.ErrLimitExceeded):
		api.RateLimited(w, "USAGE_LIMIT_EXCEEDED",
			"You have used all daily notes generations. The limit resets at midnight IST.", rid,
			map[string]any{"max_count": quota.DailyLimit})
	case errors.Is(err, notes.ErrProviderQuota):
		api.Unavailable(w, "AI_QUOTA_EXCEEDED", "AI service quota exceeded. Please try again later.", rid)
	case errors.Is(err, notes.ErrContentRejected):
		api.BadRequest(w, "CONTENT_REJECTED",
			"Content flagged by safety filters. Please try with different content.", rid, nil)
	case errors.Is(err, notes.ErrTranscriptTooShort):
		api.BadRequest(w, "TRANSCRIPT_TOO_SHORT", "Transcript is too short to generate meaningful notes", rid, nil)
	case errors.Is(err, notes.ErrTranscriptTooLong):
		api.BadRequest(w, "TRANSCRIPT_TOO_LONG", "Transcript is too long. Please use a shorter video.", rid, nil)
	default:
		if log != nil {
			log.Error("request failed", zap.String("request_id", rid), zap.Error(err))
		}
		api.Internal(w, rid)
	}
}
