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
	"github.com/example/learning-tracker/internal/platform/httpserver"
)

// CatalogSource is the slice of catalog.Client the handlers use;
// tests substitute a fake.
type CatalogSource interface {
	GetPlaylistMetadata(ctx context.Context, playlistID string) (catalog.PlaylistMeta, error)
	GetPlaylistPage(ctx context.Context, playlistID, cursor string) (catalog.Page, error)
	GetComments(ctx context.Context, videoID string, limit int64) ([]catalog.Comment, error)
}

const (
	playlistCacheTTL = 10 * time.Minute
	commentsCacheTTL = 15 * time.Minute

	// fullLoadMaxPages bounds a full=1 accumulation; 40 pages of 50 is
	// well past YouTube's 5000-item playlist ceiling.
	fullLoadMaxPages = 40
)

type playlistVideosResponse struct {
	Playlist   *catalog.PlaylistMeta `json:"playlist,omitempty"`
	Videos     []catalog.Video       `json:"videos"`
	NextCursor string                `json:"next_cursor,omitempty"`
}

// GetPlaylistVideos handles GET /v1/playlists/{playlist_id}/videos.
// Without a cursor the response includes playlist metadata; with
// full=1 the pager accumulates every page before responding.
func GetPlaylistVideos(yt CatalogSource, c cache.Cache, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		playlistID := strings.TrimSpace(chi.URLParam(r, "playlist_id"))
		if playlistID == "" {
			api.BadRequest(w, "MISSING_ID", "playlist_id is required", rid, nil)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))
		full := r.URL.Query().Get("full") == "1"

		cacheKey := "playlist:" + playlistID + ":cursor:" + cursor
		if full {
			cacheKey = "playlist:" + playlistID + ":full"
		}
		var cached playlistVideosResponse
		if hit, err := c.Get(r.Context(), cacheKey, &cached); err == nil && hit {
			api.WriteJSON(w, http.StatusOK, cached)
			return
		}

		var resp playlistVideosResponse
		if full {
			pager := catalog.NewPager(yt, playlistID)
			if err := pager.LoadAll(r.Context(), fullLoadMaxPages); err != nil {
				writeDomainError(w, rid, err, log)
				return
			}
			resp.Videos = pager.Videos()
		} else {
			page, err := yt.GetPlaylistPage(r.Context(), playlistID, cursor)
			if err != nil {
				writeDomainError(w, rid, err, log)
				return
			}
			resp.Videos = page.Videos
			resp.NextCursor = page.NextCursor
		}

		// First page and full loads carry the playlist metadata so an
		// empty-but-existing playlist is distinguishable from a 404.
		if cursor == "" {
			meta, err := yt.GetPlaylistMetadata(r.Context(), playlistID)
			if err != nil {
				writeDomainError(w, rid, err, log)
				return
			}
			resp.Playlist = &meta
		}

		if resp.Videos == nil {
			resp.Videos = []catalog.Video{}
		}
		if err := c.Set(r.Context(), cacheKey, resp, playlistCacheTTL); err != nil {
			log.Warn("playlist cache set failed", zap.Error(err))
		}
		api.WriteJSON(w, http.StatusOK, resp)
	}
}

// GetComments handles GET /v1/videos/{video_id}/comments.
func GetComments(yt CatalogSource, c cache.Cache, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		videoID := strings.TrimSpace(chi.URLParam(r, "video_id"))
		if !catalog.VideoIDPattern.MatchString(videoID) {
			api.BadRequest(w, "INVALID_VIDEO_ID", "Not a valid video id", rid, nil)
			return
		}

		cacheKey := "comments:" + videoID
		var cached []catalog.Comment
		if hit, err := c.Get(r.Context(), cacheKey, &cached); err == nil && hit {
			api.WriteJSON(w, http.StatusOK, map[string]any{"comments": cached})
			return
		}

		comments, err := yt.GetComments(r.Context(), videoID, 20)
		if err != nil {
			writeDomainError(w, rid, err, log)
			return
		}
		if comments == nil {
			comments = []catalog.Comment{}
		}
		if err := c.Set(r.Context(), cacheKey, comments, commentsCacheTTL); err != nil {
			log.Warn("comments cache set failed", zap.Error(err))
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"comments": comments})
	}
}
