package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/example/learning-tracker/internal/catalog"
	"github.com/example/learning-tracker/internal/platform/analytics"
	"github.com/example/learning-tracker/internal/platform/api"
	"github.com/example/learning-tracker/internal/platform/auth"
	"github.com/example/learning-tracker/internal/platform/httpserver"
	"github.com/example/learning-tracker/internal/playlists"
)

type importPlaylistRequest struct {
	URL string `json:"url"`
}

type importPlaylistResponse struct {
	Playlist   playlists.SavedPlaylist `json:"playlist"`
	Videos     []catalog.Video         `json:"videos"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

// ImportPlaylist handles POST /v1/playlists: resolve the URL to a
// playlist id, fetch metadata and the first page concurrently, and save
// the playlist to the user's library.
func ImportPlaylist(store playlists.Store, yt CatalogSource, ap *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok || strings.TrimSpace(uid) == "" {
			api.Unauthorized(w, "AUTH_MISSING", "Missing auth", rid)
			return
		}

		var req importPlaylistRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		playlistID := catalog.ExtractPlaylistID(req.URL)
		if playlistID == "" {
			api.BadRequest(w, "INVALID_URL", "Not a recognizable YouTube playlist URL", rid, nil)
			return
		}

		// Metadata and first page in parallel; either 404 wins.
		type metaResult struct {
			meta catalog.PlaylistMeta
			err  error
		}
		metaCh := make(chan metaResult, 1)
		ctx := r.Context()
		go func() {
			m, err := yt.GetPlaylistMetadata(ctx, playlistID)
			metaCh <- metaResult{meta: m, err: err}
		}()

		page, pageErr := yt.GetPlaylistPage(ctx, playlistID, "")
		mr := <-metaCh
		if mr.err != nil {
			writeDomainError(w, rid, mr.err, log)
			return
		}
		if pageErr != nil {
			writeDomainError(w, rid, pageErr, log)
			return
		}

		saved, err := store.Save(ctx, playlists.SavedPlaylist{
			UserID:       uid,
			PlaylistID:   playlistID,
			Title:        mr.meta.Title,
			Description:  mr.meta.Description,
			ThumbnailURL: mr.meta.ThumbnailURL,
			ChannelID:    mr.meta.ChannelID,
			ChannelTitle: mr.meta.ChannelTitle,
		})
		if err != nil {
			writeDomainError(w, rid, err, log)
			return
		}

		ap.Publish(analytics.SubjectPlaylistImported, "playlist_imported", uid, map[string]any{
			"playlist_id": playlistID,
			"item_count":  mr.meta.ItemCount,
		})

		videos := page.Videos
		if videos == nil {
			videos = []catalog.Video{}
		}
		api.WriteJSON(w, http.StatusCreated, importPlaylistResponse{
			Playlist:   saved,
			Videos:     videos,
			NextCursor: page.NextCursor,
		})
	}
}

// ListPlaylists handles GET /v1/playlists.
func ListPlaylists(store playlists.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok || strings.TrimSpace(uid) == "" {
			api.Unauthorized(w, "AUTH_MISSING", "Missing auth", rid)
			return
		}

		list, err := store.List(r.Context(), uid)
		if err != nil {
			writeDomainError(w, rid, err, log)
			return
		}
		if list == nil {
			list = []playlists.SavedPlaylist{}
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"playlists": list})
	}
}
