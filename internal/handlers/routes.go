package handlers

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/learning-tracker/internal/cache"
	"github.com/example/learning-tracker/internal/notes"
	"github.com/example/learning-tracker/internal/platform/analytics"
	"github.com/example/learning-tracker/internal/platform/auth"
	"github.com/example/learning-tracker/internal/playlists"
	"github.com/example/learning-tracker/internal/progress"
	"github.com/example/learning-tracker/internal/quota"
	"github.com/example/learning-tracker/internal/users"
)

// Deps carries everything the route tree needs.
type Deps struct {
	Verifier    auth.JWTVerifier
	Catalog     CatalogSource
	Transcripts TranscriptSource
	Notes       *notes.Service
	Progress    progress.Store
	Playlists   playlists.Store
	Quota       quota.Store
	Users       users.Store
	Cache       cache.Cache
	Analytics   *analytics.Publisher
	Log         *zap.Logger
}

// Mount attaches the API surface under /v1. Catalog reads are public;
// everything touching per-user state requires a bearer token.
func Mount(r chi.Router, d Deps) {
	rl := NewRateLimiter(10, 20)

	r.Route("/v1", func(r chi.Router) {
		r.Use(rl.Middleware)

		r.Get("/playlists/{playlist_id}/videos", GetPlaylistVideos(d.Catalog, d.Cache, d.Log))
		r.Get("/videos/{video_id}/comments", GetComments(d.Catalog, d.Cache, d.Log))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(d.Verifier))

			r.Post("/users", UpsertUser(d.Users, d.Log))
			r.Get("/me", Me(d.Users, d.Log))

			r.Post("/playlists", ImportPlaylist(d.Playlists, d.Catalog, d.Analytics, d.Log))
			r.Get("/playlists", ListPlaylists(d.Playlists, d.Log))

			r.Post("/progress", SaveProgress(d.Progress, d.Analytics, d.Log))
			r.Get("/progress", GetProgress(d.Progress, d.Log))

			r.Get("/videos/{video_id}/transcript", GetTranscript(d.Transcripts, d.Cache, d.Log))
			r.Post("/notes", GenerateNotes(d.Notes, d.Analytics, d.Log))
			r.Post("/notes/pdf", ExportNotesPDF(d.Log))
			r.Get("/usage", GetUsage(d.Quota, d.Log))
		})
	})
}
