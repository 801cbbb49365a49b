package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/learning-tracker/internal/notes"
	"github.com/example/learning-tracker/internal/platform/analytics"
	"github.com/example/learning-tracker/internal/platform/api"
	"github.com/example/learning-tracker/internal/platform/auth"
	"github.com/example/learning-tracker/internal/platform/httpserver"
)

type generateNotesRequest struct {
	VideoID    string `json:"video_id"`
	Transcript string `json:"transcript"`
}

// GenerateNotes handles POST /v1/notes.
func GenerateNotes(svc *notes.Service, ap *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok || strings.TrimSpace(uid) == "" {
			api.Unauthorized(w, "AUTH_MISSING", "Missing auth", rid)
			return
		}

		var req generateNotesRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		if strings.TrimSpace(req.Transcript) == "" {
			api.BadRequest(w, "MISSING_TRANSCRIPT", "Transcript is required", rid, nil)
			return
		}

		result, err := svc.Generate(r.Context(), uid, strings.TrimSpace(req.VideoID), req.Transcript)
		if err != nil {
			writeDomainError(w, rid, err, log)
			return
		}

		ap.Publish(analytics.SubjectNotesGenerated, "notes_generated", uid, map[string]any{
			"video_id":  result.VideoID,
			"notes_len": len(result.Notes),
		})
		api.WriteJSON(w, http.StatusOK, result)
	}
}

type notesPDFRequest struct {
	Notes      string `json:"notes"`
	VideoTitle string `json:"video_title"`
	VideoID    string `json:"video_id"`
}

// ExportNotesPDF handles POST /v1/notes/pdf, returning the rendered
// document as an attachment.
func ExportNotesPDF(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok || strings.TrimSpace(uid) == "" {
			api.Unauthorized(w, "AUTH_MISSING", "Missing auth", rid)
			return
		}

		var req notesPDFRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		if strings.TrimSpace(req.Notes) == "" {
			api.BadRequest(w, "MISSING_NOTES", "Notes content is required", rid, nil)
			return
		}

		now := time.Now()
		pdf, err := notes.RenderPDF(req.Notes, req.VideoTitle, req.VideoID, now)
		if err != nil {
			writeDomainError(w, rid, err, log)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+notes.Filename(req.VideoTitle, now)+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
	}
}
