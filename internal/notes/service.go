package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/learning-tracker/internal/quota"
)

const studyNotesPrompt = `You are a detailed note-taking assistant. Please create comprehensive study notes from the following transcript. Focus on the main points, use bullet points, and organize the information clearly. The notes should be formatted in Markdown.

Transcript:`

const (
	// Transcript length bounds for a useful generation.
	MinTranscriptLen = 100
	MaxTranscriptLen = 50000

	// Anything shorter than this out of the model is treated as a failure.
	minNotesLen = 100
)

// Validation failures the HTTP layer maps onto 400s.
var (
	ErrTranscriptTooShort = errors.New("transcript is too short to generate meaningful notes")
	ErrTranscriptTooLong  = errors.New("transcript is too long, use a shorter video")
)

// Generator produces note text from a prompt. Satisfied by GeminiClient.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is one successful generation.
type Result struct {
	Notes       string      `json:"notes"`
	VideoID     string      `json:"video_id"`
	Usage       quota.Usage `json:"usage"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// Service validates transcripts, enforces the daily quota, and runs the
// generation.
type Service struct {
	gen   Generator
	quota quota.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(gen Generator, q quota.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gen: gen, quota: q, log: log, now: time.Now}
}

// Generate runs one quota-gated notes generation. The quota unit is
// consumed before the provider call; a provider failure after that still
// counts against the day, matching how the allowance is metered upstream.
func (s *Service) Generate(ctx context.Context, userID, videoID, transcript string) (Result, error) {
	if len(transcript) < MinTranscriptLen {
		return Result{}, ErrTranscriptTooShort
	}
	if len(transcript) > MaxTranscriptLen {
		return Result{}, ErrTranscriptTooLong
	}

	usage, err := s.quota.CheckAndIncrement(ctx, userID, s.now())
	if err != nil {
		return Result{}, err
	}

	text, err := s.gen.Generate(ctx, studyNotesPrompt+transcript)
	if err != nil {
		return Result{}, err
	}
	if len(text) < minNotesLen {
		return Result{}, fmt.Errorf("%w: got %d chars", ErrEmptyResult, len(text))
	}

	s.log.Info("notes generated",
		zap.String("user_id", userID),
		zap.String("video_id", videoID),
		zap.Int("notes_len", len(text)),
		zap.Int("usage_count", usage.Count))

	return Result{
		Notes:       text,
		VideoID:     videoID,
		Usage:       usage,
		GeneratedAt: s.now().UTC(),
	}, nil
}
