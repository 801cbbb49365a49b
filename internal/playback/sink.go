package playback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/example/learning-tracker/internal/progress"
)

const maxSinkResponseBytes = 1 << 20 // 1 MiB

// HTTPSink posts progress updates to the tracker's progress endpoint,
// authenticating with a bearer token.
type HTTPSink struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPSink(baseURL, token string) *HTTPSink {
	return &HTTPSink{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type sinkRequest struct {
	PlaylistID  string  `json:"playlist_id"`
	VideoID     string  `json:"video_id"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	Completed   bool    `json:"completed,omitempty"`
}

type sinkResponse struct {
	Progress progress.Record `json:"progress"`
	Created  bool            `json:"created"`
}

func (s *HTTPSink) SaveProgress(ctx context.Context, u progress.Update) (progress.Record, error) {
	body, err := json.Marshal(sinkRequest{
		PlaylistID:  u.PlaylistID,
		VideoID:     u.VideoID,
		CurrentTime: u.WatchedSeconds,
		Duration:    u.DurationSeconds,
		Completed:   u.Completed,
	})
	if err != nil {
		return progress.Record{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/progress", bytes.NewReader(body))
	if err != nil {
		return progress.Record{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return progress.Record{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxSinkResponseBytes))
		return progress.Record{}, fmt.Errorf("progress save: unexpected status %d", resp.StatusCode)
	}

	var out sinkResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxSinkResponseBytes)).Decode(&out); err != nil {
		return progress.Record{}, fmt.Errorf("progress save: decode response: %w", err)
	}
	return out.Progress, nil
}
