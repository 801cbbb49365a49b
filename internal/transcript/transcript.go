// Package transcript retrieves video captions from YouTube. There is no
// official transcript API, so three methods are tried in order: the
// timedtext endpoint, the caption track list embedded in the watch page,
// and finally a raw scrape of caption text from the page itself.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MinTranscriptChars is the sanity floor: anything shorter is treated
// as a failed fetch rather than a usable transcript.
const MinTranscriptChars = 50

const (
	maxResponseBytes = 8 << 20 // 8 MiB; watch pages are large
	userAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// ErrNoCaptions means every retrieval method came up empty.
type ErrNoCaptions struct {
	VideoID string
	// Causes lists why each method failed, in attempt order.
	Causes []string
}

func (e *ErrNoCaptions) Error() string {
	return fmt.Sprintf("no captions available for video %s", e.VideoID)
}

// Fetcher retrieves transcripts with a fallback chain.
type Fetcher struct {
	client       *http.Client
	timedtextURL string
	watchURL     string
	log          *zap.Logger
}

func NewFetcher(log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		client:       &http.Client{Timeout: 20 * time.Second},
		timedtextURL: "https://www.youtube.com/api/timedtext",
		watchURL:     "https://www.youtube.com/watch",
		log:          log,
	}
}

// Fetch returns the first transcript of at least MinTranscriptChars that
// any method produces. When all methods fail it returns *ErrNoCaptions
// carrying the per-method causes.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	var causes []string

	methods := []struct {
		name string
		fn   func(context.Context, string) (string, error)
	}{
		{"timedtext", f.fromTimedtext},
		{"caption track", f.fromCaptionTrack},
		{"page scrape", f.fromPageScrape},
	}

	for _, m := range methods {
		text, err := m.fn(ctx, videoID)
		if err != nil {
			causes = append(causes, m.name+": "+err.Error())
			f.log.Debug("transcript method failed",
				zap.String("video_id", videoID), zap.String("method", m.name), zap.Error(err))
			continue
		}
		text = strings.TrimSpace(text)
		if len(text) < MinTranscriptChars {
			causes = append(causes, fmt.Sprintf("%s: transcript too short (%d chars)", m.name, len(text)))
			continue
		}
		return text, nil
	}

	return "", &ErrNoCaptions{VideoID: videoID, Causes: causes}
}

// timedtext json3 payload.
type timedtextResponse struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// fromTimedtext hits the timedtext API directly for English captions.
func (f *Fetcher) fromTimedtext(ctx context.Context, videoID string) (string, error) {
	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", "en")
	params.Set("fmt", "json3")

	body, err := f.get(ctx, f.timedtextURL+"?"+params.Encode())
	if err != nil {
		return "", err
	}

	var resp timedtextResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal timedtext: %w", err)
	}

	var b strings.Builder
	for _, ev := range resp.Events {
		for _, seg := range ev.Segs {
			b.WriteString(seg.UTF8)
		}
		b.WriteString(" ")
	}
	return collapseWhitespace(b.String()), nil
}

var captionTracksPattern = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

// fromCaptionTrack pulls the caption track list out of the watch page's
// embedded player config and fetches the first track's baseUrl.
func (f *Fetcher) fromCaptionTrack(ctx context.Context, videoID string) (string, error) {
	page, err := f.get(ctx, f.watchURL+"?v="+url.QueryEscape(videoID))
	if err != nil {
		return "", err
	}

	m := captionTracksPattern.FindSubmatch(page)
	if m == nil {
		return "", errors.New("no captionTracks in watch page")
	}

	var tracks []struct {
		BaseURL      string `json:"baseUrl"`
		LanguageCode string `json:"languageCode"`
	}
	if err := json.Unmarshal(m[1], &tracks); err != nil {
		return "", fmt.Errorf("unmarshal captionTracks: %w", err)
	}
	if len(tracks) == 0 {
		return "", errors.New("empty captionTracks list")
	}

	// Prefer English; otherwise take whatever the first track is.
	track := tracks[0]
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			track = t
			break
		}
	}

	// Track URLs sometimes arrive with entity-escaped ampersands.
	body, err := f.get(ctx, html.UnescapeString(track.BaseURL))
	if err != nil {
		return "", err
	}
	return parseCaptionXML(string(body)), nil
}

var (
	xmlTextPattern  = regexp.MustCompile(`<text[^>]*>(.*?)</text>`)
	scrapePattern   = regexp.MustCompile(`"simpleText":"([^"]{20,})"`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	xmlTagStripping = regexp.MustCompile(`<[^>]+>`)
)

// parseCaptionXML extracts and unescapes the text nodes of a caption
// track document.
func parseCaptionXML(doc string) string {
	var b strings.Builder
	for _, m := range xmlTextPattern.FindAllStringSubmatch(doc, -1) {
		text := html.UnescapeString(m[1])
		text = xmlTagStripping.ReplaceAllString(text, "")
		b.WriteString(text)
		b.WriteString(" ")
	}
	return collapseWhitespace(b.String())
}

// fromPageScrape is the last resort: harvest longer simpleText strings
// from the watch page. Crude, but it recovers something usable when the
// structured paths are blocked.
func (f *Fetcher) fromPageScrape(ctx context.Context, videoID string) (string, error) {
	page, err := f.get(ctx, f.watchURL+"?v="+url.QueryEscape(videoID))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, m := range scrapePattern.FindAllSubmatch(page, -1) {
		b.Write(m[1])
		b.WriteString(" ")
	}
	if b.Len() == 0 {
		return "", errors.New("no caption text found in page")
	}
	return collapseWhitespace(b.String()), nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}
