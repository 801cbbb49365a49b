package catalog

import (
	"net/url"
	"regexp"
	"strings"
)

var playlistIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{13,42}$`)

// VideoIDPattern matches the canonical 11-character YouTube video id.
var VideoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractPlaylistID pulls the playlist id out of a YouTube URL. It accepts
// watch URLs carrying a list= parameter, /playlist?list= URLs, and a bare
// playlist id pasted directly. Returns "" when nothing usable is found.
func ExtractPlaylistID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		if !isYouTubeHost(u.Host) {
			return ""
		}
		if id := strings.TrimSpace(u.Query().Get("list")); id != "" && playlistIDPattern.MatchString(id) {
			return id
		}
		return ""
	}

	if playlistIDPattern.MatchString(raw) {
		return raw
	}
	return ""
}

func isYouTubeHost(host string) bool {
	host = strings.ToLower(host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	return host == "youtube.com" || host == "www.youtube.com" ||
		host == "m.youtube.com" || host == "music.youtube.com" || host == "youtu.be"
}
