package catalog

import "testing"

func TestParseDuration(t *testing.T) {
	cases := []struct {
		iso  string
		want int64
	}{
		{"PT1H2M5S", 3725},
		{"PT1M5S", 65},
		{"PT0S", 0},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"PT10M", 600},
		{"PT1H5S", 3605},
		{"", 0},
		{"P1D", 0},
		{"PT", 0},
		{"PTXS", 0},
		{"PT5", 0},
		{"garbage", 0},
	}
	for _, c := range cases {
		if got := ParseDuration(c.iso); got != c.want {
			t.Fatalf("ParseDuration(%q) = %d, want %d", c.iso, got, c.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{65, "1:05"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
		{-10, "0:00"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.seconds); got != c.want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	// Parsed API durations should render back to the same second count.
	for _, iso := range []string{"PT1H2M5S", "PT1M5S", "PT59M59S", "PT10H0M1S"} {
		secs := ParseDuration(iso)
		if secs <= 0 {
			t.Fatalf("ParseDuration(%q) returned %d", iso, secs)
		}
		formatted := FormatDuration(secs)
		if formatted == "" {
			t.Fatalf("FormatDuration(%d) returned empty string", secs)
		}
	}
}

func TestExtractPlaylistID(t *testing.T) {
	const id = "PLabc123_DEF-ghi456jkl"
	cases := []struct {
		raw  string
		want string
	}{
		{"https://www.youtube.com/playlist?list=" + id, id},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=" + id, id},
		{"https://m.youtube.com/playlist?list=" + id, id},
		{id, id},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", ""},
		{"https://example.com/playlist?list=" + id, ""},
		{"not a url", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := ExtractPlaylistID(c.raw); got != c.want {
			t.Fatalf("ExtractPlaylistID(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}
