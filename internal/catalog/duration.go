// Package catalog talks to the YouTube Data API and carries the value
// types the rest of the service uses to describe playlists and videos.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDuration converts an ISO-8601 YouTube duration ("PT1H2M5S") into
// total seconds. Every component is optional. Anything unparseable maps
// to 0 so a bad upstream value degrades to "unknown length" instead of
// failing the whole playlist page.
func ParseDuration(iso string) int64 {
	iso = strings.TrimSpace(iso)
	rest, ok := strings.CutPrefix(iso, "PT")
	if !ok || rest == "" {
		return 0
	}

	var total int64
	num := ""
	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
		case r == 'H' || r == 'M' || r == 'S':
			if num == "" {
				return 0
			}
			n, err := strconv.ParseInt(num, 10, 64)
			if err != nil {
				return 0
			}
			switch r {
			case 'H':
				total += n * 3600
			case 'M':
				total += n * 60
			case 'S':
				total += n
			}
			num = ""
		default:
			return 0
		}
	}
	if num != "" {
		// Trailing digits without a unit.
		return 0
	}
	return total
}

// FormatDuration renders seconds as "H:MM:SS" when at least an hour long,
// otherwise "M:SS". Negative input renders as zero.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
