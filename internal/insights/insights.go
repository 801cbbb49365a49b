// Package insights derives watch analytics from progress records:
// totals, a short daily activity series, and learning streaks.
package insights

import (
	"math"
	"sort"
	"time"

	"github.com/example/learning-tracker/internal/progress"
)

const dailySeriesLen = 7

// Summary holds whole-scope totals.
type Summary struct {
	TotalVideos          int     `json:"total_videos"`
	CompletedVideos      int     `json:"completed_videos"`
	TotalWatchSeconds    float64 `json:"total_watch_seconds"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	CompletionRate       float64 `json:"completion_rate"`
}

// DailyBucket is one day's activity. Minutes accumulates each record's
// watch time rounded to whole minutes, record by record.
type DailyBucket struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Day     string `json:"day"`  // short weekday name
	Videos  int    `json:"videos"`
	Minutes int    `json:"minutes"`
}

// Streaks describes runs of consecutive active days.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Report is the full analytics payload for one progress listing.
type Report struct {
	Summary       Summary       `json:"summary"`
	DailyProgress []DailyBucket `json:"daily_progress"`
	Streaks       Streaks       `json:"streaks"`
}

// Build computes the report. Records are expected most recently watched
// first, as the progress store lists them. Day boundaries use loc.
func Build(records []progress.Record, loc *time.Location, now time.Time) Report {
	return Report{
		Summary:       Summarize(records),
		DailyProgress: DailySeries(records, loc),
		Streaks:       ComputeStreaks(records, loc, now),
	}
}

// Summarize computes totals. CompletionRate is a percentage in [0,100].
// An empty input yields all zeros, never NaN.
func Summarize(records []progress.Record) Summary {
	var s Summary
	s.TotalVideos = len(records)
	for _, r := range records {
		if r.Completed {
			s.CompletedVideos++
		}
		s.TotalWatchSeconds += r.WatchedSeconds
		s.TotalDurationSeconds += r.DurationSeconds
	}
	if s.TotalVideos > 0 {
		s.CompletionRate = float64(s.CompletedVideos) / float64(s.TotalVideos) * 100
	}
	return s
}

// DailySeries groups records by calendar day in scan order and keeps the
// first 7 distinct days encountered. With recency-ordered input that is
// the 7 most recently active days, newest first; days earlier in the scan
// still accumulate records found later that share their date.
func DailySeries(records []progress.Record, loc *time.Location) []DailyBucket {
	buckets := make([]DailyBucket, 0, dailySeriesLen)
	index := make(map[string]int, dailySeriesLen)

	for _, r := range records {
		day := r.LastWatchedAt.In(loc)
		date := day.Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			if len(buckets) >= dailySeriesLen {
				continue
			}
			index[date] = len(buckets)
			buckets = append(buckets, DailyBucket{Date: date, Day: day.Format("Mon")})
			i = index[date]
		}
		buckets[i].Videos++
		buckets[i].Minutes += int(math.Round(r.WatchedSeconds / 60))
	}
	return buckets
}

// ComputeStreaks walks the distinct active days in ascending order. A run
// grows only across adjacent calendar days; any gap resets it. The current
// streak counts only if the most recent active day is today or yesterday.
func ComputeStreaks(records []progress.Record, loc *time.Location, now time.Time) Streaks {
	if len(records) == 0 {
		return Streaks{}
	}

	seen := make(map[int64]struct{}, len(records))
	var days []int64
	for _, r := range records {
		d := epochDay(r.LastWatchedAt, loc)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i] == days[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	current := 0
	today := epochDay(now, loc)
	last := days[len(days)-1]
	if last == today || last == today-1 {
		current = run
	}
	return Streaks{Current: current, Longest: longest}
}

// epochDay maps an instant to a day ordinal in loc, so adjacency is a
// difference of exactly 1.
func epochDay(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
