package progress

import (
	"testing"
	"time"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestMerge_CompletionAtThreshold(t *testing.T) {
	u := Update{UserID: "u1", PlaylistID: "pl", VideoID: "v1", WatchedSeconds: 90, DurationSeconds: 100}
	rec := Merge(Record{}, false, u, now)
	if !rec.Completed {
		t.Fatal("watching 90% of a 100s video must complete it")
	}
}

func TestMerge_BelowThresholdNotCompleted(t *testing.T) {
	u := Update{UserID: "u1", PlaylistID: "pl", VideoID: "v1", WatchedSeconds: 89, DurationSeconds: 100}
	rec := Merge(Record{}, false, u, now)
	if rec.Completed {
		t.Fatal("89% watched must not complete the video")
	}
}

func TestMerge_RoundsToWholeSeconds(t *testing.T) {
	u := Update{UserID: "u1", PlaylistID: "pl", VideoID: "v1", WatchedSeconds: 12.7, DurationSeconds: 600.4}
	rec := Merge(Record{}, false, u, now)
	if rec.WatchedSeconds != 13 || rec.DurationSeconds != 600 {
		t.Fatalf("seconds must round to whole numbers, got watched=%v duration=%v",
			rec.WatchedSeconds, rec.DurationSeconds)
	}

	// Rounding happens before the threshold check, so 89.6/100 counts as 90.
	u = Update{UserID: "u1", PlaylistID: "pl", VideoID: "v1", WatchedSeconds: 89.6, DurationSeconds: 100}
	if rec := Merge(Record{}, false, u, now); !rec.Completed {
		t.Fatal("89.6 rounds to 90 and must complete a 100s video")
	}
}

func TestMerge_CompletionIsSticky(t *testing.T) {
	existing := Record{UserID: "u1", PlaylistID: "pl", VideoID: "v1",
		WatchedSeconds: 95, DurationSeconds: 100, Completed: true}

	// Rewind to 10% with completed not set on the update.
	u := Update{UserID: "u1", PlaylistID: "pl", VideoID: "v1", WatchedSeconds: 10, DurationSeconds: 100}
	rec := Merge(existing, true, u, now)
	if !rec.Completed {
		t.Fatal("completed flag must survive a rewind")
	}
	if rec.WatchedSeconds != 10 {
		t.Fatalf("watched position should follow the update, got %v", rec.WatchedSeconds)
	}
}

func TestMerge_ExplicitCompletedForcesFlag(t *testing.T) {
	u := Update{UserID: "u1", PlaylistID: "pl", VideoID: "v1",
		WatchedSeconds: 5, DurationSeconds: 100, Completed: true}
	rec := Merge(Record{}, false, u, now)
	if !rec.Completed {
		t.Fatal("explicit completed flag must stick regardless of ratio")
	}
}

func TestMerge_ZeroDurationNeverCompletes(t *testing.T) {
	u := Update{UserID: "u1", PlaylistID: "pl", VideoID: "v1", WatchedSeconds: 500, DurationSeconds: 0}
	rec := Merge(Record{}, false, u, now)
	if rec.Completed {
		t.Fatal("unknown duration must not derive completion")
	}
	if rec.Ratio() != 0 {
		t.Fatalf("ratio with zero duration must be 0, got %v", rec.Ratio())
	}
}

func TestMerge_DurationPrefersFreshNonZero(t *testing.T) {
	existing := Record{UserID: "u1", PlaylistID: "pl", VideoID: "v1", DurationSeconds: 300}

	// Zero incoming duration keeps the stored one.
	rec := Merge(existing, true, Update{UserID: "u1", PlaylistID: "pl", VideoID: "v1",
		WatchedSeconds: 50, DurationSeconds: 0}, now)
	if rec.DurationSeconds != 300 {
		t.Fatalf("expected stored duration 300, got %v", rec.DurationSeconds)
	}

	// Fresh non-zero duration replaces it.
	rec = Merge(existing, true, Update{UserID: "u1", PlaylistID: "pl", VideoID: "v1",
		WatchedSeconds: 50, DurationSeconds: 310}, now)
	if rec.DurationSeconds != 310 {
		t.Fatalf("expected fresh duration 310, got %v", rec.DurationSeconds)
	}
}

func TestMerge_ThresholdAgainstKeptDuration(t *testing.T) {
	// Update carries no duration; the ratio must use the stored one.
	existing := Record{UserID: "u1", PlaylistID: "pl", VideoID: "v1", DurationSeconds: 100}
	rec := Merge(existing, true, Update{UserID: "u1", PlaylistID: "pl", VideoID: "v1",
		WatchedSeconds: 95, DurationSeconds: 0}, now)
	if !rec.Completed {
		t.Fatal("95s of a stored 100s duration must complete")
	}
}

func TestMerge_SetsLastWatched(t *testing.T) {
	rec := Merge(Record{}, false, Update{UserID: "u1", PlaylistID: "pl", VideoID: "v1"}, now)
	if !rec.LastWatchedAt.Equal(now) {
		t.Fatalf("expected last watched %v, got %v", now, rec.LastWatchedAt)
	}
}

func TestMerge_ClampsNegatives(t *testing.T) {
	rec := Merge(Record{}, false, Update{UserID: "u1", PlaylistID: "pl", VideoID: "v1",
		WatchedSeconds: -5, DurationSeconds: -10}, now)
	if rec.WatchedSeconds != 0 || rec.DurationSeconds != 0 {
		t.Fatalf("negative inputs must clamp to 0, got %v/%v", rec.WatchedSeconds, rec.DurationSeconds)
	}
}
