// Package quota enforces the per-user daily allowance for note
// generation. Days roll over at midnight IST regardless of where the
// server or the user is.
package quota

import (
	"context"
	"errors"
	"time"
)

// DailyLimit is how many note generations a user gets per day.
const DailyLimit = 3

// ErrLimitExceeded is returned when the day's allowance is used up.
var ErrLimitExceeded = errors.New("daily usage limit exceeded")

// ist is UTC+05:30. A fixed offset, not a tz database zone: India has no
// daylight saving and the rollover must not depend on host tzdata.
var ist = time.FixedZone("IST", 5*3600+30*60)

// DayKey maps an instant to its IST calendar date ("2006-01-02").
// Instants exactly on the midnight boundary belong to the new day.
func DayKey(t time.Time) string {
	return t.In(ist).Format("2006-01-02")
}

// Usage is one user's consumption for one day.
type Usage struct {
	Count     int `json:"current_count"`
	Max       int `json:"max_count"`
	Remaining int `json:"remaining"`
}

func usageFor(count int) Usage {
	u := Usage{Count: count, Max: DailyLimit, Remaining: DailyLimit - count}
	if u.Remaining < 0 {
		u.Remaining = 0
	}
	return u
}

// Store tracks per-(user, day) counters.
type Store interface {
	// CheckAndIncrement consumes one unit for the user's current IST day.
	// At the limit it returns the unchanged usage and ErrLimitExceeded;
	// the count is never pushed past DailyLimit.
	CheckAndIncrement(ctx context.Context, userID string, now time.Time) (Usage, error)

	// GetUsage reads the current day's usage without consuming anything.
	GetUsage(ctx context.Context, userID string, now time.Time) (Usage, error)
}
