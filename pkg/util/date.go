package util

import (
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, a plain date, and unix seconds or
// milliseconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		// Anything past year 2286 in seconds is really milliseconds.
		if ts > 1e10 {
			return time.UnixMilli(ts).UTC(), true
		}
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ClampRange orders from/to and limits the span to max. A zero to means now.
func ClampRange(from, to time.Time, max time.Duration, now time.Time) (time.Time, time.Time) {
	if to.IsZero() {
		to = now
	}
	if from.After(to) {
		from, to = to, from
	}
	if max > 0 && (from.IsZero() || to.Sub(from) > max) {
		from = to.Add(-max)
	}
	return from, to
}
