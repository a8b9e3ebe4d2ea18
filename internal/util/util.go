// Package util holds small helpers shared across the explanation providers.
package util

import (
	"context"
	"strings"
	"time"
)

// TruncateForLog shortens a string to the given rune limit for log previews,
// appending an ellipsis when truncated. A non-positive limit yields an empty
// string.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// WaitFor sleeps for the duration or until the context is cancelled,
// whichever comes first. Used for retry backoff between provider calls.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
