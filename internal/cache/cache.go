package cache

import "time"

// Cache stores named snapshots together with a capture timestamp. Callers
// decide how fresh a snapshot has to be; the cache itself never expires
// anything.
type Cache interface {
	// Get unmarshals the snapshot stored under key into v and returns its
	// capture time. ok is false when no usable snapshot exists.
	Get(key string, v any) (capturedAt time.Time, ok bool)

	// Put stores v under key with the current time as capture timestamp.
	// Failures are logged and swallowed; caching is best effort.
	Put(key string, v any)
}

// Fresh reports whether a snapshot captured at capturedAt is still usable
// within the given window.
func Fresh(capturedAt time.Time, window time.Duration) bool {
	return time.Since(capturedAt) < window
}
