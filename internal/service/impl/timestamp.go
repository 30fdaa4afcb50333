package impl

import "time"

const (
	// mtimeEpsilon absorbs clock and filesystem granularity when comparing
	// client-reported mtimes.
	mtimeEpsilon = 2 * time.Second

	// realMtimeDelta separates trustworthy mtimes from fallback ones: a
	// reported mtime within 5s of the upload time almost certainly came from
	// the same clock as the upload itself.
	realMtimeDelta = 5 * time.Second

	// maxFutureDrift tolerates ordinary clock skew before a future mtime is
	// treated as corrupted.
	maxFutureDrift = time.Hour

	// fallbackPreferenceWindow is how much newer (by upload time) the newest
	// fallback version must be before it outranks a real mtime. Guards
	// against one device with a broken clock pinning an old "real" mtime.
	fallbackPreferenceWindow = 7 * 24 * time.Hour
)

// minValidMtime: anything earlier came from a device whose clock was never
// set. Retro handhelds routinely report 1970 or garbage (a CRC read as an
// epoch) after a filesystem stat failure.
var minValidMtime = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// sanitizeTimestamp normalizes a client-reported modification time. Absent
// values fall back to now; values outside [2020-01-01, now+1h] are clamped to
// now rather than rejected, because the upload itself must still succeed.
// The second return reports whether the value was clamped or substituted.
func sanitizeTimestamp(raw time.Time, provided bool, now time.Time) (time.Time, bool) {
	if !provided || raw.IsZero() {
		return now, true
	}
	if raw.After(now.Add(maxFutureDrift)) {
		return now, true
	}
	if raw.Before(minValidMtime) {
		return now, true
	}
	return raw.UTC(), false
}

// hasRealMtime reports whether a version's reported mtime is meaningfully
// distinct from its upload time. Values closer than realMtimeDelta are
// fallback-equivalent: they likely came from the server clock at receipt.
func hasRealMtime(localModifiedAt, uploadedAt time.Time) bool {
	d := uploadedAt.Sub(localModifiedAt)
	if d < 0 {
		d = -d
	}
	return d > realMtimeDelta
}
