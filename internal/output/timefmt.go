package output

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Relative renders t as a short relative-time string ("3 days ago"),
// used by `show` and `stale` so users aren't stuck parsing RFC3339.
func Relative(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}
