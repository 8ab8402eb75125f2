package stubserver

import (
	"time"

	"github.com/hako/durafmt"
)

// formatUptime returns a human-readable string for a duration, to the second.
func formatUptime(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d < time.Second {
		return "0 seconds"
	}
	return durafmt.Parse(d).String()
}
