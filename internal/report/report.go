package report

import (
	"strconv"
	"time"

	"rotator/internal/queue"
)

// Report captures the transitions of a single run.
type Report struct {
	RunAt   time.Time
	Dwell   time.Duration
	Waiting []queue.Pending
	Ready   []string
	Added   []string
}

// Empty reports whether nothing is waiting and nothing became ready.
func (r Report) Empty() bool {
	return len(r.Waiting) == 0 && len(r.Ready) == 0
}

// RoundedSeconds rounds d to the nearest whole second.
func RoundedSeconds(d time.Duration) int64 {
	return int64(d.Round(time.Second) / time.Second)
}

// waitingLine formats one waiting entry without its list number.
func waitingLine(p queue.Pending) string {
	return p.ID + " - " + formatSeconds(RoundedSeconds(p.Remaining)) + " left in the waiting queue."
}

func formatSeconds(n int64) string {
	if n == 1 {
		return "1 second"
	}
	return strconv.FormatInt(n, 10) + " seconds"
}
