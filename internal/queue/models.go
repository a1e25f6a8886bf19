package queue

import (
	"math"
	"strings"
	"time"
)

// Status represents the lifecycle of a holding-queue item.
type Status string

const (
	StatusTesting Status = "TESTING"
	StatusWaiting Status = "WAITING"
	StatusReady   Status = "READY"
)

var allStatuses = []Status{
	StatusTesting,
	StatusWaiting,
	StatusReady,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status, ignoring case.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

// Record is the persisted state of one item.
type Record struct {
	// EnteredAt marks when the item last changed status.
	EnteredAt time.Time
	Status    Status
}

// Elapsed returns how long the record has held its current status at now.
func (r Record) Elapsed(now time.Time) time.Duration {
	return now.Sub(r.EnteredAt)
}

// Entry pairs an item identifier with its record.
type Entry struct {
	ID string
	Record
}

// Pending describes an item that is still serving its dwell time.
type Pending struct {
	ID        string
	Remaining time.Duration
}

// Timestamps are kept at microsecond resolution. A microsecond epoch count
// is exactly representable in a float64, so stored values round-trip.
const timestampResolution = time.Microsecond

// stamp reduces t to the resolution the store can hold.
func stamp(t time.Time) time.Time {
	return t.Truncate(timestampResolution)
}

// epochSeconds converts t to the fractional Unix seconds persisted in the store.
func epochSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

func fromEpochSeconds(value float64) time.Time {
	return time.UnixMicro(int64(math.Round(value * 1e6)))
}
