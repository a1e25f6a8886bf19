// Package queue persists holding-queue items in SQLite and evaluates their
// dwell time.
//
// An item is identified by a case-sensitive string and carries the time it
// last changed status plus one of three statuses: Testing, Waiting, or Ready.
// The Engine reports Waiting items whose dwell has not elapsed, promotes the
// ones whose dwell has elapsed to Ready (resetting their timestamp to the
// transition time), and (re)adds items as Waiting. It reads and writes through
// the small Store interface so tests can substitute an in-memory map.
//
// SQLStore is the durable implementation. Records are never deleted; the
// database is the sole source of truth between runs. A record carrying an
// unknown status is an invariant violation and fails the run rather than
// being skipped.
package queue
