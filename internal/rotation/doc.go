// Package rotation runs one rotation cycle end to end.
//
// A cycle holds an exclusive lock file in the data directory, evaluates the
// waiting queue, promotes items whose dwell has elapsed, reports the result
// to the operator and the run log, and then places any newly entered items
// into the waiting queue. The item store is closed while the operator is
// typing so a slow answer never keeps the database open.
package rotation
