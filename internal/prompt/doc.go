// Package prompt collects the identifiers an operator wants to add to the
// waiting queue.
//
// A Session asks whether anything needs adding, reads identifiers one per
// line until a blank line, echoes the list back, and asks for confirmation.
// Declining the confirmation discards the list and starts the entry over.
// The result is the final confirmed list; the session holds no other state.
package prompt
