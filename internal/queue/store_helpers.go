package queue

import "strings"

const selectEntries = `SELECT id, entered_at, status FROM items`

const upsertItem = `INSERT INTO items (id, entered_at, status) VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET entered_at = excluded.entered_at, status = excluded.status`

// scanEntry reads one items row and rejects unknown statuses.
func scanEntry(row interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry     Entry
		enteredAt float64
		status    string
	)
	if err := row.Scan(&entry.ID, &enteredAt, &status); err != nil {
		return Entry{}, err
	}
	entry.EnteredAt = fromEpochSeconds(enteredAt)
	entry.Status = Status(status)
	if err := checkRecord(entry.ID, entry.Record); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// statusFilter returns a WHERE clause and its arguments for statuses.
func statusFilter(statuses []Status) (string, []any) {
	if len(statuses) == 0 {
		return "", nil
	}
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = string(status)
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	return ` WHERE status IN (` + marks + `)`, args
}
