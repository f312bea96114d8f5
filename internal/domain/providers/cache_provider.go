package providers

// AvailabilityCache bounds repeated calendar calls for the same date within
// a short window. Implementations are in-memory and per-process; entries are
// rebuilt lazily after a restart. Stale entries are bypassed on Get, not
// deleted, and overwritten by the next Put.
type AvailabilityCache interface {
	// Get returns the cached slot list for a YYYY-MM-DD date and whether the
	// entry is still fresh.
	Get(date string) ([]string, bool)

	// Put overwrites the entry for date with the current timestamp.
	Put(date string, slots []string)

	// Clear drops every entry. Idempotent.
	Clear()
}
