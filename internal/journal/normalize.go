package journal

import "time"

// Normalize lazily assigns plan identity to a planned entry: a fresh
// unique id, active status, and both timestamps set to now. Fields that
// already have values win, so re-normalizing a complete envelope is a
// no-op. Logged entries are never touched.
//
// Returns whether the entry changed so callers know to persist.
func Normalize(e *Entry, now time.Time, ids IDGenerator) bool {
	if !e.IsPlanned() {
		return false
	}

	changed := false
	if e.PlanID == "" {
		e.PlanID = ids.NewID()
		changed = true
	}
	if e.PlanStatus == "" {
		e.PlanStatus = StatusActive
		changed = true
	}
	if e.PlanCreatedAt.IsZero() {
		e.PlanCreatedAt = now
		changed = true
	}
	if e.PlanUpdatedAt.IsZero() {
		e.PlanUpdatedAt = now
		changed = true
	}
	return changed
}
