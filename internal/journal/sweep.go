package journal

import "time"

// Sweep reconciles overdue plans. Every planned entry reachable from
// hour slots or ranges is normalized, then any still-active plan whose
// deadline has passed is marked missed. The deadline is the slot's clock
// time (a range's end time) plus one hour of grace; labels before 7am
// resolve to the next calendar date.
//
// Task plans whose task already has a logged occurrence anywhere in the
// document are left alone: the task is accounted for, so the stale plan
// is not flagged. Sweep runs before every other lifecycle operation.
//
// Returns whether anything changed, so callers know whether to persist.
func Sweep(doc *Document, now time.Time, ids IDGenerator) (bool, error) {
	if _, err := ParseDate(doc.Date); err != nil {
		return false, err
	}

	logged := doc.loggedTaskIDs()
	changed := false

	doc.forEachEntry(func(loc location, e *Entry) {
		if !e.IsPlanned() {
			return
		}
		if Normalize(e, now, ids) {
			changed = true
		}
		if e.PlanStatus != StatusActive {
			return
		}
		if e.IsTask() && logged[e.TaskID] {
			return
		}

		end := loc.addr.Hour
		if loc.addr.Range != nil {
			end = loc.addr.Range.End
		}
		deadline, err := deadlineFor(doc.Date, end)
		if err != nil {
			// Malformed persisted end label; leave the plan untouched,
			// the same as a malformed range start.
			return
		}
		if now.After(deadline) {
			e.PlanStatus = StatusMissed
			e.MissedAt = now
			e.PlanUpdatedAt = now
			changed = true
		}
	})

	return changed, nil
}
