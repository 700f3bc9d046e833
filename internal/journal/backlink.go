package journal

import "time"

// LinkEarliestActivePlan closes the oldest outstanding plan for a task
// when a logged occurrence of that task appears. Candidates are every
// active planned task entry matching taskID, ordered by hour index
// (ranges by their start hour) with ties broken by planCreatedAt. The
// single earliest candidate is marked completed and back-linked to the
// logged occurrence via ref.
//
// Returns true when a plan was closed, false when no candidate existed.
func LinkEarliestActivePlan(doc *Document, taskID string, ref LogRef, now time.Time, ids IDGenerator) bool {
	var (
		best      *Entry
		bestIndex int
	)

	doc.forEachEntry(func(loc location, e *Entry) {
		if !e.IsPlanned() || !e.IsTask() || e.TaskID != taskID {
			return
		}
		Normalize(e, now, ids)
		if e.PlanStatus != StatusActive {
			return
		}
		if best == nil ||
			loc.index < bestIndex ||
			(loc.index == bestIndex && e.PlanCreatedAt.Before(best.PlanCreatedAt)) {
			best = e
			bestIndex = loc.index
		}
	})

	if best == nil {
		return false
	}

	r := ref
	best.PlanStatus = StatusCompleted
	best.CompletedByLogRef = &r
	best.PlanUpdatedAt = now
	return true
}
