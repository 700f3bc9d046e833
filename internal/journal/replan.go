package journal

import "time"

// Replan moves an active task plan to a new time while preserving the
// audit trail. The source plan stays where it is, closed as rescheduled
// and pointing forward through replannedToPlanId; a brand-new plan with
// a freshly minted id opens at dest, pointing back through
// replannedFromPlanId. Replanning repeatedly forms a linked list of ids.
//
// Returns Found=false when no active planned task entry carries
// fromPlanID. The source id is never reused for the successor.
func Replan(doc *Document, fromPlanID string, dest Address, now time.Time, ids IDGenerator) (ReplanResult, error) {
	if err := dest.Validate(); err != nil {
		return ReplanResult{}, err
	}
	if _, err := ParseDate(doc.Date); err != nil {
		return ReplanResult{}, err
	}

	var source *Entry
	doc.forEachEntry(func(_ location, e *Entry) {
		if source != nil || !e.IsPlanned() || !e.IsTask() || e.PlanID != fromPlanID {
			return
		}
		Normalize(e, now, ids)
		if e.PlanStatus == StatusActive {
			source = e
		}
	})
	if source == nil {
		return ReplanResult{Found: false}, nil
	}

	newID := ids.NewID()
	source.PlanStatus = StatusRescheduled
	source.ReplannedToPlanID = newID
	source.PlanUpdatedAt = now

	successor := &Entry{
		TaskID:              source.TaskID,
		ListType:            source.ListType,
		EntryMode:           ModePlanned,
		PlanID:              newID,
		PlanStatus:          StatusActive,
		PlanCreatedAt:       now,
		PlanUpdatedAt:       now,
		ReplannedFromPlanID: fromPlanID,
	}
	if err := doc.appendAt(dest, successor); err != nil {
		return ReplanResult{}, err
	}

	return ReplanResult{Found: true, OldPlanID: fromPlanID, NewPlanID: newID}, nil
}
