package journal

import "time"

// CompletePlan closes the plan with the given id at the addressed hour or
// range, then idempotently materializes the equivalent logged entry at
// the same location.
//
// Outcomes: not-found when no planned entry with planID sits at addr;
// already-completed when the plan was closed by an earlier call;
// not-completable when its status is neither active nor missed (for
// example rescheduled). On success the result reports whether a new
// logged entry was created — repeated calls never duplicate the log,
// because an existing entry with the same content and the same
// completedByLogRef suppresses materialization.
//
// The action accepted by callers ("in-progress" | "complete") is not
// branched on: both trigger the same completion transition. That
// mirrors the shipped endpoint behavior; an in-progress sub-state was
// never implemented.
func CompletePlan(doc *Document, planID string, addr Address, now time.Time, ids IDGenerator) (CompleteResult, error) {
	if err := addr.Validate(); err != nil {
		return CompleteResult{}, err
	}
	if _, err := ParseDate(doc.Date); err != nil {
		return CompleteResult{}, err
	}

	var target *Entry
	for _, e := range doc.entriesAt(addr) {
		if e.IsPlanned() && e.PlanID == planID {
			target = e
			break
		}
	}
	if target == nil {
		return CompleteResult{Outcome: CompleteNotFound}, nil
	}

	Normalize(target, now, ids)
	switch target.PlanStatus {
	case StatusCompleted:
		return CompleteResult{Outcome: CompleteAlready}, nil
	case StatusActive, StatusMissed:
	default:
		return CompleteResult{Outcome: CompleteNotCompletable}, nil
	}

	ref := addr.LogRef(doc.Date)
	target.PlanStatus = StatusCompleted
	target.PlanUpdatedAt = now
	target.CompletedByLogRef = &ref

	created, err := materializeLog(doc, target, addr, ref)
	if err != nil {
		return CompleteResult{}, err
	}
	return CompleteResult{Outcome: CompleteDone, LoggedCreated: created}, nil
}

// materializeLog appends the logged twin of a completed plan at the same
// address unless an equivalent logged entry already exists there.
func materializeLog(doc *Document, plan *Entry, addr Address, ref LogRef) (bool, error) {
	logEntry := &Entry{
		TaskID:            plan.TaskID,
		ListType:          plan.ListType,
		Text:              plan.Text,
		EntryMode:         ModeLogged,
		CompletedByLogRef: &ref,
	}

	for _, e := range doc.entriesAt(addr) {
		if !e.IsLogged() || !e.sameContent(logEntry) {
			continue
		}
		if e.CompletedByLogRef != nil && e.CompletedByLogRef.Equal(ref) {
			return false, nil
		}
	}

	if err := doc.appendAt(addr, logEntry); err != nil {
		return false, err
	}
	return true, nil
}
