package journal

import (
	"time"
)

// EntryMode distinguishes intentions from records.
type EntryMode string

const (
	// ModePlanned marks an intention to do something at a given time.
	ModePlanned EntryMode = "planned"
	// ModeLogged marks a record of something that actually happened.
	ModeLogged EntryMode = "logged"
)

// PlanStatus is the state machine for planned entries.
type PlanStatus string

const (
	StatusActive      PlanStatus = "active"
	StatusMissed      PlanStatus = "missed"
	StatusRescheduled PlanStatus = "rescheduled"
	StatusCompleted   PlanStatus = "completed"
	// StatusCanceled is reserved. Nothing in the engine transitions to it,
	// but documents carrying it must round-trip.
	StatusCanceled PlanStatus = "canceled"
)

// ListType identifies which task list a TaskEntry references.
type ListType string

const (
	ListHaveToDo ListType = "have-to-do"
	ListWantToDo ListType = "want-to-do"
)

// HourRange is an inclusive span of hour labels with Start before End
// in day order.
type HourRange struct {
	Start HourLabel `json:"start"`
	End   HourLabel `json:"end"`
}

// Validate checks both labels and their ordering.
func (r HourRange) Validate() error {
	si, err := HourIndex(r.Start)
	if err != nil {
		return err
	}
	ei, err := HourIndex(r.End)
	if err != nil {
		return err
	}
	if si >= ei {
		return ErrInvalidRange
	}
	return nil
}

// LogRef identifies exactly one logged occurrence: a date plus either an
// hour label or an hour range. Stored as a plain reference, never a
// pointer into the document.
type LogRef struct {
	Date  string     `json:"date"`
	Hour  HourLabel  `json:"hour,omitempty"`
	Range *HourRange `json:"range,omitempty"`
}

// Equal compares two refs field by field.
func (r LogRef) Equal(o LogRef) bool {
	if r.Date != o.Date || r.Hour != o.Hour {
		return false
	}
	if (r.Range == nil) != (o.Range == nil) {
		return false
	}
	if r.Range != nil && *r.Range != *o.Range {
		return false
	}
	return true
}

// Entry is the tagged union shared by hour slots and ranges. A task
// entry references an externally owned task by id; a text entry carries
// free-form content. The planning fields form the envelope and are only
// meaningful when EntryMode is "planned", except CompletedByLogRef which
// a logged entry carries when it was materialized as a plan's closure.
type Entry struct {
	TaskID   string   `json:"taskId,omitempty"`
	ListType ListType `json:"listType,omitempty"`
	Text     string   `json:"text,omitempty"`

	EntryMode EntryMode `json:"entryMode,omitempty"`

	PlanID              string     `json:"planId,omitempty"`
	PlanStatus          PlanStatus `json:"planStatus,omitempty"`
	PlanCreatedAt       time.Time  `json:"planCreatedAt,omitzero"`
	PlanUpdatedAt       time.Time  `json:"planUpdatedAt,omitzero"`
	ReplannedToPlanID   string     `json:"replannedToPlanId,omitempty"`
	ReplannedFromPlanID string     `json:"replannedFromPlanId,omitempty"`
	CompletedByLogRef   *LogRef    `json:"completedByLogRef,omitempty"`
	MissedAt            time.Time  `json:"missedAt,omitzero"`
}

// IsTask reports whether the entry references a task.
func (e *Entry) IsTask() bool { return e.TaskID != "" }

// IsPlanned reports whether the entry is an intention. Entries without an
// explicit mode are legacy logged entries.
func (e *Entry) IsPlanned() bool { return e.EntryMode == ModePlanned }

// IsLogged reports whether the entry records an actual occurrence.
func (e *Entry) IsLogged() bool { return !e.IsPlanned() }

// sameContent reports whether two entries describe the same thing,
// ignoring the planning envelope.
func (e *Entry) sameContent(o *Entry) bool {
	if e.IsTask() || o.IsTask() {
		return e.TaskID == o.TaskID && e.ListType == o.ListType
	}
	return e.Text == o.Text
}

// RangeEntry is an entry spanning an hour range instead of a single slot.
type RangeEntry struct {
	Entry
	Start HourLabel `json:"start"`
	End   HourLabel `json:"end"`
}

// StagedEntry is a task reference not yet placed on the clock. The
// lifecycle engine never mutates these; callers stage and place them.
type StagedEntry struct {
	TaskID   string   `json:"taskId"`
	ListType ListType `json:"listType"`
}

// Address locates a plan target: exactly one of Hour or Range.
type Address struct {
	Hour  HourLabel  `json:"hour,omitempty"`
	Range *HourRange `json:"range,omitempty"`
}

// Validate enforces the exactly-one shape and label validity.
func (a Address) Validate() error {
	switch {
	case a.Hour != "" && a.Range != nil:
		return ErrAmbiguousAddress
	case a.Hour != "":
		if !ValidHour(a.Hour) {
			return ErrInvalidHour
		}
		return nil
	case a.Range != nil:
		return a.Range.Validate()
	default:
		return ErrEmptyAddress
	}
}

// LogRef converts the address into a reference within the given date.
func (a Address) LogRef(date string) LogRef {
	ref := LogRef{Date: date}
	if a.Range != nil {
		r := *a.Range
		ref.Range = &r
	} else {
		ref.Hour = a.Hour
	}
	return ref
}

// CompleteOutcome is the discriminated result of CompletePlan.
type CompleteOutcome string

const (
	// CompleteNotFound: no planned entry with the given id at the address.
	CompleteNotFound CompleteOutcome = "not-found"
	// CompleteAlready: the plan was already completed; nothing changed.
	CompleteAlready CompleteOutcome = "already-completed"
	// CompleteNotCompletable: the plan is neither active nor missed.
	CompleteNotCompletable CompleteOutcome = "not-completable"
	// CompleteDone: the plan was closed on this call.
	CompleteDone CompleteOutcome = "completed"
)

// CompleteResult reports the completion outcome and whether an equivalent
// logged entry was materialized by this call.
type CompleteResult struct {
	Outcome       CompleteOutcome `json:"outcome"`
	LoggedCreated bool            `json:"loggedCreated"`
}

// ReplanResult reports both ends of a replan link.
type ReplanResult struct {
	Found     bool   `json:"found"`
	OldPlanID string `json:"oldPlanId,omitempty"`
	NewPlanID string `json:"newPlanId,omitempty"`
}

// PlanAction is accepted by completion callers. Both values currently
// produce the same completion transition; see CompletePlan.
type PlanAction string

const (
	ActionInProgress PlanAction = "in-progress"
	ActionComplete   PlanAction = "complete"
)

// IDGenerator mints globally unique plan identifiers.
type IDGenerator interface {
	NewID() string
}

// Clock supplies the current time. Injectable for deterministic tests.
type Clock interface {
	Now() time.Time
}
