package journal

import (
	"fmt"
	"time"
)

// seqIDs mints deterministic ids ("id-1", "id-2", …) for tests.
type seqIDs struct {
	n int
}

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

// fixedClock always reports the same instant.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// at builds a UTC timestamp on the test date.
func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 9, hour, min, 0, 0, time.UTC)
}

const testDate = "2026-03-09"

func plannedTask(taskID, planID string, created time.Time) *Entry {
	return &Entry{
		TaskID:        taskID,
		ListType:      ListHaveToDo,
		EntryMode:     ModePlanned,
		PlanID:        planID,
		PlanStatus:    StatusActive,
		PlanCreatedAt: created,
		PlanUpdatedAt: created,
	}
}

func plannedText(text, planID string, created time.Time) *Entry {
	return &Entry{
		Text:          text,
		EntryMode:     ModePlanned,
		PlanID:        planID,
		PlanStatus:    StatusActive,
		PlanCreatedAt: created,
		PlanUpdatedAt: created,
	}
}
