// Package tasks is the task directory the journal references by id. It
// owns the two priority lists (have-to-do, want-to-do); the lifecycle
// engine only ever sees taskId + listType, and the outer surfaces come
// here to resolve display text and completion state.
package tasks

import (
	"errors"
	"fmt"
	"time"

	"github.com/emberworks/daybook/internal/journal"
)

// Errors for task directory operations.
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidList  = errors.New("invalid list type")
	ErrEmptyText    = errors.New("task text is required")
)

// Task is one item on a priority list.
type Task struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"createdAt"`
	CompletedAt time.Time `json:"completedAt,omitzero"`
}

// Lists is the persisted directory shape: both lists in priority order.
type Lists struct {
	HaveToDo []*Task `json:"haveToDo"`
	WantToDo []*Task `json:"wantToDo"`
}

// ValidateList checks a list type against the two known lists.
func ValidateList(list journal.ListType) error {
	switch list {
	case journal.ListHaveToDo, journal.ListWantToDo:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidList, list)
	}
}

func (l *Lists) list(list journal.ListType) []*Task {
	if list == journal.ListWantToDo {
		return l.WantToDo
	}
	return l.HaveToDo
}

func (l *Lists) setList(list journal.ListType, tasks []*Task) {
	if list == journal.ListWantToDo {
		l.WantToDo = tasks
	} else {
		l.HaveToDo = tasks
	}
}

// find returns the task with id on the given list, or nil.
func (l *Lists) find(list journal.ListType, id string) *Task {
	for _, t := range l.list(list) {
		if t.ID == id {
			return t
		}
	}
	return nil
}
