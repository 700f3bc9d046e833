package tasks

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberworks/daybook/internal/journal"
)

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("task-%d", s.n)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestService(t *testing.T, dir string) Service {
	t.Helper()
	svc, err := NewService(&Config{
		Dir:   dir,
		Clock: fixedClock{time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)},
		IDs:   &seqIDs{},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestService_AddAndList(t *testing.T) {
	svc := newTestService(t, t.TempDir())

	first, err := svc.Add(journal.ListHaveToDo, "file taxes")
	require.NoError(t, err)
	assert.Equal(t, "task-1", first.ID)
	assert.False(t, first.Done)

	_, err = svc.Add(journal.ListHaveToDo, "call dentist")
	require.NoError(t, err)
	_, err = svc.Add(journal.ListWantToDo, "read novel")
	require.NoError(t, err)

	have, err := svc.List(journal.ListHaveToDo)
	require.NoError(t, err)
	require.Len(t, have, 2)
	assert.Equal(t, "file taxes", have[0].Text)
	assert.Equal(t, "call dentist", have[1].Text)

	want, err := svc.List(journal.ListWantToDo)
	require.NoError(t, err)
	require.Len(t, want, 1)
}

func TestService_AddValidation(t *testing.T) {
	svc := newTestService(t, t.TempDir())

	_, err := svc.Add("someday", "x")
	assert.ErrorIs(t, err, ErrInvalidList)

	_, err = svc.Add(journal.ListHaveToDo, "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestService_CompleteIsIdempotent(t *testing.T) {
	svc := newTestService(t, t.TempDir())
	task, err := svc.Add(journal.ListHaveToDo, "file taxes")
	require.NoError(t, err)

	done, err := svc.Complete(journal.ListHaveToDo, task.ID)
	require.NoError(t, err)
	assert.True(t, done.Done)
	assert.False(t, done.CompletedAt.IsZero())

	again, err := svc.Complete(journal.ListHaveToDo, task.ID)
	require.NoError(t, err)
	assert.Equal(t, done.CompletedAt, again.CompletedAt)
}

func TestService_GetAndRemove(t *testing.T) {
	svc := newTestService(t, t.TempDir())
	task, err := svc.Add(journal.ListWantToDo, "read novel")
	require.NoError(t, err)

	got, err := svc.Get(journal.ListWantToDo, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "read novel", got.Text)

	_, err = svc.Get(journal.ListHaveToDo, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	require.NoError(t, svc.Remove(journal.ListWantToDo, task.ID))
	_, err = svc.Get(journal.ListWantToDo, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, svc.Remove(journal.ListWantToDo, task.ID), ErrTaskNotFound)
}

func TestService_PersistsAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, dir)
	task, err := svc.Add(journal.ListHaveToDo, "file taxes")
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	reopened := newTestService(t, dir)
	got, err := reopened.Get(journal.ListHaveToDo, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "file taxes", got.Text)
}

func TestService_ListReturnsCopies(t *testing.T) {
	svc := newTestService(t, t.TempDir())
	_, err := svc.Add(journal.ListHaveToDo, "file taxes")
	require.NoError(t, err)

	listed, err := svc.List(journal.ListHaveToDo)
	require.NoError(t, err)
	listed[0].Text = "mutated"

	again, err := svc.List(journal.ListHaveToDo)
	require.NoError(t, err)
	assert.Equal(t, "file taxes", again[0].Text)
}
