package journalstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberworks/daybook/internal/journal"
)

const testDate = "2026-03-09"

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFileStore_ReadAbsentReturnsNil(t *testing.T) {
	store := newTestStore(t)

	doc, err := store.Read(testDate)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestFileStore_WriteReadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	doc := journal.NewDocument(testDate)
	require.NoError(t, doc.AppendHour("9am", &journal.Entry{Text: "standup", EntryMode: journal.ModeLogged}))
	require.NoError(t, doc.AppendRange(journal.HourRange{Start: "12pm", End: "2pm"}, &journal.Entry{
		TaskID:    "t1",
		ListType:  journal.ListHaveToDo,
		EntryMode: journal.ModePlanned,
	}))
	require.NoError(t, store.Write(testDate, doc))

	restored, err := store.Read(testDate)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, testDate, restored.Date)
	require.Equal(t, 1, restored.Slot("9am").Len())
	assert.Equal(t, "standup", restored.Slot("9am").Entries()[0].Text)
	require.Len(t, restored.Ranges, 1)
	assert.Equal(t, "t1", restored.Ranges[0].TaskID)
}

func TestFileStore_ReadReturnsIndependentCopies(t *testing.T) {
	store := newTestStore(t)

	doc := journal.NewDocument(testDate)
	require.NoError(t, doc.AppendHour("9am", &journal.Entry{Text: "original"}))
	require.NoError(t, store.Write(testDate, doc))

	first, err := store.Read(testDate)
	require.NoError(t, err)
	first.Slot("9am").Entries()[0].Text = "mutated"

	second, err := store.Read(testDate)
	require.NoError(t, err)
	assert.Equal(t, "original", second.Slot("9am").Entries()[0].Text)
}

func TestFileStore_WriteSucceedsWhenCachingFails(t *testing.T) {
	store := newTestStore(t)

	// Seed the cache with an earlier revision.
	doc := journal.NewDocument(testDate)
	require.NoError(t, doc.AppendHour("9am", &journal.Entry{Text: "first", EntryMode: journal.ModeLogged}))
	require.NoError(t, store.Write(testDate, doc))

	orig := cloneForCache
	cloneForCache = func(*journal.Document) (*journal.Document, error) {
		return nil, errors.New("clone failed")
	}
	t.Cleanup(func() { cloneForCache = orig })

	require.NoError(t, doc.AppendHour("10am", &journal.Entry{Text: "second", EntryMode: journal.ModeLogged}))
	require.NoError(t, store.Write(testDate, doc))
	cloneForCache = orig

	// The stale cached revision must not survive; Read re-loads the file.
	restored, err := store.Read(testDate)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, 1, restored.Slot("10am").Len())
}

func TestFileStore_RejectsBadDateKeys(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Read("../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidDate)

	err = store.Write("march-9", journal.NewDocument("march-9"))
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestFileStore_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Write(testDate, journal.NewDocument(testDate)))

	info, err := os.Stat(filepath.Join(dir, testDate+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, testDate+".json"), []byte("{nope"), 0600))

	_, err = store.Read(testDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupted")
}

func TestFileStore_Dates(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Write("2026-03-09", journal.NewDocument("2026-03-09")))
	require.NoError(t, store.Write("2026-03-10", journal.NewDocument("2026-03-10")))

	dates, err := store.Dates()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2026-03-09", "2026-03-10"}, dates)
}
