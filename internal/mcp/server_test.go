package mcp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emberworks/daybook/internal/journal"
	"github.com/emberworks/daybook/internal/journalstore"
	"github.com/emberworks/daybook/internal/tasks"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestServices(t *testing.T) (journal.Service, tasks.Service) {
	t.Helper()
	store, err := journalstore.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	clock := fixedClock{time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)}
	journalSvc, err := journal.NewService(&journal.Config{Clock: clock}, store, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { journalSvc.Close() })

	taskSvc, err := tasks.NewService(&tasks.Config{Dir: t.TempDir(), Clock: clock}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { taskSvc.Close() })

	return journalSvc, taskSvc
}

func TestNewServer_RequiresServices(t *testing.T) {
	journalSvc, taskSvc := newTestServices(t)

	_, err := NewServer(nil, nil, taskSvc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal service is required")

	_, err = NewServer(nil, journalSvc, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task service is required")
}

func TestNewServer_RegistersTools(t *testing.T) {
	journalSvc, taskSvc := newTestServices(t)

	srv, err := NewServer(nil, journalSvc, taskSvc)
	require.NoError(t, err)
	require.NotNil(t, srv)
	assert.NotNil(t, srv.mcp)
}

func TestAddressArgs(t *testing.T) {
	hour := addressArgs{Hour: "9am"}.address()
	assert.Equal(t, journal.HourLabel("9am"), hour.Hour)
	assert.Nil(t, hour.Range)

	ranged := addressArgs{Start: "12pm", End: "2pm"}.address()
	require.NotNil(t, ranged.Range)
	assert.Equal(t, journal.HourLabel("12pm"), ranged.Range.Start)
}
