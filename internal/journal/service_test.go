package journal

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore is an in-memory Store that round-trips documents through JSON,
// matching the persistence contract of the file store.
type memStore struct {
	docs   map[string][]byte
	writes int
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string][]byte)}
}

func (m *memStore) Read(date string) (*Document, error) {
	data, ok := m.docs[date]
	if !ok {
		return nil, nil
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (m *memStore) Write(date string, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.docs[date] = data
	m.writes++
	return nil
}

func newTestService(t *testing.T, store Store, clock Clock) Service {
	t.Helper()
	svc, err := NewService(&Config{Clock: clock, IDs: &seqIDs{}}, store, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresStore(t *testing.T) {
	_, err := NewService(nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document store is required")
}

func TestService_DayCreatesEmptyDocument(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, fixedClock{at(9, 0)})
	defer svc.Close()

	doc, err := svc.Day(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, testDate, doc.Date)
	assert.Empty(t, doc.Slots)
	// Nothing changed, so nothing was persisted.
	assert.Zero(t, store.writes)
}

func TestService_DayRejectsMalformedDate(t *testing.T) {
	svc := newTestService(t, newMemStore(), fixedClock{at(9, 0)})
	defer svc.Close()

	_, err := svc.Day(context.Background(), "03/09/2026")
	require.Error(t, err)
}

func TestService_DaySweepsAndPersists(t *testing.T) {
	store := newMemStore()
	doc := NewDocument(testDate)
	require.NoError(t, doc.AppendHour("9am", plannedTask("t1", "p1", at(8, 0))))
	require.NoError(t, store.Write(testDate, doc))
	store.writes = 0

	svc := newTestService(t, store, fixedClock{at(10, 1)})
	defer svc.Close()

	swept, err := svc.Day(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, StatusMissed, swept.Slot("9am").Entries()[0].PlanStatus)
	assert.Equal(t, 1, store.writes)

	// The sweep result was persisted, not just returned.
	reread, err := store.Read(testDate)
	require.NoError(t, err)
	assert.Equal(t, StatusMissed, reread.Slot("9am").Entries()[0].PlanStatus)
}

func TestService_LogEntryBackLinksTask(t *testing.T) {
	store := newMemStore()
	doc := NewDocument(testDate)
	require.NoError(t, doc.AppendHour("9am", plannedTask("t1", "p1", at(8, 0))))
	require.NoError(t, store.Write(testDate, doc))

	svc := newTestService(t, store, fixedClock{at(9, 30)})
	defer svc.Close()

	resp, err := svc.LogEntry(context.Background(), &LogEntryRequest{
		Date:    testDate,
		Address: Address{Hour: "9am"},
		Mode:    ModeLogged,
		TaskID:  "t1",
		ListType: ListHaveToDo,
	})
	require.NoError(t, err)

	assert.True(t, resp.PlanLinked)

	persisted, err := store.Read(testDate)
	require.NoError(t, err)
	entries := persisted.Slot("9am").Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, StatusCompleted, entries[0].PlanStatus)
	require.NotNil(t, entries[0].CompletedByLogRef)
	assert.Equal(t, HourLabel("9am"), entries[0].CompletedByLogRef.Hour)
}

func TestService_LogEntryPlannedDoesNotLink(t *testing.T) {
	svc := newTestService(t, newMemStore(), fixedClock{at(9, 0)})
	defer svc.Close()

	resp, err := svc.LogEntry(context.Background(), &LogEntryRequest{
		Date:    testDate,
		Address: Address{Hour: "2pm"},
		Mode:    ModePlanned,
		TaskID:  "t1",
		ListType: ListWantToDo,
	})
	require.NoError(t, err)

	assert.False(t, resp.PlanLinked)
	assert.Equal(t, StatusActive, resp.Entry.PlanStatus)
	assert.NotEmpty(t, resp.Entry.PlanID)
}

func TestService_LogEntryValidation(t *testing.T) {
	svc := newTestService(t, newMemStore(), fixedClock{at(9, 0)})
	defer svc.Close()
	ctx := context.Background()

	_, err := svc.LogEntry(ctx, &LogEntryRequest{Date: testDate, Mode: ModeLogged, Text: "x"})
	assert.ErrorIs(t, err, ErrEmptyAddress)

	_, err = svc.LogEntry(ctx, &LogEntryRequest{Date: testDate, Address: Address{Hour: "9am"}, Mode: "someday", Text: "x"})
	assert.ErrorIs(t, err, ErrInvalidMode)

	_, err = svc.LogEntry(ctx, &LogEntryRequest{Date: testDate, Address: Address{Hour: "9am"}, Mode: ModeLogged})
	assert.ErrorIs(t, err, ErrEmptyEntry)
}

func TestService_CompletePlanSweepsFirst(t *testing.T) {
	store := newMemStore()
	doc := NewDocument(testDate)
	require.NoError(t, doc.AppendHour("9am", plannedTask("t1", "p1", at(8, 0))))
	require.NoError(t, store.Write(testDate, doc))

	// Past the grace window: the sweep marks the plan missed before the
	// completion protocol runs, and missed plans are still completable.
	svc := newTestService(t, store, fixedClock{at(11, 0)})
	defer svc.Close()

	result, err := svc.CompletePlan(context.Background(), &CompletePlanRequest{
		Date:    testDate,
		PlanID:  "p1",
		Address: Address{Hour: "9am"},
		Action:  ActionComplete,
	})
	require.NoError(t, err)

	assert.Equal(t, CompleteDone, result.Outcome)
	assert.True(t, result.LoggedCreated)

	persisted, err := store.Read(testDate)
	require.NoError(t, err)
	plan := persisted.Slot("9am").Entries()[0]
	assert.Equal(t, StatusCompleted, plan.PlanStatus)
	assert.False(t, plan.MissedAt.IsZero())
}

func TestService_CompletePlanActionValuesBehaveTheSame(t *testing.T) {
	for _, action := range []PlanAction{ActionInProgress, ActionComplete} {
		t.Run(string(action), func(t *testing.T) {
			store := newMemStore()
			doc := NewDocument(testDate)
			require.NoError(t, doc.AppendHour("9am", plannedText("write", "p1", at(8, 0))))
			require.NoError(t, store.Write(testDate, doc))

			svc := newTestService(t, store, fixedClock{at(9, 30)})
			defer svc.Close()

			result, err := svc.CompletePlan(context.Background(), &CompletePlanRequest{
				Date:    testDate,
				PlanID:  "p1",
				Address: Address{Hour: "9am"},
				Action:  action,
			})
			require.NoError(t, err)
			assert.Equal(t, CompleteDone, result.Outcome)
		})
	}
}

func TestService_ReplanPersistsBothEnds(t *testing.T) {
	store := newMemStore()
	doc := NewDocument(testDate)
	require.NoError(t, doc.AppendHour("9am", plannedTask("t1", "P1", at(8, 0))))
	require.NoError(t, store.Write(testDate, doc))

	svc := newTestService(t, store, fixedClock{at(9, 30)})
	defer svc.Close()

	result, err := svc.Replan(context.Background(), &ReplanRequest{
		Date:       testDate,
		FromPlanID: "P1",
		Dest:       Address{Hour: "3pm"},
	})
	require.NoError(t, err)

	require.True(t, result.Found)
	persisted, err := store.Read(testDate)
	require.NoError(t, err)
	assert.Equal(t, StatusRescheduled, persisted.Slot("9am").Entries()[0].PlanStatus)
	assert.Equal(t, result.NewPlanID, persisted.Slot("3pm").Entries()[0].PlanID)
}

func TestService_ClosedServiceRejectsCalls(t *testing.T) {
	svc := newTestService(t, newMemStore(), fixedClock{at(9, 0)})
	require.NoError(t, svc.Close())
	require.NoError(t, svc.Close())

	_, err := svc.Day(context.Background(), testDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}
