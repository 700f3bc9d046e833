package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emberworks/daybook/internal/journal"
	"github.com/emberworks/daybook/internal/journalstore"
	"github.com/emberworks/daybook/internal/tasks"
)

const testDate = "2026-03-09"

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// newTestServer wires a server over real file-backed stores in temp dirs.
func newTestServer(t *testing.T, now time.Time) *Server {
	t.Helper()

	store, err := journalstore.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ids := &seqIDs{}
	journalSvc, err := journal.NewService(&journal.Config{
		Clock: fixedClock{now},
		IDs:   ids,
	}, store, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { journalSvc.Close() })

	taskSvc, err := tasks.NewService(&tasks.Config{
		Dir:   t.TempDir(),
		Clock: fixedClock{now},
		IDs:   ids,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { taskSvc.Close() })

	srv, err := NewServer(journalSvc, taskSvc, zap.NewNop(), nil)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestServer_RequiresDependencies(t *testing.T) {
	_, err := NewServer(nil, nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal service is required")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	rec := doJSON(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDay_EmptyDocument(t *testing.T) {
	srv := newTestServer(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/journal/"+testDate, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc journal.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, testDate, doc.Date)
}

func TestDay_MalformedDate(t *testing.T) {
	srv := newTestServer(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/journal/tomorrow", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogEntry_PlannedThenComplete(t *testing.T) {
	srv := newTestServer(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/journal/"+testDate+"/entries",
		`{"hour":"2pm","mode":"planned","text":"write report"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var logged journal.LogEntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logged))
	planID := logged.Entry.PlanID
	require.NotEmpty(t, planID)

	rec = doJSON(t, srv, http.MethodPost,
		"/api/v1/journal/"+testDate+"/plans/"+planID+"/complete",
		`{"hour":"2pm","action":"complete"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result journal.CompleteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, journal.CompleteDone, result.Outcome)
	assert.True(t, result.LoggedCreated)

	// Second completion conflicts and creates nothing.
	rec = doJSON(t, srv, http.MethodPost,
		"/api/v1/journal/"+testDate+"/plans/"+planID+"/complete",
		`{"hour":"2pm","action":"complete"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, journal.CompleteAlready, result.Outcome)
}

func TestLogEntry_BadAddress(t *testing.T) {
	srv := newTestServer(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/journal/"+testDate+"/entries",
		`{"mode":"logged","text":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/journal/"+testDate+"/entries",
		`{"range":{"start":"2pm","end":"12pm"},"mode":"logged","text":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompletePlan_UnknownPlan(t *testing.T) {
	srv := newTestServer(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	rec := doJSON(t, srv, http.MethodPost,
		"/api/v1/journal/"+testDate+"/plans/nope/complete",
		`{"hour":"2pm"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReplan_EndToEnd(t *testing.T) {
	srv := newTestServer(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	// Need task plans for replanning; stage one at 10am.
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/journal/"+testDate+"/entries",
		`{"hour":"10am","mode":"planned","taskId":"t1","listType":"have-to-do"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var logged journal.LogEntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logged))

	rec = doJSON(t, srv, http.MethodPost,
		"/api/v1/journal/"+testDate+"/plans/"+logged.Entry.PlanID+"/replan",
		`{"hour":"3pm"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result journal.ReplanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Found)
	assert.Equal(t, logged.Entry.PlanID, result.OldPlanID)
	assert.NotEqual(t, result.OldPlanID, result.NewPlanID)

	// Unknown plan id is a 404.
	rec = doJSON(t, srv, http.MethodPost,
		"/api/v1/journal/"+testDate+"/plans/ghost/replan", `{"hour":"4pm"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasks_CRUD(t *testing.T) {
	srv := newTestServer(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/tasks/have-to-do", `{"text":"file taxes"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var task tasks.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/tasks/have-to-do", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/tasks/have-to-do/"+task.ID+"/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/tasks/have-to-do/"+task.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/tasks/have-to-do/"+task.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/tasks/someday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	rec := doJSON(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
