package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-digest-go/internal/logger"
	"call-digest-go/internal/processor"
	"call-digest-go/internal/scheduler"
	"call-digest-go/internal/types"
)

type fakeCycles struct {
	res   types.CycleResult
	err   error
	calls int
}

func (f *fakeCycles) RunCycle(ctx context.Context) (types.CycleResult, error) {
	f.calls++
	return f.res, f.err
}

func (f *fakeCycles) Status() processor.Status {
	return processor.Status{LedgerSize: 3, CyclesRun: f.calls}
}

type fakeJobs struct{ running bool }

func (f fakeJobs) Running() bool { return f.running }

func (f fakeJobs) Jobs() []scheduler.JobInfo {
	next := time.Date(2024, 1, 1, 10, 5, 0, 0, time.UTC)
	return []scheduler.JobInfo{{ID: "call_processing_job", Name: "Call Processing Job", Trigger: "interval[5m0s]", NextRun: &next}}
}

func newTestServer(cycles Cycles, jobs Jobs) *Server {
	gin.SetMode(gin.TestMode)
	return New(cycles, jobs, Environment{ProviderSID: "acme1", SlackChannel: "C123", WebhookConfigured: true}, "1.2.3", logger.NewNop())
}

func do(t *testing.T, s *Server, method, path string) (int, map[string]interface{}) {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealth(t *testing.T) {
	code, body := do(t, newTestServer(&fakeCycles{}, fakeJobs{running: true}), http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "running", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, "active", body["scheduler_status"])
	assert.Equal(t, "/trigger", body["endpoints"].(map[string]interface{})["trigger"])
}

func TestTrigger(t *testing.T) {
	cycles := &fakeCycles{res: types.CycleResult{CycleID: "cy1", Success: true, Message: "No new calls to process"}}
	s := newTestServer(cycles, nil)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		code, body := do(t, s, method, "/trigger")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Call processing triggered successfully", body["message"])
		result := body["result"].(map[string]interface{})
		assert.Equal(t, "cy1", result["cycle_id"])
		assert.Equal(t, "No new calls to process", result["message"])
		assert.NotEmpty(t, body["timestamp"])
	}
	assert.Equal(t, 2, cycles.calls)
}

func TestTriggerFailure(t *testing.T) {
	s := newTestServer(&fakeCycles{err: errors.New("cycle not started: context canceled")}, nil)

	code, body := do(t, s, http.MethodPost, "/trigger")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Call processing failed", body["message"])
	assert.Contains(t, body["error"], "context canceled")
}

func TestStatus(t *testing.T) {
	code, body := do(t, newTestServer(&fakeCycles{}, fakeJobs{}), http.MethodGet, "/status")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["scheduler_running"])
	assert.Equal(t, float64(3), body["processor"].(map[string]interface{})["processed_call_ids"])

	env := body["environment"].(map[string]interface{})
	assert.Equal(t, "acme1", env["provider_sid"])
	assert.Equal(t, "C123", env["slack_channel"])
	assert.Equal(t, true, env["slack_webhook_configured"])
}

func TestSchedulerRoute(t *testing.T) {
	code, body := do(t, newTestServer(&fakeCycles{}, fakeJobs{running: true}), http.MethodGet, "/scheduler")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["scheduler_running"])
	assert.Equal(t, float64(1), body["job_count"])
	job := body["jobs"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "call_processing_job", job["id"])
	assert.Equal(t, "2024-01-01T10:05:00Z", job["next_run_time"])

	_, body = do(t, newTestServer(&fakeCycles{}, nil), http.MethodGet, "/scheduler")
	assert.Equal(t, float64(0), body["job_count"])
}
