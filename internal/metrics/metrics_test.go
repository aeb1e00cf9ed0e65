package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dovakin0007.com/notes-moderation/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAndScrape(t *testing.T) {
	m := metrics.New()
	m.ObserveTransition("approve", "ok")
	m.ObserveTransition("approve", "ok")
	m.ObserveTransition("reject", "validation")
	m.ObserveRequest("grpc", "/notes.v1.NoteService/GetNote", "OK", 3*time.Millisecond)

	expected := `
# HELP notes_transitions_total Workflow transitions by action and outcome
# TYPE notes_transitions_total counter
notes_transitions_total{action="approve",outcome="ok"} 2
notes_transitions_total{action="reject",outcome="validation"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "notes_transitions_total"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `notes_requests_total{code="OK",method="/notes.v1.NoteService/GetNote",transport="grpc"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveTransition("submit", "ok")
		m.ObserveRequest("http", "GET /notes", "200", time.Millisecond)
	})
	assert.Nil(t, m.Registry())
}
