package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RootCounters(t *testing.T) {
	m := New()

	m.RecordRootFlagChange(ActionUnset)
	m.RecordRootFlagChange(ActionUnset)
	m.RecordRootFlagChange(ActionSet)
	m.RecordDemotionRejected()

	assert.InDelta(t, 2, testutil.ToFloat64(m.rootFlagChanges.WithLabelValues(ActionUnset)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.rootFlagChanges.WithLabelValues(ActionSet)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.demotionsRejected), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordRootFlagChange(ActionSet)
		m.RecordDemotionRejected()
		m.RecordRedirectCookie(RedirectStored)
		m.ObserveRequest(http.MethodGet, "GET /healthz", http.StatusOK, time.Millisecond)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_HandlerExposesCounters(t *testing.T) {
	m := New()
	m.RecordRedirectCookie(RedirectConsumed)
	m.ObserveRequest(http.MethodPost, "POST /api/roots/unset_root", http.StatusNoContent, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `gatehouse_redirect_cookie_events_total{event="consumed"} 1`)
	assert.Contains(t, body, `gatehouse_http_request_duration_seconds_count{method="POST",route="POST /api/roots/unset_root",status="204"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
