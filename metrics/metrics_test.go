package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTransition(t *testing.T) {
	m := NewMetrics()

	m.RecordTransition("edit", OutcomeCommitted, time.Millisecond)
	m.RecordTransition("edit", OutcomeCommitted, time.Millisecond)
	m.RecordTransition("restore", OutcomeConflict, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TransitionsTotal.WithLabelValues("edit", OutcomeCommitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransitionsTotal.WithLabelValues("restore", OutcomeConflict)))
}

func TestRecordRejectionSkipsDuration(t *testing.T) {
	m := NewMetrics()

	m.RecordRejection("edit")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransitionsTotal.WithLabelValues("edit", OutcomeRejected)))
	assert.Equal(t, 0, testutil.CollectAndCount(m.TransitionDuration))

	m.RecordTransition("edit", OutcomeCommitted, time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.TransitionDuration))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.RecordHTTPRequest("GET", "/health", "200", time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "prd_http_requests_total"))
}
