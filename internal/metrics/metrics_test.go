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

func TestRecordSignIn(t *testing.T) {
	before := testutil.ToFloat64(signIns.WithLabelValues("credentials", OutcomeSuccess))
	RecordSignIn("credentials", OutcomeSuccess)
	assert.Equal(t, before+1, testutil.ToFloat64(signIns.WithLabelValues("credentials", OutcomeSuccess)))
}

func TestHandlerExposesCounters(t *testing.T) {
	RecordSignUp(OutcomeConflict)
	ObserveRequest(http.MethodGet, "GET /healthz", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `auth_signup_total{outcome="conflict"}`)
	assert.Contains(t, body, `http_requests_total{method="GET",route="GET /healthz",status="200"}`)
}
