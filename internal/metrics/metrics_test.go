package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/kduhealth/medportal/internal/registration"
)

func TestRegistration_Counters(t *testing.T) {
	m := New()

	m.ObserveAttempt()
	m.ObserveAttempt()
	m.ObserveOutcome(registration.OutcomeSuccess, 120*time.Millisecond)
	m.ObserveOutcome(registration.OutcomeProfileError, 80*time.Millisecond)
	m.ObserveOutcome(registration.OutcomeRejected, 0)
	m.ObserveOrphan("uid-1")
	m.SetOrphanCount(3)

	require.Equal(t, 2.0, testutil.ToFloat64(m.attempts))
	require.Equal(t, 1.0, testutil.ToFloat64(m.outcomes.WithLabelValues("success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.outcomes.WithLabelValues("profile_error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.orphans))
	require.Equal(t, 3.0, testutil.ToFloat64(m.orphanGap))
	require.Equal(t, 1, testutil.CollectAndCount(m.latency))
}

func TestRegistration_Handler(t *testing.T) {
	m := New()
	m.ObserveAttempt()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "medportal_registration_attempts_total 1")
}
