package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCountsInvocations(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.ObserveInvocation("triage", "success")
	r.ObserveInvocation("triage", "success")
	r.ObserveInvocation("", "error")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.invocations.WithLabelValues("triage", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.invocations.WithLabelValues("unknown", "error")))
}

func TestRecorderObservesCompletion(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.ObserveCompletion("azure", "success", 1500*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() == "analyst_completion_duration_ms" {
			found = true
			require.Len(t, mf.GetMetric(), 1)
			assert.EqualValues(t, 1, mf.GetMetric()[0].GetHistogram().GetSampleCount())
			assert.Equal(t, 1500.0, mf.GetMetric()[0].GetHistogram().GetSampleSum())
		}
	}
	assert.True(t, found)
}

func TestRecorderDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	assert.Error(t, err)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveInvocation("chat", "success")
		r.ObserveCompletion("agent", "error", time.Second)
	})
}
