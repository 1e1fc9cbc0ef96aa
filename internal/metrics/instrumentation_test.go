package metrics

import (
	"strings"
	"testing"

	"fitcoach/api/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTransition(t *testing.T) {
	reg := prometheus.NewRegistry()
	instr := NewInstrumentationWithRegisterer("fitcoach", "unit", reg)

	instr.ObserveTransition(domain.EventBegin, domain.SessionInProgress)
	instr.ObserveTransition(domain.EventEnd, domain.SessionCompleted)
	instr.ObserveTransition(domain.EventAutoComplete, domain.SessionCompleted)
	instr.ObserveTransition(domain.EventEnd, domain.SessionCompleted)

	assert.Equal(t, 2.0, testutil.ToFloat64(instr.CounterSessionTransitions.WithLabelValues("end", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(instr.CounterSessionTransitions.WithLabelValues("auto-complete", "completed")))

	expected := `
# HELP fitcoach_unit_session_transitions Committed workout session status changes
# TYPE fitcoach_unit_session_transitions counter
fitcoach_unit_session_transitions{event="auto-complete",to="completed"} 1
fitcoach_unit_session_transitions{event="begin",to="in-progress"} 1
fitcoach_unit_session_transitions{event="end",to="completed"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "fitcoach_unit_session_transitions"))
}

func TestNewInstrumentationWithRegisterer_Isolated(t *testing.T) {
	// two instances on separate registries must not collide
	first := NewTestInstrumentation()
	second := NewTestInstrumentation()
	first.CounterHandleRequestPanic.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(first.CounterHandleRequestPanic))
	assert.Zero(t, testutil.ToFloat64(second.CounterHandleRequestPanic))
}
