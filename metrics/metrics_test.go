package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraskye/mediator"
	"github.com/terraskye/mediator/fixtures"
)

func newCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := NewCollector("test", prometheus.NewRegistry())
	require.NoError(t, err)
	return c
}

func TestNewCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector("dup", reg)
	require.NoError(t, err)

	_, err = NewCollector("dup", reg)
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}

func TestPrometheusMiddleware(t *testing.T) {
	c := newCollector(t)
	fail := errors.New("rejected")

	m := mediator.Register(
		mediator.NewBuilder[fixtures.TestEvent]().Use(PrometheusMiddleware(c)),
		func(ctx context.Context, m *mediator.BasicMediator[fixtures.TestEvent], req fixtures.TestRequest) error {
			if req.Data == "bad" {
				return fail
			}
			return nil
		},
	).Build()

	require.NoError(t, m.Send(context.Background(), fixtures.NewTestRequest().Build()))
	require.NoError(t, m.Send(context.Background(), fixtures.NewTestRequest().Build()))
	assert.ErrorIs(t, m.Send(context.Background(), fixtures.NewTestRequest().WithData("bad").Build()), fail)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("TestRequest", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("TestRequest", "failure")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.requestDuration))
}

func TestPrometheusMiddleware_NilCollector(t *testing.T) {
	called := false
	mw := PrometheusMiddleware(nil)
	err := mw(context.Background(), fixtures.Increment{}, func(ctx context.Context, req any) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestWithListenerMetrics(t *testing.T) {
	c := newCollector(t)
	spy := fixtures.NewListenerSpy[fixtures.TestEvent]()

	m := mediator.NewBuilder[fixtures.TestEvent]().
		AddListener(WithListenerMetrics[fixtures.TestEvent](c, "audit", spy)).
		Build()

	for _, ev := range fixtures.NumberedEvents(3) {
		m.Publish(ev)
	}
	for m.Next() == nil {
	}

	assert.Equal(t, 3, spy.Calls())
	assert.Equal(t, 3.0, testutil.ToFloat64(c.eventsNotified.WithLabelValues("audit", "TestEvent")))
}

func TestWithListenerMetrics_NilCollector(t *testing.T) {
	spy := fixtures.NewListenerSpy[fixtures.TestEvent]()
	assert.Same(t, mediator.Listener[fixtures.TestEvent](spy), WithListenerMetrics[fixtures.TestEvent](nil, "x", spy))
}

func TestShortName(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"value", fixtures.Increment{}, "Increment"},
		{"pointer", &fixtures.Increment{}, "Increment"},
		{"builtin", 42, "int"},
		{"nil", nil, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shortName(tt.in))
		})
	}
}
