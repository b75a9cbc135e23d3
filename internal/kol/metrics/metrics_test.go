package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SetRecordsLoaded(42)
	m.IncrementQueriesRejected()
	m.IncrementQueriesRejected()
	m.ObserveList(time.Now())
	m.ObserveStats(time.Now())

	assert.Equal(t, 42.0, testutil.ToFloat64(m.RecordsLoaded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.QueriesRejected))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ListDuration))

	// a second registry accepts a fresh set without duplicate registration
	assert.NotPanics(t, func() { New(prometheus.NewRegistry()) })
}
