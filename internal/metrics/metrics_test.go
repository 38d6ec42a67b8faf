package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAllocation(t *testing.T) {
	before := testutil.ToFloat64(allocationsCounter.WithLabelValues("allocated"))
	Get().RecordAllocation("allocated", 3, 1.5)

	assert.Equal(t, before+1, testutil.ToFloat64(allocationsCounter.WithLabelValues("allocated")))
	assert.Equal(t, 1.5, testutil.ToFloat64(leftoverGauge))
}

func TestRecordQuote(t *testing.T) {
	before := testutil.ToFloat64(quoteFailuresCounter.WithLabelValues("yahoo"))

	Get().RecordQuote("yahoo", 10*time.Millisecond, nil)
	assert.Equal(t, before, testutil.ToFloat64(quoteFailuresCounter.WithLabelValues("yahoo")))

	Get().RecordQuote("yahoo", 10*time.Millisecond, errors.New("timeout"))
	assert.Equal(t, before+1, testutil.ToFloat64(quoteFailuresCounter.WithLabelValues("yahoo")))
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(quoteCacheCounter.WithLabelValues("hit"))
	misses := testutil.ToFloat64(quoteCacheCounter.WithLabelValues("miss"))

	Get().RecordCacheLookup(true)
	Get().RecordCacheLookup(false)
	Get().RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(quoteCacheCounter.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(quoteCacheCounter.WithLabelValues("miss")))
}
