package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticketclassifier/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveClassification(t *testing.T) {
	m := New()
	m.ObserveClassification(models.OutcomeClassified, 300*time.Millisecond)
	m.ObserveClassification(models.OutcomeClassified, 200*time.Millisecond)
	m.ObserveClassification(models.OutcomeNoDescription, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.classifications.WithLabelValues("classified")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classifications.WithLabelValues("no_description")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.classifications.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.completion))
}

func TestObserveBatch(t *testing.T) {
	m := New()
	m.ObserveBatch(3, 1, 1, 2)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.batchRows.WithLabelValues("classified")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.batchRows.WithLabelValues("dropped")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveClassification(models.OutcomeError, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ticketclassifier_classifications_total{outcome="error"} 1`)
	assert.Contains(t, string(body), "ticketclassifier_completion_seconds_bucket")
	assert.Contains(t, string(body), `ticketclassifier_batch_rows_total{result="dropped"} 0`)
}
