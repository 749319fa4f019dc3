package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/tts-api/internal/metrics"
)

func TestMetricsExposition(t *testing.T) {
	t.Parallel()

	m := metrics.New()

	m.RecordSynthesis(true, 0.42, 1024)
	m.RecordSynthesis(false, 0.1, 0)
	m.RecordBatch()
	m.RecordEviction(3)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/metrics", nil)

	m.Handler().ServeHTTP(recorder, request)

	body, err := io.ReadAll(recorder.Result().Body)
	require.NoError(t, err)

	exposition := string(body)
	assert.Contains(t, exposition, `tts_synthesis_requests_total{status="success"} 1`)
	assert.Contains(t, exposition, `tts_synthesis_requests_total{status="failed"} 1`)
	assert.Contains(t, exposition, "tts_batch_requests_total 1")
	assert.Contains(t, exposition, "tts_artifacts_evicted_total 3")
	assert.Contains(t, exposition, "tts_artifact_bytes_written_total 1024")
}

func TestMultipleInstancesDoNotCollide(t *testing.T) {
	t.Parallel()

	first := metrics.New()
	second := metrics.New()

	first.RecordBatch()
	second.RecordBatch()
}
