package synth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/tts-api/internal/core"
)

func batchOf(texts ...string) []core.SynthesisRequest {
	requests := make([]core.SynthesisRequest, 0, len(texts))
	for _, text := range texts {
		requests = append(requests, core.SynthesisRequest{Text: text})
	}

	return requests
}

func TestSynthesizeBatchRejectsOversizedBatch(t *testing.T) {
	t.Parallel()

	h := newHarness(t, 5000)

	requests := make([]core.SynthesisRequest, 11)
	for i := range requests {
		requests[i] = core.SynthesisRequest{Text: "item"}
	}

	_, err := h.orchestrator.SynthesizeBatch(context.Background(), requests)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBatchTooLarge)

	// Rejected before any item was processed.
	assert.Zero(t, h.engine.calls.Load())
	assert.Zero(t, h.scheduler.calls.Load())
}

func TestSynthesizeBatchAllSucceed(t *testing.T) {
	t.Parallel()

	h := newHarness(t, 5000)

	result, err := h.orchestrator.SynthesizeBatch(
		context.Background(),
		batchOf("satu", "dua", "tiga"),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Successful)
	assert.Zero(t, result.Failed)
	require.Len(t, result.Items, 3)

	for i, item := range result.Items {
		assert.True(t, item.Success, "item %d", i)
		assert.NotEmpty(t, item.AudioID, "item %d", i)

		// Every artifact is retrievable.
		_, findErr := h.store.Find(item.AudioID)
		assert.NoError(t, findErr, "item %d", i)
	}

	// Previews preserve input order.
	assert.Equal(t, "satu", result.Items[0].TextPreview)
	assert.Equal(t, "dua", result.Items[1].TextPreview)
	assert.Equal(t, "tiga", result.Items[2].TextPreview)

	// One deferred sweep for the whole batch, not one per item.
	assert.Equal(t, int64(1), h.scheduler.calls.Load())
}

func TestSynthesizeBatchIsolatesItemFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, 5000)
	h.engine.failMarker = "boom"

	result, err := h.orchestrator.SynthesizeBatch(
		context.Background(),
		batchOf("first item", "second boom item", "third item"),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, result.Total, result.Successful+result.Failed)

	assert.True(t, result.Items[0].Success)
	assert.False(t, result.Items[1].Success)
	assert.True(t, result.Items[2].Success)

	assert.NotEmpty(t, result.Items[1].Error)
	assert.Equal(t, "second boom item", result.Items[1].TextPreview)
}

func TestSynthesizeBatchPreviewTruncation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, 5000)

	longText := strings.Repeat("x", 80)

	result, err := h.orchestrator.SynthesizeBatch(
		context.Background(),
		batchOf(longText),
	)
	require.NoError(t, err)

	preview := result.Items[0].TextPreview
	assert.Equal(t, strings.Repeat("x", 50)+"...", preview)
	assert.Len(t, preview, 53)
}

func TestSynthesizeBatchValidatesItems(t *testing.T) {
	t.Parallel()

	h := newHarness(t, 20)

	result, err := h.orchestrator.SynthesizeBatch(
		context.Background(),
		batchOf("ok", "", strings.Repeat("a", 21)),
	)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 2, result.Failed)
	assert.True(t, result.Items[0].Success)
	assert.False(t, result.Items[1].Success)
	assert.False(t, result.Items[2].Success)
}

func TestSynthesizeBatchEmptyBatch(t *testing.T) {
	t.Parallel()

	h := newHarness(t, 5000)

	result, err := h.orchestrator.SynthesizeBatch(context.Background(), nil)
	require.NoError(t, err)

	assert.Zero(t, result.Total)
	assert.Zero(t, result.Successful)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.Items)
}
