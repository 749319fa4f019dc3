package synth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/book-expert/tts-api/internal/core"
)

// MaxBatchSize is the fixed cap on requests per batch call.
const MaxBatchSize = 10

// Preview length for failed and successful batch items, in characters.
const previewLength = 50

const logFmtBatchItemFailed = "Batch item %d failed: %v"

// SynthesizeBatch processes up to MaxBatchSize requests with bounded
// parallelism. A failure on one item never aborts the others; results keep
// the input order and Successful+Failed always equals Total. One deferred
// eviction sweep is scheduled after the whole batch, not per item.
func (o *Orchestrator) SynthesizeBatch(
	ctx context.Context,
	requests []core.SynthesisRequest,
) (core.BatchResult, error) {
	if len(requests) > MaxBatchSize {
		return core.BatchResult{}, fmt.Errorf(
			"%w: maximum %d requests per batch",
			core.ErrBatchTooLarge,
			MaxBatchSize,
		)
	}

	o.metrics.RecordBatch()

	items := make([]core.BatchItemResult, len(requests))

	var waitGroup sync.WaitGroup

	// Semaphore channel bounds concurrent engine calls.
	workerPool := make(chan struct{}, o.batchWorkers)

	for requestIndex, request := range requests {
		waitGroup.Add(1)

		go func(index int, req core.SynthesisRequest) {
			defer waitGroup.Done()

			workerPool <- struct{}{}

			defer func() { <-workerPool }()

			items[index] = o.processBatchItem(ctx, req, index)
		}(requestIndex, request)
	}

	waitGroup.Wait()
	close(workerPool)

	result := core.BatchResult{
		Total: len(requests),
		Items: items,
	}

	for _, item := range items {
		if item.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}

	o.sweeps.Schedule(sweepReasonBatch)

	return result, nil
}

func (o *Orchestrator) processBatchItem(
	ctx context.Context,
	req core.SynthesisRequest,
	index int,
) core.BatchItemResult {
	started := time.Now()

	single, err := o.synthesizeOne(ctx, req, index)

	o.metrics.RecordSynthesis(err == nil, time.Since(started).Seconds(), single.FileSize)

	if err != nil {
		o.log.Error(logFmtBatchItemFailed, index, err)

		return core.BatchItemResult{
			Success:     false,
			Error:       err.Error(),
			TextPreview: textPreview(req.Text),
		}
	}

	return core.BatchItemResult{
		Success:          true,
		AudioID:          single.AudioID,
		AudioURL:         single.AudioURL,
		DurationEstimate: single.DurationEstimate,
		VoiceUsed:        single.VoiceUsed,
		FileSize:         single.FileSize,
		TextPreview:      textPreview(req.Text),
	}
}

// textPreview returns the first 50 characters of text, with an ellipsis when
// truncated.
func textPreview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}

	return string(runes[:previewLength]) + "..."
}
