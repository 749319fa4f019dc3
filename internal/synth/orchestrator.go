// Package synth orchestrates the request-to-artifact lifecycle: validation,
// voice resolution, engine invocation, artifact persistence and deferred
// eviction scheduling.
package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/book-expert/logger"

	"github.com/book-expert/tts-api/internal/artifact"
	"github.com/book-expert/tts-api/internal/core"
	"github.com/book-expert/tts-api/internal/duration"
	"github.com/book-expert/tts-api/internal/metrics"
	"github.com/book-expert/tts-api/internal/voices"
)

// AudioURLPrefix is the download path prefix returned to clients.
const AudioURLPrefix = "/audio/"

// Log formats.
const (
	logFmtGenerated = "Generated audio %s with voice %s (%d bytes)"
	logFmtFailed    = "Synthesis failed: %v"
)

// Sweep trigger reasons.
const (
	sweepReasonSingle = "tts"
	sweepReasonBatch  = "tts-batch"
)

// Orchestrator coordinates one synthesis request end to end. It is safe for
// concurrent use; each HTTP request runs on its own goroutine.
type Orchestrator struct {
	registry      *voices.Registry
	store         *artifact.Store
	engine        core.SpeechSynthesizer
	sweeps        core.SweepScheduler
	metrics       *metrics.Metrics
	maxTextLength int
	batchWorkers  int
	log           *logger.Logger
}

// New creates an Orchestrator. maxTextLength bounds accepted request text in
// characters; batchWorkers bounds batch fan-out parallelism.
func New(
	registry *voices.Registry,
	store *artifact.Store,
	engine core.SpeechSynthesizer,
	sweeps core.SweepScheduler,
	m *metrics.Metrics,
	maxTextLength int,
	batchWorkers int,
	log *logger.Logger,
) *Orchestrator {
	if batchWorkers < 1 {
		batchWorkers = 1
	}

	return &Orchestrator{
		registry:      registry,
		store:         store,
		engine:        engine,
		sweeps:        sweeps,
		metrics:       m,
		maxTextLength: maxTextLength,
		batchWorkers:  batchWorkers,
		log:           log,
	}
}

// MaxTextLength returns the configured text length cap.
func (o *Orchestrator) MaxTextLength() int {
	return o.maxTextLength
}

// Synthesize runs one request through validation, voice resolution, the
// external engine, and artifact persistence, then schedules a deferred
// eviction sweep. Validation failures are reported before any engine call.
func (o *Orchestrator) Synthesize(
	ctx context.Context,
	req core.SynthesisRequest,
) (core.SynthesisResult, error) {
	started := time.Now()

	result, err := o.synthesizeOne(ctx, req, notBatched)

	o.metrics.RecordSynthesis(err == nil, time.Since(started).Seconds(), result.FileSize)

	if err != nil {
		o.log.Error(logFmtFailed, err)

		return core.SynthesisResult{}, err
	}

	o.sweeps.Schedule(sweepReasonSingle)

	return result, nil
}

// notBatched marks a request processed outside a batch.
const notBatched = -1

// synthesizeOne is the shared single-request pipeline. batchIndex >= 0 embeds
// the item's input position in the artifact filename.
func (o *Orchestrator) synthesizeOne(
	ctx context.Context,
	req core.SynthesisRequest,
	batchIndex int,
) (core.SynthesisResult, error) {
	validationErr := o.validate(req)
	if validationErr != nil {
		return core.SynthesisResult{}, validationErr
	}

	normalized := req.Normalized()
	voice := o.registry.Resolve(normalized.Voice, normalized.Language)

	audioData, synthesisErr := o.engine.Synthesize(ctx, core.SpeechParams{
		Text:         normalized.Text,
		VoiceName:    voice.Name,
		Rate:         normalized.Rate,
		Pitch:        normalized.Pitch,
		Volume:       normalized.Volume,
		OutputFormat: normalized.Extension(),
	})
	if synthesisErr != nil {
		if errors.Is(synthesisErr, core.ErrEmptyAudio) {
			return core.SynthesisResult{}, synthesisErr
		}

		return core.SynthesisResult{}, fmt.Errorf(
			"%w: %w",
			core.ErrSynthesisFailed,
			synthesisErr,
		)
	}

	art, writeErr := o.persist(audioData, normalized.Extension(), batchIndex)
	if writeErr != nil {
		return core.SynthesisResult{}, writeErr
	}

	o.log.Info(logFmtGenerated, art.ID, voice.Name, art.Size)

	return core.SynthesisResult{
		AudioID:          art.ID,
		AudioURL:         AudioURLPrefix + art.ID,
		DurationEstimate: duration.Estimate(normalized.Text, normalized.Language),
		VoiceUsed:        voice.Name,
		FileSize:         art.Size,
	}, nil
}

// validate fails fast on bad client input so no synthesis work is wasted.
func (o *Orchestrator) validate(req core.SynthesisRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return core.ErrTextEmpty
	}

	if utf8.RuneCountInString(req.Text) > o.maxTextLength {
		return fmt.Errorf(
			"%w (max %d characters)",
			core.ErrTextTooLong,
			o.maxTextLength,
		)
	}

	return nil
}

func (o *Orchestrator) persist(
	audioData []byte,
	format string,
	batchIndex int,
) (artifact.Artifact, error) {
	if batchIndex >= 0 {
		art, err := o.store.WriteBatchItem(audioData, format, batchIndex)
		if err != nil {
			return artifact.Artifact{}, fmt.Errorf("failed to persist batch item: %w", err)
		}

		return art, nil
	}

	art, err := o.store.Write(audioData, format)
	if err != nil {
		return artifact.Artifact{}, fmt.Errorf("failed to persist artifact: %w", err)
	}

	return art, nil
}
