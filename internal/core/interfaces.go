// Package core defines the core business logic and interfaces for the TTS API.
package core

import (
	"context"
	"time"
)

// SpeechParams carries the fully resolved parameters for one synthesis call.
// The voice name is the engine-specific identifier, not the short voice ID
// exposed on the HTTP surface.
type SpeechParams struct {
	Text         string
	VoiceName    string
	Rate         string
	Pitch        string
	Volume       string
	OutputFormat string
}

// SpeechSynthesizer defines the interface for the external synthesis
// capability: text plus voice parameters in, raw audio bytes out.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, params SpeechParams) ([]byte, error)
	Health(ctx context.Context) error
}

// SweepScheduler triggers a deferred, best-effort eviction sweep. Schedule
// must never block the caller and must never surface a failure; a lost sweep
// is recovered by the next one.
type SweepScheduler interface {
	Schedule(reason string)
}

// ArtifactEvictor removes stored artifacts older than the given age and
// reports how many were removed.
type ArtifactEvictor interface {
	EvictOlderThan(maxAge time.Duration) (int, error)
}
