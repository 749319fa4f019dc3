package core

import "errors"

// Client input errors. The HTTP boundary maps these to 400 responses.
var (
	// ErrTextEmpty indicates that the request text is empty or whitespace-only.
	ErrTextEmpty = errors.New("text cannot be empty")
	// ErrTextTooLong indicates that the request text exceeds the configured maximum.
	ErrTextTooLong = errors.New("text too long")
	// ErrBatchTooLarge indicates that a batch exceeds the per-batch request cap.
	ErrBatchTooLarge = errors.New("too many requests in batch")
)

// Synthesis and storage errors. The HTTP boundary maps these to 500 responses.
var (
	// ErrSynthesisFailed indicates that the external engine call failed.
	ErrSynthesisFailed = errors.New("speech synthesis failed")
	// ErrEmptyAudio indicates that the engine call succeeded but produced no output.
	ErrEmptyAudio = errors.New("engine produced no output")
	// ErrStorageWrite indicates that a generated artifact could not be persisted.
	ErrStorageWrite = errors.New("failed to write audio artifact")
)

// ErrArtifactNotFound indicates that no stored artifact matches the requested
// identifier. The HTTP boundary maps it to a 404 response.
var ErrArtifactNotFound = errors.New("audio file not found")
