package core

import "strings"

// Default values applied to unset request fields.
const (
	DefaultVoice    = "female"
	DefaultRate     = "+0%"
	DefaultPitch    = "+0Hz"
	DefaultVolume   = "+0%"
	DefaultLanguage = "indonesian"
	DefaultFormat   = FormatWAV
)

// Supported output formats.
const (
	FormatWAV = "wav"
	FormatMP3 = "mp3"
)

// SynthesisRequest is one text-to-speech request as submitted by a client.
// Rate, pitch and volume are signed delta strings as understood by the engine
// (for example "+10%", "-25Hz").
type SynthesisRequest struct {
	Text         string `json:"text"`
	Voice        string `json:"voice"`
	Rate         string `json:"rate"`
	Pitch        string `json:"pitch"`
	Volume       string `json:"volume"`
	Language     string `json:"language"`
	OutputFormat string `json:"output_format"`
}

// Normalized returns a copy of the request with defaults applied to every
// unset field and the language and format lowered. The original request is
// not modified.
func (r SynthesisRequest) Normalized() SynthesisRequest {
	normalized := r

	if normalized.Voice == "" {
		normalized.Voice = DefaultVoice
	}

	if normalized.Rate == "" {
		normalized.Rate = DefaultRate
	}

	if normalized.Pitch == "" {
		normalized.Pitch = DefaultPitch
	}

	if normalized.Volume == "" {
		normalized.Volume = DefaultVolume
	}

	normalized.Language = strings.ToLower(normalized.Language)
	if normalized.Language == "" {
		normalized.Language = DefaultLanguage
	}

	normalized.OutputFormat = strings.ToLower(normalized.OutputFormat)
	if normalized.OutputFormat == "" {
		normalized.OutputFormat = DefaultFormat
	}

	return normalized
}

// Extension returns the artifact file extension for the requested output
// format: wav (also the default) maps to wav, everything else to mp3.
func (r SynthesisRequest) Extension() string {
	format := strings.ToLower(r.OutputFormat)
	if format == FormatWAV || format == "" {
		return FormatWAV
	}

	return FormatMP3
}

// SynthesisResult is the successful outcome of one synthesis request.
type SynthesisResult struct {
	AudioID          string  `json:"audio_id"`
	AudioURL         string  `json:"audio_url"`
	DurationEstimate float64 `json:"duration_estimate"`
	VoiceUsed        string  `json:"voice_used"`
	FileSize         int64   `json:"file_size"`
}

// BatchItemResult is the outcome of one item within a batch. On success the
// synthesis fields are populated; on failure only Error and TextPreview are.
type BatchItemResult struct {
	Success          bool    `json:"success"`
	AudioID          string  `json:"audio_id,omitempty"`
	AudioURL         string  `json:"audio_url,omitempty"`
	DurationEstimate float64 `json:"duration_estimate,omitempty"`
	VoiceUsed        string  `json:"voice_used,omitempty"`
	FileSize         int64   `json:"file_size,omitempty"`
	Error            string  `json:"error,omitempty"`
	TextPreview      string  `json:"text_preview"`
}

// BatchResult aggregates the per-item outcomes of one batch call. Items keep
// the order of the input requests, and Successful+Failed always equals Total.
type BatchResult struct {
	Total      int
	Successful int
	Failed     int
	Items      []BatchItemResult
}
