// Package engine provides the HTTP client for the external neural synthesis
// engine, the collaborator that turns text plus voice parameters into audio
// bytes.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/book-expert/tts-api/internal/core"
)

// API endpoints and paths.
const (
	apiSynthesize = "/v1/synthesize"
	apiHealth     = "/health"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	contentTypeJSON   = "application/json"
	acceptAudio       = "audio/wav, audio/mpeg"
	audioTypePrefix   = "audio/"
)

// Static errors.
var (
	// ErrUnexpectedContentType indicates the engine answered with a non-audio body.
	ErrUnexpectedContentType = errors.New("unexpected content type from engine")
)

// synthesizeRequest is the JSON payload for engine synthesis calls.
type synthesizeRequest struct {
	Text         string `json:"text"`
	Voice        string `json:"voice"`
	Rate         string `json:"rate"`
	Pitch        string `json:"pitch"`
	Volume       string `json:"volume"`
	OutputFormat string `json:"output_format"`
}

// engineErrorResponse is the structured error body the engine returns on
// failure, providing actionable diagnostics.
type engineErrorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

// Client talks to the external synthesis engine over HTTP. It implements
// core.SpeechSynthesizer.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client for the engine at baseURL (protocol and port included,
// e.g. "http://localhost:8000"). The timeout applies to every request.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Synthesize sends one synthesis request and returns the raw audio bytes.
// The engine call is the dominant latency source of the whole service, so the
// caller's context governs cancellation.
func (c *Client) Synthesize(ctx context.Context, params core.SpeechParams) ([]byte, error) {
	if params.Text == "" {
		return nil, core.ErrTextEmpty
	}

	requestBody, err := json.Marshal(synthesizeRequest{
		Text:         params.Text,
		Voice:        params.VoiceName,
		Rate:         params.Rate,
		Pitch:        params.Pitch,
		Volume:       params.Volume,
		OutputFormat: params.OutputFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal engine request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+apiSynthesize,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, acceptAudio)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to send request to engine at %s: %w",
			c.baseURL,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	contentType := resp.Header.Get(headerContentType)
	if !strings.HasPrefix(contentType, audioTypePrefix) {
		return nil, fmt.Errorf("%w: got %q", ErrUnexpectedContentType, contentType)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	if len(audioData) == 0 {
		return nil, core.ErrEmptyAudio
	}

	return audioData, nil
}

// Health verifies that the engine is running and operational.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+apiHealth,
		http.NoBody,
	)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf(
			"health check failed for engine at %s: %w",
			c.baseURL,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("engine health check failed with status: %s", resp.Status)
	}

	return nil
}

// parseErrorResponse attempts to decode a structured JSON error from the
// engine, falling back to the raw body so diagnostics are never lost.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	var errorResp engineErrorResponse

	err := json.NewDecoder(resp.Body).Decode(&errorResp)
	if err == nil && errorResp.Detail != "" {
		return fmt.Errorf(
			"engine error (%s): %s (code: %s)",
			resp.Status,
			errorResp.Detail,
			errorResp.ErrorCode,
		)
	}

	body, _ := io.ReadAll(resp.Body)

	return fmt.Errorf(
		"engine returned non-OK status: %s, body: %s",
		resp.Status,
		string(body),
	)
}
