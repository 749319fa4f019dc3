package engine_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/tts-api/internal/core"
	"github.com/book-expert/tts-api/internal/engine"
)

const testTimeout = 5 * time.Second

func testParams() core.SpeechParams {
	return core.SpeechParams{
		Text:         "Selamat datang",
		VoiceName:    "id-ID-GadisNeural",
		Rate:         "+0%",
		Pitch:        "+0Hz",
		Volume:       "+0%",
		OutputFormat: "wav",
	}
}

func TestSynthesizeSuccess(t *testing.T) {
	t.Parallel()

	const audio = "riff-wav-bytes"

	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v1/synthesize", r.URL.Path)

			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Selamat datang", payload["text"])
			assert.Equal(t, "id-ID-GadisNeural", payload["voice"])
			assert.Equal(t, "+0%", payload["rate"])

			w.Header().Set("Content-Type", "audio/wav")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(audio))
		}),
	)
	defer server.Close()

	client := engine.New(server.URL, testTimeout)

	data, err := client.Synthesize(context.Background(), testParams())
	require.NoError(t, err)
	assert.Equal(t, []byte(audio), data)
}

func TestSynthesizeEmptyTextRejectedBeforeRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Error("engine must not be called for empty text")
			w.WriteHeader(http.StatusInternalServerError)
		}),
	)
	defer server.Close()

	client := engine.New(server.URL, testTimeout)

	params := testParams()
	params.Text = ""

	_, err := client.Synthesize(context.Background(), params)
	assert.ErrorIs(t, err, core.ErrTextEmpty)
}

func TestSynthesizeEmptyAudioIsError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "audio/wav")
			w.WriteHeader(http.StatusOK)
		}),
	)
	defer server.Close()

	client := engine.New(server.URL, testTimeout)

	_, err := client.Synthesize(context.Background(), testParams())
	assert.ErrorIs(t, err, core.ErrEmptyAudio)
}

func TestSynthesizeStructuredEngineError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"detail":     "voice model unavailable",
				"error_code": "MODEL_DOWN",
			})
		}),
	)
	defer server.Close()

	client := engine.New(server.URL, testTimeout)

	_, err := client.Synthesize(context.Background(), testParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "voice model unavailable")
	assert.Contains(t, err.Error(), "MODEL_DOWN")
}

func TestSynthesizeNonAudioContentType(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<html>not audio</html>"))
		}),
	)
	defer server.Close()

	client := engine.New(server.URL, testTimeout)

	_, err := client.Synthesize(context.Background(), testParams())
	assert.ErrorIs(t, err, engine.ErrUnexpectedContentType)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	healthy := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}),
	)
	defer healthy.Close()

	client := engine.New(healthy.URL, testTimeout)
	assert.NoError(t, client.Health(context.Background()))

	unhealthy := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}),
	)
	defer unhealthy.Close()

	client = engine.New(unhealthy.URL, testTimeout)
	assert.Error(t, client.Health(context.Background()))
}
