package duration_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/book-expert/tts-api/internal/duration"
)

func TestEstimateEmptyTextIsZero(t *testing.T) {
	t.Parallel()

	assert.Zero(t, duration.Estimate("", "indonesian"))
	assert.Zero(t, duration.Estimate("   \t\n", "english"))
}

func TestEstimateKnownValues(t *testing.T) {
	t.Parallel()

	// 120 words at 120 wpm is exactly one minute.
	text := strings.TrimSpace(strings.Repeat("kata ", 120))
	assert.InEpsilon(t, 60.0, duration.Estimate(text, "indonesian"), 0.001)

	// 150 words at 150 wpm is exactly one minute.
	text = strings.TrimSpace(strings.Repeat("word ", 150))
	assert.InEpsilon(t, 60.0, duration.Estimate(text, "english"), 0.001)

	// One Indonesian word is half a second.
	assert.InEpsilon(t, 0.5, duration.Estimate("halo", "indonesian"), 0.001)
}

func TestEstimateUnsupportedLanguageUsesIndonesianRate(t *testing.T) {
	t.Parallel()

	text := "satu dua tiga"
	assert.InEpsilon(
		t,
		duration.Estimate(text, "indonesian"),
		duration.Estimate(text, "klingon"),
		0.001,
	)
}

func TestEstimateMonotonicInWordCount(t *testing.T) {
	t.Parallel()

	previous := 0.0

	for words := 1; words <= 200; words++ {
		text := strings.TrimSpace(strings.Repeat("kata ", words))

		estimate := duration.Estimate(text, "indonesian")
		assert.GreaterOrEqual(t, estimate, previous, "words=%d", words)

		previous = estimate
	}
}
