package voices_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/book-expert/tts-api/internal/voices"
)

func TestResolveKnownVoice(t *testing.T) {
	t.Parallel()

	registry := voices.New()

	voice := registry.Resolve("male", voices.LanguageIndonesian)
	assert.Equal(t, "id-ID-ArdiNeural", voice.Name)
	assert.Equal(t, "Male", voice.Gender)
	assert.Equal(t, "Indonesian", voice.Language)

	voice = registry.Resolve("male_us", voices.LanguageEnglish)
	assert.Equal(t, "en-US-GuyNeural", voice.Name)
	assert.Equal(t, "English", voice.Language)
}

func TestResolveUnknownVoiceFallsBackToLanguageDefault(t *testing.T) {
	t.Parallel()

	registry := voices.New()

	voice := registry.Resolve("narrator", voices.LanguageIndonesian)
	assert.Equal(t, "id-ID-GadisNeural", voice.Name)

	voice = registry.Resolve("narrator", voices.LanguageEnglish)
	assert.Equal(t, "en-US-AriaNeural", voice.Name)
}

func TestResolveUnknownLanguageFallsBackToIndonesian(t *testing.T) {
	t.Parallel()

	registry := voices.New()

	voice := registry.Resolve("female", "klingon")
	assert.Equal(t, "id-ID-GadisNeural", voice.Name)

	// Unknown voice and unknown language resolve to the primary default.
	voice = registry.Resolve("narrator", "klingon")
	assert.Equal(t, "id-ID-GadisNeural", voice.Name)
}

func TestListEnumeratesAllVoicesWithLanguages(t *testing.T) {
	t.Parallel()

	registry := voices.New()

	all := registry.List()
	assert.Len(t, all, registry.Count())
	assert.Len(t, all, 4)

	names := make([]string, 0, len(all))
	for _, voice := range all {
		assert.NotEmpty(t, voice.ID)
		assert.NotEmpty(t, voice.Language)

		names = append(names, voice.Name)
	}

	assert.Equal(t, []string{
		"id-ID-GadisNeural",
		"id-ID-ArdiNeural",
		"en-US-AriaNeural",
		"en-US-GuyNeural",
	}, names)
}

func TestLanguages(t *testing.T) {
	t.Parallel()

	registry := voices.New()
	assert.Equal(t, []string{"Indonesian", "English"}, registry.Languages())
}
