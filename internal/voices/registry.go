// Package voices provides the static voice registry for the TTS API.
//
// The registry maps short voice identifiers to engine-specific neural voice
// names. Resolution never fails: unknown voices fall back to the language's
// default voice, unknown languages fall back to Indonesian.
package voices

// Supported language identifiers.
const (
	LanguageIndonesian = "indonesian"
	LanguageEnglish    = "english"
)

// Display names used on the HTTP surface.
const (
	displayIndonesian = "Indonesian"
	displayEnglish    = "English"
)

// Default voice identifiers per language.
const (
	defaultIndonesianVoice = "female"
	defaultEnglishVoice    = "female_us"
)

// ResolvedVoice is the concrete engine voice selected for a request, tagged
// with the language it belongs to.
type ResolvedVoice struct {
	ID          string
	Name        string
	Gender      string
	Description string
	Language    string
}

// languageSet holds one language's voices in a fixed listing order plus the
// identifier of its fallback voice.
type languageSet struct {
	display   string
	order     []string
	voices    map[string]ResolvedVoice
	defaultID string
}

// Registry resolves short voice identifiers to engine voice names. The
// content is static configuration data; a Registry is safe for concurrent use.
type Registry struct {
	languages map[string]languageSet
	order     []string
}

// New builds the registry of supported neural voices.
func New() *Registry {
	indonesian := languageSet{
		display:   displayIndonesian,
		order:     []string{"female", "male"},
		defaultID: defaultIndonesianVoice,
		voices: map[string]ResolvedVoice{
			"female": {
				ID:          "female",
				Name:        "id-ID-GadisNeural",
				Gender:      "Female",
				Description: "Natural Indonesian female voice - Professional",
				Language:    displayIndonesian,
			},
			"male": {
				ID:          "male",
				Name:        "id-ID-ArdiNeural",
				Gender:      "Male",
				Description: "Natural Indonesian male voice - Authoritative",
				Language:    displayIndonesian,
			},
		},
	}

	english := languageSet{
		display:   displayEnglish,
		order:     []string{"female_us", "male_us"},
		defaultID: defaultEnglishVoice,
		voices: map[string]ResolvedVoice{
			"female_us": {
				ID:          "female_us",
				Name:        "en-US-AriaNeural",
				Gender:      "Female",
				Description: "Natural US English female voice",
				Language:    displayEnglish,
			},
			"male_us": {
				ID:          "male_us",
				Name:        "en-US-GuyNeural",
				Gender:      "Male",
				Description: "Natural US English male voice",
				Language:    displayEnglish,
			},
		},
	}

	return &Registry{
		languages: map[string]languageSet{
			LanguageIndonesian: indonesian,
			LanguageEnglish:    english,
		},
		order: []string{LanguageIndonesian, LanguageEnglish},
	}
}

// Resolve returns the engine voice for the given short identifier and
// language. Unknown languages resolve against Indonesian; unknown voice
// identifiers resolve to the language's default voice.
func (r *Registry) Resolve(voiceID, language string) ResolvedVoice {
	set, ok := r.languages[language]
	if !ok {
		set = r.languages[LanguageIndonesian]
	}

	voice, ok := set.voices[voiceID]
	if !ok {
		voice = set.voices[set.defaultID]
	}

	return voice
}

// List enumerates every registered voice across all supported languages in a
// deterministic order.
func (r *Registry) List() []ResolvedVoice {
	all := make([]ResolvedVoice, 0, r.Count())

	for _, language := range r.order {
		set := r.languages[language]
		for _, voiceID := range set.order {
			all = append(all, set.voices[voiceID])
		}
	}

	return all
}

// Languages returns the display names of all supported languages.
func (r *Registry) Languages() []string {
	names := make([]string, 0, len(r.order))
	for _, language := range r.order {
		names = append(names, r.languages[language].display)
	}

	return names
}

// Count returns the total number of registered voices.
func (r *Registry) Count() int {
	total := 0
	for _, set := range r.languages {
		total += len(set.voices)
	}

	return total
}
