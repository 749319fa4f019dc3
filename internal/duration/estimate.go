// Package duration estimates spoken audio duration from text length.
package duration

import (
	"math"
	"strings"
)

// Speaking rates in words per minute.
const (
	indonesianWordsPerMinute = 120.0
	englishWordsPerMinute    = 150.0
)

const (
	secondsPerMinute = 60.0
	centi            = 100.0
	languageEnglish  = "english"
)

// Estimate returns the estimated spoken duration of text in seconds, rounded
// to two decimal places. Word count is whitespace-based; unsupported languages
// use the Indonesian speaking rate. Empty text yields zero.
func Estimate(text, language string) float64 {
	wordCount := len(strings.Fields(text))
	if wordCount == 0 {
		return 0
	}

	wordsPerMinute := indonesianWordsPerMinute
	if strings.ToLower(language) == languageEnglish {
		wordsPerMinute = englishWordsPerMinute
	}

	seconds := float64(wordCount) / wordsPerMinute * secondsPerMinute

	return math.Round(seconds*centi) / centi
}
