// Package filter gates postings before publication. The only gate today is
// language: the boards we scrape mix English postings with local-language
// ones, and only English postings enter the pipeline.
package filter

import (
	"strings"

	"github.com/pemistahl/lingua-go"
	"go.uber.org/zap"
)

// minDetectionLength is the shortest text the detector is trusted on.
// Below that, classification is a coin flip and the posting is rejected.
const minDetectionLength = 20

type LanguageFilter struct {
	detector lingua.LanguageDetector
	logger   *zap.Logger
}

// NewLanguageFilter builds a detector restricted to the languages actually
// seen on the scraped boards; a narrow candidate set is much more accurate
// than detecting against all languages.
func NewLanguageFilter(logger *zap.Logger) *LanguageFilter {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.German,
			lingua.French,
			lingua.Spanish,
			lingua.Italian,
			lingua.Dutch,
			lingua.Portuguese,
		).
		Build()

	return &LanguageFilter{
		detector: detector,
		logger:   logger,
	}
}

// IsEnglish reports whether the text is English. Empty, too-short, or
// undetectable text is rejected: better to drop a posting than to store one
// nobody can read.
func (f *LanguageFilter) IsEnglish(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		f.logger.Warn("empty text provided for language detection")
		return false
	}

	if len(text) < minDetectionLength {
		f.logger.Debug("text too short for reliable language detection",
			zap.Int("length", len(text)),
		)
		return false
	}

	language, ok := f.detector.DetectLanguageOf(text)
	if !ok {
		f.logger.Debug("language could not be determined",
			zap.Int("length", len(text)),
		)
		return false
	}

	if language != lingua.English {
		f.logger.Info("non-English content rejected",
			zap.String("language", language.String()),
			zap.Int("length", len(text)),
		)
		return false
	}

	return true
}
