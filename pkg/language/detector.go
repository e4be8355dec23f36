// Package language tags analysed text with its ISO 639-1 language code.
package language

import (
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector identifies the language of a text among a fixed candidate set.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a Detector restricted to the given ISO 639-1 codes.
// At least two known codes are required.
func NewDetector(codes []string) (*Detector, error) {
	langs, err := resolve(codes)
	if err != nil {
		return nil, err
	}
	if len(langs) < 2 {
		return nil, fmt.Errorf("language detection needs at least 2 languages, got %d", len(langs))
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(langs...).
			WithMinimumRelativeDistance(0.1).
			Build(),
	}, nil
}

// Detect returns the lowercase ISO 639-1 code of text, or "" when the
// language cannot be determined reliably.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

func resolve(codes []string) ([]lingua.Language, error) {
	var langs []lingua.Language
	seen := make(map[lingua.Language]bool)

	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		lang, ok := lookup(code)
		if !ok {
			return nil, fmt.Errorf("unknown language code %q", code)
		}
		if !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	return langs, nil
}

func lookup(code string) (lingua.Language, bool) {
	for _, lang := range lingua.AllLanguages() {
		if strings.EqualFold(lang.IsoCode639_1().String(), code) {
			return lang, true
		}
	}
	return lingua.Unknown, false
}
