package filters

import (
	"fmt"
	"strings"

	"fta/models"

	lingua "github.com/pemistahl/lingua-go"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// LanguageFilter keeps posts written in one of the given ISO 639-1
// languages. The languages declared on the post are trusted when present,
// otherwise the language is detected from the text.
type LanguageFilter struct {
	Languages []string
	detector  lingua.LanguageDetector
	supported map[lingua.Language]string
}

// NewLanguageFilter builds a filter detecting across all languages lingua
// knows about.
func NewLanguageFilter(codes []string) (*LanguageFilter, error) {
	return newLanguageFilter(codes, lingua.AllLanguages())
}

func newLanguageFilter(codes []string, candidates []lingua.Language) (*LanguageFilter, error) {
	supported := getSupportedLanguages()

	languages := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, ok := isoToLingua(code, supported); !ok {
			return nil, fmt.Errorf("unsupported language code: %s", code)
		}
		languages = append(languages, code)
	}

	return &LanguageFilter{
		Languages: lo.Uniq(languages),
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			WithMinimumRelativeDistance(0.25).
			Build(),
		supported: supported,
	}, nil
}

func (f *LanguageFilter) Keep(post models.Post) bool {
	if len(f.Languages) == 0 {
		return true
	}

	if len(post.Langs) > 0 {
		return lo.SomeBy(post.Langs, func(tag string) bool {
			// "en-US" and "en" are the same language to us
			primary, _, _ := strings.Cut(strings.ToLower(tag), "-")
			return lo.Contains(f.Languages, primary)
		})
	}

	detected, ok := f.detector.DetectLanguageOf(post.Text)
	if !ok {
		log.WithFields(log.Fields{
			"author": post.Author,
		}).Debug("Could not detect post language")
		return false
	}
	return lo.Contains(f.Languages, linguaToISO(detected, f.supported))
}

func linguaToISO(lang lingua.Language, languages map[lingua.Language]string) string {
	if code, ok := languages[lang]; ok {
		return code
	}
	return ""
}

func isoToLingua(code string, languages map[lingua.Language]string) (lingua.Language, bool) {
	for lang, isoCode := range languages {
		if isoCode == code {
			return lang, true
		}
	}
	return lingua.Unknown, false
}

// getSupportedLanguages maps all lingua languages to their ISO 639-1 codes
func getSupportedLanguages() map[lingua.Language]string {
	languages := make(map[lingua.Language]string)
	for _, lang := range lingua.AllLanguages() {
		languages[lang] = strings.ToLower(lang.IsoCode639_1().String())
	}
	return languages
}
