package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// wordForms maps full English language names to tags, since language.Parse
// only accepts codes and BCP 47 tags.
var wordForms = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"arabic":     "ar",
	"hindi":      "hi",
	"dutch":      "nl",
	"polish":     "pl",
	"swedish":    "sv",
	"danish":     "da",
	"norwegian":  "no",
	"finnish":    "fi",
}

// ToISO2 converts a language hint to an ISO 639-1 two-letter code.
// Returns "" when the hint is empty or unrecognized.
func ToISO2(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return ""
	}
	if code, ok := wordForms[strings.ToLower(hint)]; ok {
		return code
	}
	tag, err := language.Parse(hint)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	code := base.String()
	// base.String returns ISO 639-3 for languages without a two-letter code.
	if len(code) != 2 {
		return ""
	}
	return code
}

// DisplayName returns the English display name for a language hint, or the
// trimmed hint itself when it cannot be resolved.
func DisplayName(hint string) string {
	trimmed := strings.TrimSpace(hint)
	code := ToISO2(trimmed)
	if code == "" {
		return trimmed
	}
	tag, err := language.Parse(code)
	if err != nil {
		return trimmed
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return trimmed
}
