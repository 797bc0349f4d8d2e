package middleware

import (
	"golang.org/x/text/language"
)

// PreferredLocale extracts the best language tag from an Accept-Language
// header, for tagging visitor records. Returns "" when the header is empty
// or unparseable; the enrichment is optional everywhere it is used.
func PreferredLocale(acceptLanguage string) string {
	if acceptLanguage == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return ""
	}
	tag := tags[0]
	if tag == language.Und {
		return ""
	}
	return tag.String()
}
