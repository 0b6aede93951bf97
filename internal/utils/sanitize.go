package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all markup from user supplied free text. The result is
// plain text for JSON, so entities escaped by the policy are decoded again.
func SanitizeText(input string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(input)))
}

// SanitizeOptional sanitizes a pointer field in place, leaving nil untouched.
func SanitizeOptional(input *string) *string {
	if input == nil {
		return nil
	}
	cleaned := SanitizeText(*input)
	return &cleaned
}
