package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips all HTML. User-entered case fields and model-produced
// entry text are persisted as plain text and rendered without escaping by
// API consumers, so markup is removed on the way in.
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText removes any HTML markup from free-text input
func SanitizeText(input string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(input))
}
