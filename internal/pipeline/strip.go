package pipeline

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// StripMarkup reduces stored post/message HTML to plain text for scoring.
// Returns the empty string when nothing but markup was present.
func StripMarkup(content string) string {
	stripped := stripPolicy.Sanitize(content)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
