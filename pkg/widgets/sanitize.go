package widgets

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// maxSanitizeRounds bounds how many entity layers are peeled off input.
const maxSanitizeRounds = 4

// sanitizeText strips every tag from raw and returns plain text. Entities are
// decoded before the policy runs so escaped markup is stripped too, and the
// text the policy escapes is decoded again. Rounds repeat until the result is
// stable; input that never settles stays escaped.
func sanitizeText(raw string) string {
	if !strings.ContainsAny(raw, "<>&") {
		return raw
	}
	s := raw
	for i := 0; i < maxSanitizeRounds; i++ {
		next := html.UnescapeString(textSanitizer().Sanitize(html.UnescapeString(s)))
		if next == s {
			return next
		}
		s = next
	}
	return textSanitizer().Sanitize(s)
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
