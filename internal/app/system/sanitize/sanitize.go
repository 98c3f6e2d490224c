// Package sanitize strips markup from the free-text fields this API
// accepts (slot notes, validation remarks). Everything else is typed or
// enumerated, so this is the only place user text reaches storage.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text returns the input with all HTML removed and surrounding
// whitespace trimmed.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
