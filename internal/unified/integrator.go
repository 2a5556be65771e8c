package unified

import (
	"fmt"
	"strings"
)

// Integrate merges per-provider replies into one string. A single reply is
// returned verbatim. Two replies use the dialogue format and three or more
// the list format; both currently share the same separator, but the branch
// is kept so the formats can diverge without re-deriving the rule.
func Integrate(replies []Reply, providers map[string]ProviderDescriptor) string {
	if len(replies) == 1 {
		return replies[0].Text
	}

	parts := make([]string, 0, len(replies))
	for _, r := range replies {
		label := r.Provider
		if desc, ok := providers[r.Provider]; ok {
			label = desc.Name
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", label, r.Text))
	}

	if len(replies) == 2 {
		// Dialogue format.
		return parts[0] + "\n\n" + parts[1]
	}
	// List format.
	return strings.Join(parts, "\n\n")
}
