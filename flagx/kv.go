package flagx

import (
	"fmt"
	"strings"
)

// ParseKeyValues parses repeated key=value arguments (for example --set a.b=1).
// Keys and values are trimmed; the value may itself contain '='.
// Later pairs win over earlier ones.
func ParseKeyValues(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, raw := range pairs {
		key, val, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", raw)
		}
		out[key] = strings.TrimSpace(val)
	}
	return out, nil
}
