package records

import (
	"encoding/json"
	"sort"
	"strings"
)

// ResolveProcessingTypes evaluates a data processing type value.
//
// The value is either a plain tag, a JSON string, or a JSON object of the
// form {"if": [{"condition": ..., "then": tag}], "default": tag}. Objects
// yield every truthy tag they can produce, de-duplicated and sorted.
// Anything else, including an empty value, yields an empty list.
func ResolveProcessingTypes(raw string) []string {
	out := []string{}
	if strings.TrimSpace(raw) == "" {
		return out
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return append(out, raw)
	}

	switch v := parsed.(type) {
	case string:
		return append(out, v)
	case map[string]any:
		return conditionalTypes(v)
	default:
		return out
	}
}

func conditionalTypes(obj map[string]any) []string {
	seen := map[string]bool{}
	if conds, ok := obj["if"].([]any); ok {
		for _, c := range conds {
			entry, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if then, ok := entry["then"].(string); ok && then != "" {
				seen[then] = true
			}
		}
	}
	if def, ok := obj["default"].(string); ok && def != "" {
		seen[def] = true
	}

	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
