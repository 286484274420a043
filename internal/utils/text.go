package utils

import "strings"

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// CapStrings trims every entry, drops empty ones and keeps at most maxItems
// entries, each shortened to maxRunes.
func CapStrings(items []string, maxItems, maxRunes int) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if maxItems > 0 && len(out) >= maxItems {
			break
		}
		item = strings.Join(strings.Fields(item), " ")
		if item == "" {
			continue
		}
		if maxRunes > 0 {
			item = TruncateForLog(item, maxRunes)
		}
		out = append(out, item)
	}
	return out
}

// AppendUnique appends values to dst skipping case-insensitive duplicates.
// Order of first appearance is kept.
func AppendUnique(dst []string, values ...string) []string {
	seen := make(map[string]struct{}, len(dst)+len(values))
	for _, v := range dst {
		seen[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
