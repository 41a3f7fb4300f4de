package nav

import (
	"sort"
	"strings"
)

// EncodeList serializes a set of values into the canonical form used in
// query parameters: sorted, deduplicated, comma-joined. An empty set
// encodes to "" so the caller can delete the parameter instead of writing
// an empty one.
func EncodeList(values []string) string {
	if len(values) == 0 {
		return ""
	}

	sorted := append([]string(nil), values...)
	sort.Strings(sorted)

	out := sorted[:0]
	for i, v := range sorted {
		if i > 0 && v == sorted[i-1] {
			continue
		}
		out = append(out, v)
	}
	return strings.Join(out, ",")
}

// DecodeList parses a comma-separated parameter value, trimming whitespace
// and dropping empty entries. Order is preserved; callers treating the
// result as a set normalize it themselves.
func DecodeList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		values = append(values, p)
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
