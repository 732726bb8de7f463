// Package strings holds small helpers for list-valued settings.
package strings

import (
	"strings"
)

// SplitList flattens comma-separated entries, trims whitespace, and drops
// empties and repeats. Order of first appearance is kept.
//
//	SplitList([]string{"a:9092, b:9092", "a:9092", " "})
//	// []string{"a:9092", "b:9092"}
func SplitList(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
