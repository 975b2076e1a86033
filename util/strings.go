package util

import "strings"

// FirstNonBlank returns the first value that is not empty after trimming,
// trimmed. Flag values override config values this way.
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
