package utils

import (
	"strconv"
	"strings"
)

// ParseInt returns def for empty or malformed input.
func ParseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
