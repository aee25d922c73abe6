// Package common provides shared utilities used across CLI and server packages.
package common

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidIdeaNumber is returned when an idea reference is not a positive number.
var ErrInvalidIdeaNumber = errors.New("invalid idea number (expected a positive number like 42 or #42)")

// ParseIdeaNumber parses an idea reference like "42" or "#42".
func ParseIdeaNumber(ref string) (int, error) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	n, err := strconv.Atoi(ref)
	if err != nil || n <= 0 {
		return 0, ErrInvalidIdeaNumber
	}
	return n, nil
}
