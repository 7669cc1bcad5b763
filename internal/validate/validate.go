package validate

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidIdentifier = errors.New("identifier is missing or not numeric")
	ErrEmptyContent      = errors.New("content is missing or empty")
)

// ParseID checks that a submitted value is a well-formed lookup key before it
// reaches storage. Anything not cleanly coercible to an integer is rejected:
// empty strings, non-numeric text, and numeric prefixes with trailing garbage.
func ParseID(raw string) (int, error) {
	if raw == "" {
		return 0, ErrInvalidIdentifier
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidIdentifier
	}
	return id, nil
}

// SanitizeContent neutralizes markup-significant characters in a free-text
// submission before it is persisted. The & replacement must run first so that
// ampersands introduced by the later replacements are not escaped again.
func SanitizeContent(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyContent
	}
	s := strings.ReplaceAll(raw, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s, nil
}
