package rdf

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURI validates a URI string according to a practical subset of RFC 3987.
// It is only applied when the World is created with OptStrictURIs.
//
// The checks are:
//   - the scheme, when present, starts with a letter
//   - network-path references ("//host") carry a scheme
//   - no control characters and no raw '<' or '>'
func ValidateURI(uri string) error {
	if uri == "" {
		return fmt.Errorf("%w: empty URI", ErrInvalidArgument)
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("%w: invalid URI syntax: %w", ErrInvalidArgument, err)
	}

	if parsed.Scheme == "" {
		if strings.HasPrefix(uri, "//") {
			return fmt.Errorf("%w: relative URI without scheme: %s", ErrInvalidArgument, uri)
		}
		if strings.Contains(uri, ":") && !strings.HasPrefix(uri, "/") && !strings.HasPrefix(uri, "./") && !strings.HasPrefix(uri, "../") {
			scheme, _, _ := strings.Cut(uri, ":")
			if !isScheme(scheme) {
				return fmt.Errorf("%w: URI appears to be missing a scheme: %s", ErrInvalidArgument, uri)
			}
		}
	} else {
		first := parsed.Scheme[0]
		if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
			return fmt.Errorf("%w: scheme must start with a letter: %s", ErrInvalidArgument, uri)
		}
	}

	for i, r := range uri {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return fmt.Errorf("%w: control character at position %d in URI: %q", ErrInvalidArgument, i, uri)
		}
		if r == '<' || r == '>' {
			return fmt.Errorf("%w: character '%c' at position %d in URI must be percent-encoded: %s", ErrInvalidArgument, r, i, uri)
		}
	}

	return nil
}

func isScheme(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}
