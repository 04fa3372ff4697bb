package rdf

import (
	"fmt"
	"net/url"
)

// URI is an immutable RDF resource identifier.
// The zero URI is the absent URI. No resolution or normalization is applied.
type URI struct {
	value string
}

// NewURI returns the URI for s. It fails with ErrInvalidArgument when s is empty.
func NewURI(s string) (URI, error) {
	if s == "" {
		return URI{}, fmt.Errorf("%w: empty URI", ErrInvalidArgument)
	}
	return URI{value: s}, nil
}

// NewURIFromURL returns the URI for u.
func NewURIFromURL(u *url.URL) (URI, error) {
	if u == nil {
		return URI{}, fmt.Errorf("%w: nil URL", ErrInvalidArgument)
	}
	return NewURI(u.String())
}

// mustURI is used for package constants only.
func mustURI(s string) URI {
	return URI{value: s}
}

// String returns the URI string value.
func (u URI) String() string { return u.value }

// IsZero reports whether u is the absent URI.
func (u URI) IsZero() bool { return u.value == "" }

// Equal reports whether u and other have the same string value.
func (u URI) Equal(other URI) bool { return u.value == other.value }

// URL parses the URI as a URL.
func (u URI) URL() (*url.URL, error) {
	if u.IsZero() {
		return nil, fmt.Errorf("%w: empty URI", ErrInvalidArgument)
	}
	return url.Parse(u.value)
}

// NodeValue returns the resource node for u.
func (u URI) NodeValue() (Node, error) {
	return NewResource(u)
}
