package rdf

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TermKind identifies RDF node variants.
type TermKind uint8

const (
	// TermNone is the kind of the zero Node, the absent node.
	TermNone TermKind = iota
	// TermResource represents a URI-identified resource.
	TermResource
	// TermBlank represents a blank node.
	TermBlank
	// TermLiteral represents a literal.
	TermLiteral
)

// String returns the kind name.
func (k TermKind) String() string {
	switch k {
	case TermResource:
		return "resource"
	case TermBlank:
		return "blank"
	case TermLiteral:
		return "literal"
	default:
		return "none"
	}
}

// Node is an immutable RDF graph node: a resource, a blank node or a literal.
//
// The zero Node is the absent node. It is used as the wildcard in statement
// patterns and as the default (unnamed) context.
//
// Node is comparable: == , Equal and map-key identity all implement the same
// structural equality.
type Node struct {
	kind     TermKind
	value    string // URI, blank id or literal lexical form
	lang     string
	datatype string
	xml      bool
}

// NewResource returns a resource node for uri.
func NewResource(uri URI) (Node, error) {
	if uri.IsZero() {
		return Node{}, fmt.Errorf("%w: resource requires a URI", ErrInvalidArgument)
	}
	return Node{kind: TermResource, value: uri.value}, nil
}

// NewResourceFromString returns a resource node for the URI string s.
func NewResourceFromString(s string) (Node, error) {
	uri, err := NewURI(s)
	if err != nil {
		return Node{}, err
	}
	return NewResource(uri)
}

// NewBlankNode returns a blank node with the given identifier.
// An empty id yields a fresh, process-unique identifier. Explicit ids must be
// N-Triples blank node labels: letters, digits, '_', ':', '-', '.' and the
// combining ranges, starting with a letter, digit, '_' or ':' and not ending
// with '.'.
func NewBlankNode(id string) (Node, error) {
	if id == "" {
		return Node{kind: TermBlank, value: defaultBlankNodes.next()}, nil
	}
	if !isBlankNodeLabel(id) {
		return Node{}, fmt.Errorf("%w: invalid blank node id %q", ErrInvalidArgument, id)
	}
	return Node{kind: TermBlank, value: id}, nil
}

func isBlankNodeLabel(id string) bool {
	if !utf8.ValidString(id) || strings.HasSuffix(id, ".") {
		return false
	}
	for i, r := range id {
		if i == 0 {
			if !isLabelStartRune(r) && !(r >= '0' && r <= '9') {
				return false
			}
			continue
		}
		if !isLabelRune(r) && r != '.' {
			return false
		}
	}
	return true
}

func isLabelStartRune(r rune) bool {
	switch {
	case r == '_' || r == ':':
		return true
	case r < 0x80:
		return r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z'
	case r == 0xD7 || r == 0xF7 || r == 0x37E:
		return false
	case r >= 0xC0 && r <= 0x1FFF:
		return r <= 0x2FF || r >= 0x370
	}
	return r >= 0x200C && r <= 0x200D ||
		r >= 0x2070 && r <= 0x218F ||
		r >= 0x2C00 && r <= 0x2FEF ||
		r >= 0x3001 && r <= 0xD7FF ||
		r >= 0xF900 && r <= 0xFDCF ||
		r >= 0xFDF0 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0xEFFFF
}

func isLabelRune(r rune) bool {
	return isLabelStartRune(r) ||
		r == '-' || r >= '0' && r <= '9' || r == 0xB7 ||
		r >= 0x300 && r <= 0x36F ||
		r >= 0x203F && r <= 0x2040
}

// NewPlainLiteral returns a literal without language tag or datatype.
func NewPlainLiteral(value string) (Node, error) {
	return NewLiteral(value, "", URI{})
}

// NewLiteral returns a literal node. lang and datatype are both optional.
// A datatype of rdf:XMLLiteral marks the literal as well-formed XML.
func NewLiteral(value, lang string, datatype URI) (Node, error) {
	if !utf8.ValidString(value) {
		return Node{}, fmt.Errorf("%w: literal value is not valid UTF-8", ErrInvalidArgument)
	}
	if lang != "" && !isLanguageTag(lang) {
		return Node{}, fmt.Errorf("%w: malformed language tag %q", ErrInvalidArgument, lang)
	}
	return Node{
		kind:     TermLiteral,
		value:    value,
		lang:     lang,
		datatype: datatype.value,
		xml:      datatype.value == xmlLiteralURI,
	}, nil
}

// NewXMLLiteral returns a well-formed XML literal. Its datatype is rdf:XMLLiteral.
func NewXMLLiteral(value, lang string) (Node, error) {
	return NewLiteral(value, lang, mustURI(xmlLiteralURI))
}

// Kind returns the node variant.
func (n Node) Kind() TermKind { return n.kind }

// IsZero reports whether n is the absent node.
func (n Node) IsZero() bool { return n.kind == TermNone }

// IsResource reports whether n is a resource.
func (n Node) IsResource() bool { return n.kind == TermResource }

// IsBlank reports whether n is a blank node.
func (n Node) IsBlank() bool { return n.kind == TermBlank }

// IsLiteral reports whether n is a literal.
func (n Node) IsLiteral() bool { return n.kind == TermLiteral }

// IsXML reports whether n is a well-formed XML literal.
func (n Node) IsXML() bool { return n.kind == TermLiteral && n.xml }

// Equal reports whether n and other are structurally equal.
func (n Node) Equal(other Node) bool { return n == other }

// URIValue returns the URI of a resource node.
func (n Node) URIValue() (URI, error) {
	if n.kind != TermResource {
		return URI{}, wrongType("URIValue", TermResource, n.kind)
	}
	return URI{value: n.value}, nil
}

// BlankID returns the identifier of a blank node.
func (n Node) BlankID() (string, error) {
	if n.kind != TermBlank {
		return "", wrongType("BlankID", TermBlank, n.kind)
	}
	return n.value, nil
}

// LiteralValue returns the lexical form of a literal.
func (n Node) LiteralValue() (string, error) {
	if n.kind != TermLiteral {
		return "", wrongType("LiteralValue", TermLiteral, n.kind)
	}
	return n.value, nil
}

// LiteralLanguage returns the language tag of a literal, or "" if it has none.
func (n Node) LiteralLanguage() (string, error) {
	if n.kind != TermLiteral {
		return "", wrongType("LiteralLanguage", TermLiteral, n.kind)
	}
	return n.lang, nil
}

// LiteralDatatype returns the datatype of a literal, or the zero URI if it has none.
func (n Node) LiteralDatatype() (URI, error) {
	if n.kind != TermLiteral {
		return URI{}, wrongType("LiteralDatatype", TermLiteral, n.kind)
	}
	return URI{value: n.datatype}, nil
}

// String returns the N-Triples form of the node, or "" for the absent node.
func (n Node) String() string {
	return FormatTerm(n)
}

// NodeValue returns n itself.
func (n Node) NodeValue() (Node, error) { return n, nil }

func wrongType(op string, want, got TermKind) error {
	return fmt.Errorf("%w: %s on %s node (want %s)", ErrWrongNodeType, op, got, want)
}

// isLanguageTag checks the BCP 47 shape [A-Za-z]+(-[A-Za-z0-9]+)*.
func isLanguageTag(tag string) bool {
	for i, part := range strings.Split(tag, "-") {
		if part == "" {
			return false
		}
		for j := 0; j < len(part); j++ {
			ch := part[j]
			alpha := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
			digit := ch >= '0' && ch <= '9'
			if !alpha && !(digit && i > 0) {
				return false
			}
		}
	}
	return true
}
