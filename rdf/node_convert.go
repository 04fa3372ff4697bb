package rdf

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// NodeValuer is implemented by types that convert themselves to a Node.
type NodeValuer interface {
	NodeValue() (Node, error)
}

// ToNode converts a Go value to a Node.
//
// nil yields the absent node. Strings become plain literals, numbers, booleans
// and times become typed literals, and *url.URL becomes a resource. Types
// implementing NodeValuer convert themselves. Anything else fails with
// ErrInvalidArgument.
func ToNode(v any) (Node, error) {
	switch value := v.(type) {
	case nil:
		return Node{}, nil
	case Node:
		return value, nil
	case NodeValuer:
		return value.NodeValue()
	case string:
		return NewPlainLiteral(value)
	case int:
		return NewIntLiteral(int64(value)), nil
	case int8:
		return NewIntLiteral(int64(value)), nil
	case int16:
		return NewIntLiteral(int64(value)), nil
	case int32:
		return NewIntLiteral(int64(value)), nil
	case int64:
		return NewIntLiteral(value), nil
	case uint:
		return newTypedLiteral(strconv.FormatUint(uint64(value), 10), xsdInteger), nil
	case uint8:
		return NewIntLiteral(int64(value)), nil
	case uint16:
		return NewIntLiteral(int64(value)), nil
	case uint32:
		return NewIntLiteral(int64(value)), nil
	case uint64:
		return newTypedLiteral(strconv.FormatUint(value, 10), xsdInteger), nil
	case float32:
		return NewFloatLiteral(value), nil
	case float64:
		return NewDoubleLiteral(value), nil
	case bool:
		return NewBoolLiteral(value), nil
	case time.Time:
		return NewDateTimeLiteral(value), nil
	case *url.URL:
		uri, err := NewURIFromURL(value)
		if err != nil {
			return Node{}, err
		}
		return NewResource(uri)
	default:
		return Node{}, fmt.Errorf("%w: cannot convert %T to a node", ErrInvalidArgument, v)
	}
}

func newTypedLiteral(lexical, datatype string) Node {
	return Node{kind: TermLiteral, value: lexical, datatype: datatype}
}

// NewIntLiteral returns an xsd:integer literal.
func NewIntLiteral(v int64) Node {
	return newTypedLiteral(strconv.FormatInt(v, 10), xsdInteger)
}

// NewFloatLiteral returns an xsd:float literal.
func NewFloatLiteral(v float32) Node {
	return newTypedLiteral(strconv.FormatFloat(float64(v), 'g', -1, 32), xsdFloat)
}

// NewDoubleLiteral returns an xsd:double literal.
func NewDoubleLiteral(v float64) Node {
	return newTypedLiteral(strconv.FormatFloat(v, 'g', -1, 64), xsdDouble)
}

// NewBoolLiteral returns an xsd:boolean literal.
func NewBoolLiteral(v bool) Node {
	return newTypedLiteral(strconv.FormatBool(v), xsdBoolean)
}

// NewDateTimeLiteral returns an xsd:dateTime literal in UTC.
func NewDateTimeLiteral(t time.Time) Node {
	return newTypedLiteral(t.UTC().Format(time.RFC3339Nano), xsdDateTime)
}

// NewLangLiteral returns a language-tagged string literal.
func NewLangLiteral(value, lang string) (Node, error) {
	return NewLiteral(value, lang, URI{})
}

func (n Node) lexical(op string) (string, error) {
	if n.kind != TermLiteral {
		return "", wrongType(op, TermLiteral, n.kind)
	}
	return strings.TrimSpace(n.value), nil
}

// Int returns the integer value of a literal.
func (n Node) Int() (int64, error) {
	lex, err := n.lexical("Int")
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimPrefix(lex, "+"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidArgument, n.value)
	}
	return v, nil
}

// Float64 returns the floating point value of a literal.
// The XML Schema spellings INF, -INF and NaN are accepted.
func (n Node) Float64() (float64, error) {
	lex, err := n.lexical("Float64")
	if err != nil {
		return 0, err
	}
	switch lex {
	case "INF", "+INF":
		lex = "+Inf"
	case "-INF":
		lex = "-Inf"
	}
	v, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidArgument, n.value)
	}
	return v, nil
}

// Bool returns the boolean value of a literal ("true", "false", "1" or "0").
func (n Node) Bool() (bool, error) {
	lex, err := n.lexical("Bool")
	if err != nil {
		return false, err
	}
	switch lex {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidArgument, n.value)
	}
}

// Time returns the xsd:dateTime value of a literal.
func (n Node) Time() (time.Time, error) {
	lex, err := n.lexical("Time")
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.Parse(layout, lex); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a dateTime", ErrInvalidArgument, n.value)
}

// URL returns the URI of a resource as a URL.
func (n Node) URL() (*url.URL, error) {
	uri, err := n.URIValue()
	if err != nil {
		return nil, err
	}
	return uri.URL()
}

// OrdinalValue returns n for the container membership resource rdf:_n.
func (n Node) OrdinalValue() (int, bool) {
	if n.kind != TermResource {
		return 0, false
	}
	local, ok := strings.CutPrefix(n.value, RDFSyntaxURI+"_")
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(local)
	if err != nil || v < 1 || strconv.Itoa(v) != local {
		return 0, false
	}
	return v, true
}

// OrdinalNode returns the container membership resource rdf:_n.
func OrdinalNode(n int) (Node, error) {
	if n < 1 {
		return Node{}, fmt.Errorf("%w: ordinal %d must be positive", ErrInvalidArgument, n)
	}
	return RDFSyntax.Node("_" + strconv.Itoa(n)), nil
}
