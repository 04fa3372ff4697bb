package rdf

import "strings"

// Well-known namespace URIs.
const (
	RDFSyntaxURI  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSchemaURI  = "http://www.w3.org/2000/01/rdf-schema#"
	XMLSchemaURI  = "http://www.w3.org/2001/XMLSchema#"
	DublinCoreURI = "http://purl.org/dc/elements/1.1/"
	OWLURI        = "http://www.w3.org/2002/07/owl#"

	xmlLiteralURI = RDFSyntaxURI + "XMLLiteral"
	xsdString     = XMLSchemaURI + "string"
	xsdInteger    = XMLSchemaURI + "integer"
	xsdInt        = XMLSchemaURI + "int"
	xsdLong       = XMLSchemaURI + "long"
	xsdFloat      = XMLSchemaURI + "float"
	xsdDouble     = XMLSchemaURI + "double"
	xsdDecimal    = XMLSchemaURI + "decimal"
	xsdBoolean    = XMLSchemaURI + "boolean"
	xsdDateTime   = XMLSchemaURI + "dateTime"
)

// Namespace pairs a URI prefix with a short name such as "rdf".
// Namespaces are immutable values.
type Namespace struct {
	prefix    string
	shortName string
}

// The well-known namespaces.
var (
	RDFSyntax  = Namespace{prefix: RDFSyntaxURI, shortName: "rdf"}
	RDFSchema  = Namespace{prefix: RDFSchemaURI, shortName: "rdfs"}
	XMLSchema  = Namespace{prefix: XMLSchemaURI, shortName: "xsd"}
	DublinCore = Namespace{prefix: DublinCoreURI, shortName: "dc"}
	OWL        = Namespace{prefix: OWLURI, shortName: "owl"}
)

// wellKnownNamespaces is built once and never modified.
var wellKnownNamespaces = map[string]Namespace{
	RDFSyntax.shortName:  RDFSyntax,
	RDFSchema.shortName:  RDFSchema,
	XMLSchema.shortName:  XMLSchema,
	DublinCore.shortName: DublinCore,
	OWL.shortName:        OWL,
}

// NewNamespace returns a namespace for prefix, known as shortName.
func NewNamespace(prefix, shortName string) (Namespace, error) {
	if _, err := NewURI(prefix); err != nil {
		return Namespace{}, err
	}
	return Namespace{prefix: prefix, shortName: shortName}, nil
}

// LookupNamespace returns the well-known namespace with the given short name.
func LookupNamespace(shortName string) (Namespace, bool) {
	ns, ok := wellKnownNamespaces[shortName]
	return ns, ok
}

// Prefix returns the namespace URI prefix.
func (ns Namespace) Prefix() string { return ns.prefix }

// ShortName returns the namespace short name.
func (ns Namespace) ShortName() string { return ns.shortName }

// String returns prefix + suffix.
func (ns Namespace) String(suffix string) string { return ns.prefix + suffix }

// URI returns the URI prefix + suffix.
func (ns Namespace) URI(suffix string) URI { return URI{value: ns.prefix + suffix} }

// Node returns the resource node for prefix + suffix.
func (ns Namespace) Node(suffix string) Node {
	return Node{kind: TermResource, value: ns.prefix + suffix}
}

// ContainsURIString reports whether s starts with the namespace prefix.
func (ns Namespace) ContainsURIString(s string) bool {
	return ns.prefix != "" && strings.HasPrefix(s, ns.prefix)
}

// ContainsURI reports whether uri lies within the namespace.
func (ns Namespace) ContainsURI(uri URI) bool { return ns.ContainsURIString(uri.value) }

// ContainsNode reports whether n is a resource within the namespace.
func (ns Namespace) ContainsNode(n Node) bool {
	return n.kind == TermResource && ns.ContainsURIString(n.value)
}

// LocalName returns the part of s after the namespace prefix.
// It reports false when s is outside the namespace or the remainder is not a
// valid local name.
func (ns Namespace) LocalName(s string) (string, bool) {
	if !ns.ContainsURIString(s) {
		return "", false
	}
	local := s[len(ns.prefix):]
	if !isLocalName(local) {
		return "", false
	}
	return local, true
}

// LocalNameOfNode is LocalName for resource nodes.
func (ns Namespace) LocalNameOfNode(n Node) (string, bool) {
	if n.kind != TermResource {
		return "", false
	}
	return ns.LocalName(n.value)
}

// QName returns shortName:local for s, if s lies within the namespace.
func (ns Namespace) QName(s string) (string, bool) {
	local, ok := ns.LocalName(s)
	if !ok || ns.shortName == "" {
		return "", false
	}
	return ns.shortName + ":" + local, true
}

// isLocalName reports whether s can follow "prefix:" in a prefixed name.
// Container membership names ("_1", "_2", ...) always qualify; other names
// follow the blank node label grammar, which prefixed names share.
func isLocalName(s string) bool {
	if digits, ok := strings.CutPrefix(s, "_"); ok && digits != "" && strings.Trim(digits, "0123456789") == "" {
		return true
	}
	return isBlankNodeLabel(s)
}

// RDFType returns the rdf:type resource.
func RDFType() Node { return RDFSyntax.Node("type") }
