package rdf

import "testing"

func TestWellKnownNamespaces(t *testing.T) {
	for _, name := range []string{"rdf", "rdfs", "xsd", "dc", "owl"} {
		ns, ok := LookupNamespace(name)
		if !ok || ns.ShortName() != name {
			t.Fatalf("expected namespace %q", name)
		}
	}
	if _, ok := LookupNamespace("foaf"); ok {
		t.Fatal("unexpected namespace foaf")
	}
	if RDFType().String() != "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>" {
		t.Fatalf("unexpected rdf:type: %s", RDFType())
	}
}

func TestNamespaceMembership(t *testing.T) {
	label := RDFSchema.Node("label")
	if !RDFSchema.ContainsNode(label) || RDFSyntax.ContainsNode(label) {
		t.Fatal("unexpected namespace membership")
	}
	if !XMLSchema.ContainsURI(XMLSchema.URI("int")) {
		t.Fatal("expected xsd:int in xsd")
	}
	if RDFSchema.ContainsNode(mustLiteral(t, RDFSchemaURI+"label", "", "")) {
		t.Fatal("literals are never namespace members")
	}

	local, ok := RDFSchema.LocalNameOfNode(label)
	if !ok || local != "label" {
		t.Fatalf("unexpected local name: %q %v", local, ok)
	}
	qname, ok := DublinCore.QName(DublinCoreURI + "title")
	if !ok || qname != "dc:title" {
		t.Fatalf("unexpected qname: %q", qname)
	}
	if _, ok := RDFSchema.LocalName(RDFSchemaURI + "not/a/name"); ok {
		t.Fatal("expected invalid local name")
	}
}

func TestQNameLocalNames(t *testing.T) {
	tests := []struct {
		name  string
		uri   string
		qname string
		ok    bool
	}{
		{"word", RDFSyntaxURI + "type", "rdf:type", true},
		{"container member", RDFSyntaxURI + "_3", "rdf:_3", true},
		{"dotted", RDFSyntaxURI + "a.b", "rdf:a.b", true},
		{"trailing dot", RDFSyntaxURI + "a.", "", false},
		{"leading dash", RDFSyntaxURI + "-a", "", false},
		{"empty", RDFSyntaxURI, "", false},
		{"other namespace", RDFSchemaURI + "label", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qname, ok := RDFSyntax.QName(tt.uri)
			if ok != tt.ok || qname != tt.qname {
				t.Errorf("QName(%q) = %q, %v; want %q, %v", tt.uri, qname, ok, tt.qname, tt.ok)
			}
		})
	}
}

func TestNewNamespace(t *testing.T) {
	ns, err := NewNamespace("http://xmlns.com/foaf/0.1/", "foaf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ns.String("name") != "http://xmlns.com/foaf/0.1/name" {
		t.Fatalf("unexpected expansion: %s", ns.String("name"))
	}
	if _, err := NewNamespace("", "empty"); err == nil {
		t.Fatal("expected error for empty prefix")
	}
}
