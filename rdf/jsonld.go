package rdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

const jsonldFormat = "jsonld"

// JSONLDOptions configures the JSON-LD bridge.
type JSONLDOptions struct {
	// BaseIRI resolves relative IRIs.
	BaseIRI string
	// CompactContext, when set, compacts WriteJSONLD output against this
	// context (a map, a slice or an IRI string).
	CompactContext any
	// UseNativeTypes converts xsd numbers and booleans to JSON values.
	UseNativeTypes bool
	// UseRdfType keeps rdf:type as a property instead of @type.
	UseRdfType bool
	// Indent is the indentation used by WriteJSONLD. Empty writes compact JSON.
	Indent string
	// DocumentLoader resolves remote contexts. Nil refuses remote loading.
	DocumentLoader ld.DocumentLoader
}

// offlineLoader refuses to dereference remote documents.
type offlineLoader struct{}

func (offlineLoader) LoadDocument(iri string) (*ld.RemoteDocument, error) {
	return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, "remote document loading disabled: "+iri)
}

func newJSONGoldOptions(opts JSONLDOptions) *ld.JsonLdOptions {
	goldOpts := ld.NewJsonLdOptions(opts.BaseIRI)
	goldOpts.UseNativeTypes = opts.UseNativeTypes
	goldOpts.UseRdfType = opts.UseRdfType
	if opts.DocumentLoader != nil {
		goldOpts.DocumentLoader = opts.DocumentLoader
	} else {
		goldOpts.DocumentLoader = offlineLoader{}
	}
	return goldOpts
}

// WriteJSONLD drains stream into w as a JSON-LD document and closes the
// stream. Named contexts become named graphs.
func WriteJSONLD(ctx context.Context, w io.Writer, stream *Stream, opts JSONLDOptions) error {
	defer stream.Close()
	var buf bytes.Buffer
	enc := NewNQuadsWriter(&buf)
	for q := range stream.Quads() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if q.O.IsLiteral() && q.O.lang != "" && q.O.datatype != "" {
			return fmt.Errorf("%w: jsonld cannot carry a literal with both language and datatype: %s",
				ErrUnsupportedFormat, FormatTerm(q.O))
		}
		if err := enc.Write(q); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}

	proc := ld.NewJsonLdProcessor()
	goldOpts := newJSONGoldOptions(opts)
	goldOpts.Format = "application/n-quads"
	doc, err := proc.FromRDF(buf.String(), goldOpts)
	if err != nil {
		return fmt.Errorf("jsonld: from rdf: %w", err)
	}
	if opts.CompactContext != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		compacted, err := proc.Compact(doc, opts.CompactContext, newJSONGoldOptions(opts))
		if err != nil {
			return fmt.Errorf("jsonld: compact: %w", err)
		}
		doc = compacted
	}

	out := json.NewEncoder(w)
	out.SetEscapeHTML(false)
	if opts.Indent != "" {
		out.SetIndent("", opts.Indent)
	}
	return out.Encode(doc)
}

// NewJSONLDStream reads a JSON-LD document from r and returns a stream over
// the quads it denotes. The whole document is converted before the stream
// is returned; failures are reported as *ParseError.
func NewJSONLDStream(ctx context.Context, r io.Reader, opts JSONLDOptions) (*Stream, error) {
	doc, err := ld.DocumentFromReader(r)
	if err != nil {
		return nil, wrapParseError(jsonldFormat, "", 0, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proc := ld.NewJsonLdProcessor()
	result, err := proc.ToRDF(doc, newJSONGoldOptions(opts))
	if err != nil {
		return nil, wrapParseError(jsonldFormat, "", 0, err)
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected ToRDF result %T", result)
	}
	serializer := &ld.NQuadRDFSerializer{}
	serialized, err := serializer.Serialize(dataset)
	if err != nil {
		return nil, fmt.Errorf("jsonld: serialize dataset: %w", err)
	}
	nquads, ok := serialized.(string)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected N-Quads result %T", serialized)
	}
	decodeOpts := DefaultDecodeOptions()
	decodeOpts.Context = ctx
	decodeOpts.MaxLineBytes = -1
	return NewNQuadsStream(strings.NewReader(nquads), decodeOpts), nil
}
