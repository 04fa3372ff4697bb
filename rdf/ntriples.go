package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

const nquadsFormat = "nquads"

// FormatTerm renders n in N-Triples term syntax. The absent node renders as
// the empty string.
func FormatTerm(n Node) string {
	var b strings.Builder
	writeTerm(&b, n)
	return b.String()
}

func writeTerm(b *strings.Builder, n Node) {
	switch n.kind {
	case TermResource:
		writeIRI(b, n.value)
	case TermBlank:
		b.WriteString("_:")
		b.WriteString(n.value)
	case TermLiteral:
		b.WriteByte('"')
		writeEscaped(b, n.value)
		b.WriteByte('"')
		if n.lang != "" {
			b.WriteByte('@')
			b.WriteString(n.lang)
		}
		if n.datatype != "" {
			b.WriteString("^^")
			writeIRI(b, n.datatype)
		}
	}
}

func writeIRI(b *strings.Builder, iri string) {
	b.WriteByte('<')
	for _, r := range iri {
		switch {
		case r <= 0x20, strings.ContainsRune("<>\"{}|^`\\", r):
			fmt.Fprintf(b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('>')
}

func writeEscaped(b *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\f':
			b.WriteString(`\f`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			if r < 0x20 || r == 0x7F {
				fmt.Fprintf(b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
}

// ParseTerm parses a single N-Triples term: an IRI, a blank node or a
// literal. Surrounding whitespace is ignored.
func ParseTerm(s string) (Node, error) {
	c := &ntCursor{input: s}
	n, err := c.parseTerm(true)
	if err != nil {
		return Node{}, err
	}
	c.skipWS()
	if c.pos != len(c.input) {
		return Node{}, c.errorf("trailing input after term")
	}
	return n, nil
}

// parseNQuadsLine parses one statement line. The context term is optional.
func parseNQuadsLine(line string) (Quad, error) {
	c := &ntCursor{input: line}
	subject, err := c.parseTerm(false)
	if err != nil {
		return Quad{}, err
	}
	if subject.IsLiteral() {
		return Quad{}, c.errorf("literal subject")
	}
	predicate, err := c.parseTerm(false)
	if err != nil {
		return Quad{}, err
	}
	if !predicate.IsResource() {
		return Quad{}, c.errorf("predicate must be an IRI")
	}
	object, err := c.parseTerm(true)
	if err != nil {
		return Quad{}, err
	}
	var graph Node
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] != '.' {
		if graph, err = c.parseTerm(false); err != nil {
			return Quad{}, err
		}
	}
	if !c.consume('.') {
		return Quad{}, c.errorf("expected '.' at end of statement")
	}
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] != '#' {
		return Quad{}, c.errorf("trailing input after '.'")
	}
	return Quad{Statement: Statement{S: subject, P: predicate, O: object}, G: graph}, nil
}

type ntCursor struct {
	input string
	pos   int
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Node, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return Node{}, c.errorf("unexpected end of line")
	}
	switch {
	case c.input[c.pos] == '<':
		iri, err := c.parseIRI()
		if err != nil {
			return Node{}, err
		}
		return NewResource(iri)
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return Node{}, c.errorf("literal not allowed here")
		}
		return c.parseLiteral()
	default:
		return Node{}, c.errorf("unexpected token %q", c.input[c.pos])
	}
}

func (c *ntCursor) parseIRI() (URI, error) {
	if !c.consume('<') {
		return URI{}, c.errorf("expected IRI")
	}
	var b strings.Builder
	for {
		if c.pos >= len(c.input) {
			return URI{}, c.errorf("unterminated IRI")
		}
		ch := c.input[c.pos]
		switch {
		case ch == '>':
			c.pos++
			return NewURI(b.String())
		case ch == '\\':
			r, err := c.parseUnicodeEscape()
			if err != nil {
				return URI{}, err
			}
			b.WriteRune(r)
		case ch <= 0x20:
			return URI{}, c.errorf("invalid character in IRI")
		default:
			b.WriteByte(ch)
			c.pos++
		}
	}
}

func (c *ntCursor) parseBlankNode() (Node, error) {
	c.pos += len("_:")
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	// A trailing '.' terminates the statement rather than belonging to the id.
	for c.pos > start && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if start == c.pos {
		return Node{}, c.errorf("blank node id missing")
	}
	return NewBlankNode(c.input[start:c.pos])
}

func (c *ntCursor) parseLiteral() (Node, error) {
	c.pos++ // opening quote
	var b strings.Builder
	for {
		if c.pos >= len(c.input) {
			return Node{}, c.errorf("unterminated literal")
		}
		ch := c.input[c.pos]
		if ch == '"' {
			c.pos++
			break
		}
		if ch != '\\' {
			b.WriteByte(ch)
			c.pos++
			continue
		}
		if c.pos+1 >= len(c.input) {
			return Node{}, c.errorf("unterminated escape")
		}
		switch c.input[c.pos+1] {
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case '\\':
			b.WriteByte('\\')
		case 'u', 'U':
			r, err := c.parseUnicodeEscape()
			if err != nil {
				return Node{}, err
			}
			b.WriteRune(r)
			continue
		default:
			return Node{}, c.errorf("invalid escape \\%c", c.input[c.pos+1])
		}
		c.pos += 2
	}

	var lang string
	if c.pos < len(c.input) && c.input[c.pos] == '@' {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && isLangChar(c.input[c.pos]) {
			c.pos++
		}
		lang = c.input[start:c.pos]
		if lang == "" {
			return Node{}, c.errorf("empty language tag")
		}
	}
	var datatype URI
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Node{}, err
		}
		datatype = dt
	}
	return NewLiteral(b.String(), lang, datatype)
}

// parseUnicodeEscape reads \uXXXX or \UXXXXXXXX at the cursor.
func (c *ntCursor) parseUnicodeEscape() (rune, error) {
	if c.pos+1 >= len(c.input) {
		return 0, c.errorf("unterminated escape")
	}
	width := 0
	switch c.input[c.pos+1] {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, c.errorf("invalid escape \\%c", c.input[c.pos+1])
	}
	start := c.pos + 2
	if start+width > len(c.input) {
		return 0, c.errorf("truncated unicode escape")
	}
	v, err := strconv.ParseUint(c.input[start:start+width], 16, 32)
	if err != nil {
		return 0, c.errorf("invalid unicode escape %q", c.input[c.pos:start+width])
	}
	r := rune(v)
	if !utf8.ValidRune(r) {
		return 0, c.errorf("invalid code point U+%X", v)
	}
	c.pos = start + width
	return r, nil
}

func (c *ntCursor) errorf(format string, args ...any) error {
	return fmt.Errorf("column %d: "+format, append([]any{c.pos + 1}, args...)...)
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '<', '"', '#':
		return true
	default:
		return false
	}
}

func isLangChar(ch byte) bool {
	return ch == '-' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'
}

// NewNQuadsStream returns a stream that decodes N-Quads (and therefore
// N-Triples) from r. Lines are read lazily as the stream advances. Closing
// the stream releases r, closing it when it implements io.Closer.
func NewNQuadsStream(r io.Reader, opts ...DecodeOptions) *Stream {
	options := DefaultDecodeOptions()
	if len(opts) > 0 {
		options = normalizeDecodeOptions(opts[0])
	}
	return newStream(&nquadsSource{
		src:    r,
		reader: bufio.NewReader(r),
		opts:   options,
	}, nil)
}

type nquadsSource struct {
	src    io.Reader
	reader *bufio.Reader
	opts   DecodeOptions
	line   int
	count  int
}

func (d *nquadsSource) next() (Quad, error) {
	if d.reader == nil {
		return Quad{}, io.EOF
	}
	for {
		if d.opts.Context != nil {
			if err := d.opts.Context.Err(); err != nil {
				return Quad{}, err
			}
		}
		line, err := d.readLine()
		if err != nil {
			return Quad{}, err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if d.opts.MaxStatements > 0 && d.count >= d.opts.MaxStatements {
			return Quad{}, wrapParseError(nquadsFormat, "", d.line, ErrStatementLimitExceeded)
		}
		q, err := parseNQuadsLine(trimmed)
		if err != nil {
			return Quad{}, wrapParseError(nquadsFormat, trimmed, d.line, err)
		}
		d.count++
		return q, nil
	}
}

// readLine returns the next line without its terminator, enforcing
// MaxLineBytes while reading.
func (d *nquadsSource) readLine() (string, error) {
	var buf []byte
	for {
		frag, isPrefix, err := d.reader.ReadLine()
		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				break
			}
			return "", err
		}
		buf = append(buf, frag...)
		if d.opts.MaxLineBytes > 0 && len(buf) > d.opts.MaxLineBytes {
			return "", wrapParseError(nquadsFormat, "", d.line+1, ErrLineTooLong)
		}
		if !isPrefix {
			break
		}
	}
	d.line++
	return string(buf), nil
}

func (d *nquadsSource) close() error {
	d.reader = nil
	src := d.src
	d.src = nil
	if closer, ok := src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// NQuadsWriter writes quads as N-Quads lines.
type NQuadsWriter struct {
	writer *bufio.Writer
	err    error
}

// NewNQuadsWriter returns a buffered N-Quads writer over w.
func NewNQuadsWriter(w io.Writer) *NQuadsWriter {
	return &NQuadsWriter{writer: bufio.NewWriter(w)}
}

// Write appends one quad. Quads in the default context are written as
// N-Triples lines.
func (e *NQuadsWriter) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if !q.IsComplete() {
		return fmt.Errorf("%w: %s", ErrIncompleteStatement, q.Statement)
	}
	var b strings.Builder
	writeTerm(&b, q.S)
	b.WriteByte(' ')
	writeTerm(&b, q.P)
	b.WriteByte(' ')
	writeTerm(&b, q.O)
	if !q.G.IsZero() {
		b.WriteByte(' ')
		writeTerm(&b, q.G)
	}
	b.WriteString(" .\n")
	if _, err := e.writer.WriteString(b.String()); err != nil {
		e.err = err
	}
	return e.err
}

// Flush writes buffered output.
func (e *NQuadsWriter) Flush() error {
	if e.err != nil {
		return e.err
	}
	e.err = e.writer.Flush()
	return e.err
}

// Close flushes the writer. It does not close the underlying io.Writer.
func (e *NQuadsWriter) Close() error {
	return e.Flush()
}

// WriteNQuads drains stream into w as N-Quads and closes the stream. It
// returns the number of quads written.
func WriteNQuads(w io.Writer, stream *Stream) (int, error) {
	defer stream.Close()
	enc := NewNQuadsWriter(w)
	n := 0
	for q := range stream.Quads() {
		if err := enc.Write(q); err != nil {
			return n, err
		}
		n++
	}
	if err := stream.Err(); err != nil {
		return n, err
	}
	return n, enc.Flush()
}
