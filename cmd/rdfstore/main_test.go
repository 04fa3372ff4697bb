package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/geoknoesis/rdfstore-go/rdf"
)

const testData = `<http://example.org/a> <http://example.org/knows> <http://example.org/b> <http://example.org/g1> .
<http://example.org/a> <http://example.org/knows> <http://example.org/c> .
<http://example.org/b> <http://example.org/name> "Bob"@en .
`

// isolate keeps user and project config files out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	return dir
}

func writeData(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	root := newRootCmd()
	want := []string{"version", "load", "query", "dump", "stats"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("missing %s subcommand", name)
		}
	}
	for _, flag := range []string{"json", "config", "verbose", "data", "storage", "identifier", "storage-options"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing --%s flag", flag)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	isolate(t)
	out, err := run(t, "version", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if got["version"] != version {
		t.Errorf("version = %q, want %q", got["version"], version)
	}
}

func TestParseNodeFlag(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  rdf.TermKind
		err   bool
	}{
		{"empty is wildcard", "", rdf.TermNone, false},
		{"bare IRI", "http://example.org/a", rdf.TermResource, false},
		{"bracketed IRI", "<http://example.org/a>", rdf.TermResource, false},
		{"blank node", "_:b1", rdf.TermBlank, false},
		{"literal", `"Bob"@en`, rdf.TermLiteral, false},
		{"unterminated literal", `"Bob`, rdf.TermNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := parseNodeFlag(tt.input)
			if (err != nil) != tt.err {
				t.Fatalf("parseNodeFlag(%q) error = %v, wantErr %v", tt.input, err, tt.err)
			}
			if err == nil && n.Kind() != tt.kind {
				t.Errorf("parseNodeFlag(%q) kind = %v, want %v", tt.input, n.Kind(), tt.kind)
			}
		})
	}
}

func TestQueryCmd(t *testing.T) {
	dir := isolate(t)
	data := writeData(t, dir, "people.nq", testData)

	out, err := run(t, "--data", data, "query", "--p", "http://example.org/knows", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var results []quadJSON
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %v", len(results), results)
	}
	if results[0].Context != "<http://example.org/g1>" || results[1].Context != "" {
		t.Errorf("unexpected contexts: %+v", results)
	}

	out, err = run(t, "--data", data, "query", "--s", "http://example.org/a", "--context", "http://example.org/g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<http://example.org/a> <http://example.org/knows> <http://example.org/b> <http://example.org/g1> .\n"
	if out != want {
		t.Errorf("query output = %q, want %q", out, want)
	}
}

func TestQueryExists(t *testing.T) {
	dir := isolate(t)
	data := writeData(t, dir, "people.nq", testData)

	out, err := run(t, "--data", data, "query", "--o", `"Bob"@en`, "--exists")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "true" {
		t.Errorf("expected true, got %q", out)
	}

	_, err = run(t, "--data", data, "query", "--o", `"Bob"@fr`, "--exists")
	if !errors.Is(err, errNoMatch) {
		t.Fatalf("expected errNoMatch, got %v", err)
	}
	if exitCode(err) != ExitNotFound {
		t.Errorf("exit code = %d, want %d", exitCode(err), ExitNotFound)
	}
}

func TestLoadPersistsWithSQLite(t *testing.T) {
	dir := isolate(t)
	data := writeData(t, dir, "people.nq", testData)
	db := filepath.Join(dir, "people.db")

	out, err := run(t, "--storage", "sqlite", "--identifier", db, "load", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Loaded 3 statements") {
		t.Errorf("unexpected load output: %q", out)
	}

	extra := writeData(t, dir, "extra.nt", "<http://example.org/c> <http://example.org/name> \"Carol\" .\n")
	if _, err := run(t, "--storage", "sqlite", "--identifier", db, "load", "--context", "http://example.org/g2", extra); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err = run(t, "--storage", "sqlite", "--identifier", db, "dump", "--context", "http://example.org/g2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<http://example.org/c> <http://example.org/name> \"Carol\" <http://example.org/g2> .\n"
	if out != want {
		t.Errorf("dump output = %q, want %q", out, want)
	}
}

func TestDumpJSONLD(t *testing.T) {
	dir := isolate(t)
	data := writeData(t, dir, "people.nq", testData)
	ctxFile := writeData(t, dir, "context.json", `{"@context": {"ex": "http://example.org/"}}`)
	output := filepath.Join(dir, "out.jsonld")

	if _, err := run(t, "--data", data, "dump", "--format", "jsonld", "--jsonld-context", ctxFile, "-o", output); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	written, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(written), `"ex:knows"`) {
		t.Errorf("expected compacted output, got %s", written)
	}

	// The JSON-LD output loads back into an equal store.
	out, err := run(t, "--data", output, "stats", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var stats storeStats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if stats.Size != 3 {
		t.Errorf("expected 3 statements after reload, got %d", stats.Size)
	}
}

func TestDumpRejectsUnknownFormat(t *testing.T) {
	isolate(t)
	_, err := run(t, "dump", "--format", "turtle")
	if !errors.Is(err, rdf.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if exitCode(err) != ExitInput {
		t.Errorf("exit code = %d, want %d", exitCode(err), ExitInput)
	}
}

func TestStatsCmd(t *testing.T) {
	dir := isolate(t)
	data := writeData(t, dir, "people.nq", testData)

	out, err := run(t, "--data", data, "stats", "--json", "--metrics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var stats storeStats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if stats.Size != 3 || stats.Default != 2 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if len(stats.Contexts) != 1 || stats.Contexts[0].Statements != 1 {
		t.Errorf("unexpected contexts: %+v", stats.Contexts)
	}
	if stats.Metrics["rdfstore_statements_added_total"] != 3 {
		t.Errorf("expected 3 added statements in metrics, got %v", stats.Metrics)
	}

	original := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = original }()
	out, err = run(t, "--data", data, "stats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<http://example.org/g1>  1") {
		t.Errorf("unexpected stats output: %q", out)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)
	tests := []struct {
		name string
		file string
		body string
		exit int
	}{
		{"unsupported extension", "data.ttl", "", ExitInput},
		{"malformed line", "bad.nq", "<http://example.org/a> <http://example.org/p> .\n", ExitParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeData(t, dir, tt.file, tt.body)
			_, err := run(t, "load", path)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := exitCode(err); got != tt.exit {
				t.Errorf("exit code = %d, want %d (err: %v)", got, tt.exit, err)
			}
		})
	}
}

func TestBadConfig(t *testing.T) {
	dir := isolate(t)
	cfg := writeData(t, dir, "bad.yaml", "storage:\n  name: nowhere\n")
	_, err := run(t, "--config", cfg, "stats")
	if exitCode(err) != ExitConfig {
		t.Errorf("exit code = %d, want %d (err: %v)", exitCode(err), ExitConfig, err)
	}
}

func TestPrintError(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = original }()
	err := fmt.Errorf("load x: %w", &rdf.StoreError{Op: "add", Err: rdf.ErrStoreClosed})

	var buf bytes.Buffer
	printError(&buf, err, false)
	want := "Error: load x: rdf: store add: rdf: store closed [STORE_CLOSED]\n"
	if buf.String() != want {
		t.Errorf("printError = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	printError(&buf, err, true)
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["code"] != "STORE_CLOSED" || got["exit_code"] != float64(ExitStorage) {
		t.Errorf("unexpected JSON error: %v", got)
	}
}
