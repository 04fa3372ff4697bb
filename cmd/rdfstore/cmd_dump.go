package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfstore-go/rdf"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the store as N-Quads or JSON-LD",
		Long: `Write every statement of the store, or of one context, as N-Quads or JSON-LD.

Example:
  rdfstore --data people.nq dump --format jsonld --jsonld-context context.json
  rdfstore --storage sqlite --identifier people.db dump --context http://example.org/g1 -o g1.nq`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			only, err := nodeFlag(cmd, "context")
			if err != nil {
				return err
			}
			opts, err := jsonldFlags(cmd)
			if err != nil {
				return err
			}
			if format != "nquads" && format != "jsonld" {
				return fmt.Errorf("%w: --format %q (want nquads or jsonld)", rdf.ErrUnsupportedFormat, format)
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			var stream *rdf.Stream
			if only.IsZero() {
				stream, err = s.store.Statements()
			} else {
				stream, err = s.store.StatementsInContext(only)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return dump(cmd, w, stream, format, opts)
		},
	}

	cmd.Flags().String("format", "nquads", "Output format: nquads or jsonld")
	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().String("context", "", "Dump only this context")
	cmd.Flags().String("jsonld-context", "", "JSON file holding a context to compact JSON-LD output with")
	cmd.Flags().Bool("native-types", false, "Write xsd numbers and booleans as JSON values")
	cmd.Flags().String("indent", "  ", "JSON-LD indentation")
	return cmd
}

func dump(cmd *cobra.Command, w io.Writer, stream *rdf.Stream, format string, opts rdf.JSONLDOptions) error {
	if format == "jsonld" {
		return rdf.WriteJSONLD(cmd.Context(), w, stream, opts)
	}
	_, err := rdf.WriteNQuads(w, stream)
	return err
}

func jsonldFlags(cmd *cobra.Command) (rdf.JSONLDOptions, error) {
	var opts rdf.JSONLDOptions
	opts.UseNativeTypes, _ = cmd.Flags().GetBool("native-types")
	opts.Indent, _ = cmd.Flags().GetString("indent")

	path, _ := cmd.Flags().GetString("jsonld-context")
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read JSON-LD context: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return opts, fmt.Errorf("%w: JSON-LD context %s: %w", rdf.ErrInvalidArgument, path, err)
	}
	// Accept both a bare context and a document wrapping it in "@context".
	if m, ok := doc.(map[string]any); ok {
		if inner, ok := m["@context"]; ok {
			doc = inner
		}
	}
	opts.CompactContext = doc
	return opts, nil
}
