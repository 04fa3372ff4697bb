package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfstore-go/rdf"
)

// quadJSON is the JSON form of one query result.
type quadJSON struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
	Context   string `json:"context,omitempty"`
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Find statements matching a pattern",
		Long: `Find statements matching a pattern. Unset slots match anything.

Values are IRIs, or terms in N-Quads syntax (<iri>, _:id, "literal"@en).

Example:
  rdfstore --data people.nq query --p http://xmlns.com/foaf/0.1/knows
  rdfstore --data people.nq query --s http://example.org/a --context http://example.org/g1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var pattern rdf.Statement
			var err error
			if pattern.S, err = nodeFlag(cmd, "s"); err != nil {
				return err
			}
			if pattern.P, err = nodeFlag(cmd, "p"); err != nil {
				return err
			}
			if pattern.O, err = nodeFlag(cmd, "o"); err != nil {
				return err
			}
			ctx, err := nodeFlag(cmd, "context")
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			exists, _ := cmd.Flags().GetBool("exists")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			stream, err := s.store.Find(pattern, ctx)
			if err != nil {
				return err
			}
			quads, err := stream.Collect()
			if err != nil {
				return err
			}
			if limit > 0 && len(quads) > limit {
				quads = quads[:limit]
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if exists {
				if jsonOut {
					json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]bool{"exists": len(quads) > 0})
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), len(quads) > 0)
				}
				if len(quads) == 0 {
					return errNoMatch
				}
				return nil
			}

			if jsonOut {
				results := make([]quadJSON, 0, len(quads))
				for _, q := range quads {
					results = append(results, toQuadJSON(q))
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(results)
			}
			_, err = rdf.WriteNQuads(cmd.OutOrStdout(), rdf.NewStream(quads))
			return err
		},
	}

	cmd.Flags().String("s", "", "Subject")
	cmd.Flags().String("p", "", "Predicate")
	cmd.Flags().String("o", "", "Object")
	cmd.Flags().String("context", "", "Search only this context")
	cmd.Flags().Int("limit", 0, "Maximum number of results (0 = all)")
	cmd.Flags().Bool("exists", false, "Only report whether anything matches")
	return cmd
}

func toQuadJSON(q rdf.Quad) quadJSON {
	out := quadJSON{
		Subject:   rdf.FormatTerm(q.S),
		Predicate: rdf.FormatTerm(q.P),
		Object:    rdf.FormatTerm(q.O),
	}
	if !q.G.IsZero() {
		out.Context = rdf.FormatTerm(q.G)
	}
	return out
}
