package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load FILE...",
		Short: "Add the statements of data files to the store",
		Long: `Add the statements of N-Quads, N-Triples or JSON-LD files to the store.

With a persistent backend the statements are kept for later commands.

Example:
  rdfstore --storage sqlite --identifier people.db load people.nq
  rdfstore --storage sqlite --identifier people.db load --context http://example.org/g1 extra.nt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			into, err := nodeFlag(cmd, "context")
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			type fileResult struct {
				Path       string `json:"path"`
				Statements int    `json:"statements"`
			}
			var results []fileResult
			for _, path := range args {
				n, err := s.loadFile(cmd.Context(), path, into)
				if err != nil {
					s.close()
					return err
				}
				results = append(results, fileResult{Path: path, Statements: n})
			}
			size := s.store.Size()
			if err := s.close(); err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"files": results,
					"size":  size,
				})
			}
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d statements from %s\n", r.Statements, r.Path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Store now holds %d statements\n", size)
			return nil
		},
	}

	cmd.Flags().String("context", "", "Load into this context instead of the file's own")
	return cmd
}
