package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfstore-go/rdf"
)

// contextCount is the number of statements in one context.
type contextCount struct {
	Context    string `json:"context"`
	Statements int    `json:"statements"`
}

type storeStats struct {
	Size     int                `json:"size"`
	Default  int                `json:"default_context"`
	Contexts []contextCount     `json:"contexts"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statement counts per context",
		RunE: func(cmd *cobra.Command, args []string) error {
			withMetrics, _ := cmd.Flags().GetBool("metrics")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			stats, err := collectStats(s.store)
			if err != nil {
				return err
			}
			if withMetrics {
				if stats.Metrics, err = gatherMetrics(s.registry); err != nil {
					return err
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(stats)
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().Bool("metrics", false, "Include store metrics")
	return cmd
}

func collectStats(store *rdf.Store) (storeStats, error) {
	stats := storeStats{Size: store.Size(), Contexts: []contextCount{}}

	count := func(ctx rdf.Node) (int, error) {
		stream, err := store.StatementsInContext(ctx)
		if err != nil {
			return 0, err
		}
		quads, err := stream.Collect()
		return len(quads), err
	}

	var err error
	if stats.Default, err = count(rdf.Node{}); err != nil {
		return stats, err
	}
	contexts, err := store.Contexts()
	if err != nil {
		return stats, err
	}
	for _, ctx := range contexts {
		n, err := count(ctx)
		if err != nil {
			return stats, err
		}
		stats.Contexts = append(stats.Contexts, contextCount{Context: rdf.FormatTerm(ctx), Statements: n})
	}
	return stats, nil
}

// gatherMetrics flattens counters and histogram sample counts by name.
func gatherMetrics(reg prometheus.Gatherer) (map[string]float64, error) {
	families, err := reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				out[mf.GetName()+"_count"] += float64(m.GetHistogram().GetSampleCount())
				out[mf.GetName()+"_sum"] += m.GetHistogram().GetSampleSum()
			}
		}
	}
	return out, nil
}

func printStats(w io.Writer, stats storeStats) {
	heading.Fprintln(w, "Statements")
	fmt.Fprintf(w, "  total:           %d\n", stats.Size)
	fmt.Fprintf(w, "  default context: %d\n", stats.Default)
	if len(stats.Contexts) > 0 {
		heading.Fprintln(w, "Contexts")
		for _, c := range stats.Contexts {
			fmt.Fprintf(w, "  %s  %d\n", c.Context, c.Statements)
		}
	}
	if len(stats.Metrics) > 0 {
		heading.Fprintln(w, "Metrics")
		for _, name := range slices.Sorted(maps.Keys(stats.Metrics)) {
			fmt.Fprintf(w, "  %s %g\n", name, stats.Metrics[name])
		}
	}
}
