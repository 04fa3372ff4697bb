// Command rdfstore loads, queries and exports RDF quads.
package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "github.com/geoknoesis/rdfstore-go/rdf/sqlstore"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		jsonOut, _ := rootCmd.PersistentFlags().GetBool("json")
		printError(os.Stderr, err, jsonOut)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rdfstore",
		Short: "RDF quad store",
		Long: `rdfstore holds RDF statements partitioned by context and answers
pattern queries over them.

Data is read from N-Quads, N-Triples or JSON-LD files given with --data.
The store backend comes from the configuration (memory by default); use
--storage sqlite --identifier data.db to keep statements between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: user and project config)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level")
	rootCmd.PersistentFlags().StringSlice("data", nil, "Data files to load before running the command (.nq, .nt, .jsonld)")
	rootCmd.PersistentFlags().String("storage", "", "Storage backend name (overrides config)")
	rootCmd.PersistentFlags().String("identifier", "", "Storage identifier, e.g. a database file")
	rootCmd.PersistentFlags().String("storage-options", "", "Storage options, e.g. \"new='yes'\"")

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoadCmd(),
		newQueryCmd(),
		newDumpCmd(),
		newStatsCmd(),
	)
	return rootCmd
}
