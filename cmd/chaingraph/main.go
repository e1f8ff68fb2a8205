// Command chaingraph analyses blockchain transaction snapshots offline and
// generates synthetic snapshots for testing the server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	jsonFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "chaingraph",
	Short: "Blockchain network analysis toolkit",
	Long: `chaingraph builds a graph from wallet, contract and transaction records
and reports structure, centrality, communities and activity over time.

Snapshots are JSON documents with "nodes" and "links" arrays; files ending
in .sz are snappy compressed.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print machine-readable JSON instead of a report")
	rootCmd.AddCommand(analyzeCmd, generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
