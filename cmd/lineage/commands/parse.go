package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modelprov/lineage/internal/ingest"
)

var (
	parseOut      string
	parseStatsOut string
	keepSelfLoops bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <dot-file>",
	Short: "Parse a Graphviz DOT dump into the edge-list TSV",
	Long: `Parse the provenance DOT dump into data/edges.tsv plus a stats.json
with raw/dedup edge counts, self-loop and dirty-node anomalies, and the
label distribution.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open dot file: %w", err)
		}
		defer in.Close()

		parser := &ingest.DOTParser{FilterSelfLoops: !keepSelfLoops}
		edges, stats, err := parser.Parse(in)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(parseOut), 0755); err != nil {
			return err
		}
		out, err := os.Create(parseOut)
		if err != nil {
			return fmt.Errorf("failed to create edge list: %w", err)
		}
		defer out.Close()
		if err := ingest.WriteEdgesTSV(out, edges); err != nil {
			return err
		}

		data, err := stats.JSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(parseStatsOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write stats: %w", err)
		}

		slog.Info("parse complete",
			"raw_edges", stats.EdgeCountRaw,
			"dedup_edges", stats.EdgeCountDedup,
			"nodes", stats.NodeCount,
			"self_loops", stats.SelfLoopCount,
			"dirty_nodes", stats.DirtyNodeCount,
			"out", parseOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVar(&parseOut, "out", "data/edges.tsv", "Output edge list path")
	parseCmd.Flags().StringVar(&parseStatsOut, "stats", "data/stats.json", "Output stats path")
	parseCmd.Flags().BoolVar(&keepSelfLoops, "keep-self-loops", false, "Keep self-loop edges in the output")
}
