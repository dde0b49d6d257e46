package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modelprov/lineage/internal/ingest"
	"github.com/modelprov/lineage/internal/workload"
)

var (
	workloadType   string
	workloadNum    int
	workloadKs     []int
	workloadSeed   int64
	workloadOut    string
	workloadRandom float64
)

var workloadCmd = &cobra.Command{
	Use:   "workload",
	Short: "Generate a query workload file",
	Long: `Generate a JSONL workload of descendants/ancestors/k-hop queries.
Types: random (uniform nodes), hot (top 1% out-degree), mixed (both).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := ingest.LoadGraph(edgesPath)
		if err != nil {
			return err
		}
		gen := workload.NewGenerator(g, workloadSeed)

		var qs []workload.Query
		switch workloadType {
		case "random":
			qs = gen.Random(workloadNum, workloadKs)
		case "hot":
			qs = gen.Hot(workloadNum, workloadKs)
		case "mixed":
			qs = gen.Mixed(workloadNum, workloadKs, workloadRandom)
		default:
			return fmt.Errorf("unknown workload type %q (want random, hot or mixed)", workloadType)
		}

		if err := os.MkdirAll(filepath.Dir(workloadOut), 0755); err != nil {
			return err
		}
		f, err := os.Create(workloadOut)
		if err != nil {
			return fmt.Errorf("failed to create workload file: %w", err)
		}
		defer f.Close()
		if err := workload.Write(f, qs); err != nil {
			return err
		}

		slog.Info("workload generated", "type", workloadType, "queries", len(qs), "out", workloadOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workloadCmd)
	workloadCmd.Flags().StringVar(&workloadType, "type", "mixed", "Workload type: random, hot or mixed")
	workloadCmd.Flags().IntVar(&workloadNum, "num", 1000, "Number of queries")
	workloadCmd.Flags().IntSliceVar(&workloadKs, "k", []int{2, 3, 5, 10}, "Candidate k values")
	workloadCmd.Flags().Int64Var(&workloadSeed, "seed", 42, "RNG seed (reproducible workloads)")
	workloadCmd.Flags().Float64Var(&workloadRandom, "random-ratio", 0.8, "Random share for mixed workloads")
	workloadCmd.Flags().StringVar(&workloadOut, "output", "workloads/workload.jsonl", "Output path")
}
