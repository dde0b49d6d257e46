package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/modelprov/lineage/internal/ingest"
)

var (
	statsJSON bool
	statsTopN int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report graph-level aggregates",
	Long: `Load the graph and report node/edge/self-loop counts plus the
highest out-degree nodes, without running a query.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := ingest.LoadGraph(edgesPath)
		if err != nil {
			return err
		}
		stats := ingest.CollectStats(g, statsTopN)

		if statsJSON {
			data, err := stats.JSON()
			if err != nil {
				return err
			}
			os.Stdout.Write(data)
			fmt.Println()
			return nil
		}

		renderStats(stats)
		return nil
	},
}

func renderStats(stats ingest.GraphStats) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Println(titleStyle.Render("GRAPH"))
	fmt.Printf("  Nodes:      %d\n", stats.Nodes)
	fmt.Printf("  Edges:      %d\n", stats.Edges)
	fmt.Printf("  Self-loops: %d\n", stats.SelfLoops)

	fmt.Println(titleStyle.Render("TOP OUT-DEGREE"))
	for _, e := range stats.TopOutDegree {
		fmt.Printf("  %s\n", dimStyle.Render(fmt.Sprintf("%6d  %s", e.OutDegree, e.Name)))
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Emit JSON instead of the styled report")
	statsCmd.Flags().IntVar(&statsTopN, "top", 10, "How many top out-degree nodes to report")
}
