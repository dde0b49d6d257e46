package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/modelprov/lineage/internal/ingest"
)

var (
	node2idPath string
	id2nodePath string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Build the in-memory graph and persist the id mapping",
	Long: `Load the edge list, assign dense node ids in first-seen order, and
write the node2id.json / id2node.txt mapping files. Ids are reproducible
across runs for identical input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := ingest.LoadGraph(edgesPath)
		if err != nil {
			return err
		}
		if err := ingest.SaveMapping(g, node2idPath, id2nodePath); err != nil {
			return err
		}
		slog.Info("mapping saved", "node2id", node2idPath, "id2node", id2nodePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&node2idPath, "node2id", "data/node2id.json", "node2id JSON output path")
	loadCmd.Flags().StringVar(&id2nodePath, "id2node", "data/id2node.txt", "id2node text output path")
}
