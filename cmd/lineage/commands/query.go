package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelprov/lineage/pkg/engine"
	"github.com/modelprov/lineage/pkg/graph"
)

var (
	queryMaxHops   int
	queryLimit     int
	queryDirection string
	queryK         int
	queryShow      int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a single lineage query",
}

var ancestorsCmd = &cobra.Command{
	Use:   "ancestors <node>",
	Short: "Upstream nodes reachable via incoming edges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildEngine()
		if err != nil {
			return err
		}
		res, err := e.Ancestors(args[0], queryMaxHops, queryLimit)
		if err != nil {
			return err
		}
		printResult(e.Graph(), res)
		return nil
	},
}

var descendantsCmd = &cobra.Command{
	Use:   "descendants <node>",
	Short: "Downstream nodes reachable via outgoing edges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildEngine()
		if err != nil {
			return err
		}
		res, err := e.Descendants(args[0], queryMaxHops, queryLimit)
		if err != nil {
			return err
		}
		printResult(e.Graph(), res)
		return nil
	},
}

var khopCmd = &cobra.Command{
	Use:   "khop <node>",
	Short: "Neighborhood within exactly k hops",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildEngine()
		if err != nil {
			return err
		}
		dir, err := engine.ParseDirection(queryDirection)
		if err != nil {
			return err
		}
		res, err := e.KHop(args[0], queryK, dir)
		if err != nil {
			return err
		}
		printResult(e.Graph(), res)
		return nil
	},
}

var pathCmd = &cobra.Command{
	Use:   "path <src> <dst>",
	Short: "Unweighted shortest path between two nodes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildEngine()
		if err != nil {
			return err
		}
		dir, err := engine.ParseDirection(queryDirection)
		if err != nil {
			return err
		}
		path, err := e.ShortestPath(args[0], args[1], dir)
		if err != nil {
			return err
		}
		if path == nil {
			fmt.Println("no path")
			return nil
		}
		fmt.Printf("path length: %d hops\n", len(path)-1)
		for _, id := range path {
			name, _ := e.Graph().IDs().NameOf(id)
			fmt.Printf("  [%d] %s\n", id, name)
		}
		return nil
	},
}

func printResult(g *graph.Graph, res engine.QueryResult) {
	fmt.Printf("matched:      %d\n", res.VisitedCount)
	fmt.Printf("hops reached: %d\n", res.HopsReached)
	fmt.Printf("elapsed:      %.3f ms\n", res.ElapsedMS)

	show := queryShow
	if show > len(res.Nodes) {
		show = len(res.Nodes)
	}
	for _, id := range res.Nodes[:show] {
		name, _ := g.IDs().NameOf(id)
		fmt.Printf("  [%d] %s\n", id, name)
	}
	if show < len(res.Nodes) {
		fmt.Printf("  ... %d more\n", len(res.Nodes)-show)
	}
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.AddCommand(ancestorsCmd, descendantsCmd, khopCmd, pathCmd)

	for _, c := range []*cobra.Command{ancestorsCmd, descendantsCmd} {
		c.Flags().IntVar(&queryMaxHops, "max-hops", engine.Unbounded, "Hop ceiling (-1 for unbounded)")
		c.Flags().IntVar(&queryLimit, "limit", engine.Unbounded, "Result cap (-1 for unbounded)")
	}
	khopCmd.Flags().IntVar(&queryK, "k", 2, "Hop count")
	khopCmd.Flags().StringVar(&queryDirection, "direction", "out", "Traversal direction: out or in")
	pathCmd.Flags().StringVar(&queryDirection, "direction", "out", "Traversal direction: out or in")

	for _, c := range []*cobra.Command{ancestorsCmd, descendantsCmd, khopCmd} {
		c.Flags().IntVar(&queryShow, "show", 20, "How many matched nodes to print")
	}
}
