package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/modelprov/lineage/pkg/graph"
	"github.com/modelprov/lineage/pkg/sys/intern"
)

// WriteEdgesTSV writes the edge list as tab-separated rows with a
// src/dst/label header, one edge per record.
func WriteEdgesTSV(w io.Writer, edges []Edge) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("src\tdst\tlabel\n"); err != nil {
		return err
	}
	for _, e := range edges {
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\n", e.Src, e.Dst, intern.GetStr(e.Label)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadEdgesTSV reads an edges.tsv back into the graph build input. The header
// row is skipped; rows with fewer than two columns are malformed and fatal.
func ReadEdgesTSV(r io.Reader) ([]graph.NamedEdge, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var edges []graph.NamedEdge
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo == 1 {
			continue // header
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			return nil, fmt.Errorf("edges.tsv line %d: expected at least 2 columns, got %d", lineNo, len(parts))
		}
		label := DefaultLabel
		if len(parts) > 2 {
			label = parts[2]
		}
		// Intern the label so repeated relation kinds share one string.
		edges = append(edges, graph.NamedEdge{Src: parts[0], Dst: parts[1], Label: intern.GetStr(intern.Get(label))})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan edges.tsv: %w", err)
	}
	return edges, nil
}

// LoadGraph reads an edges.tsv file and builds the in-memory graph.
func LoadGraph(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open edge list: %w", err)
	}
	defer f.Close()

	began := time.Now()
	edges, err := ReadEdgesTSV(f)
	if err != nil {
		return nil, err
	}
	g, err := graph.Build(edges)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph from %s: %w", path, err)
	}
	slog.Info("graph loaded",
		"path", path,
		"nodes", g.NumNodes(),
		"edges", g.NumEdges(),
		"self_loops", g.SelfLoops(),
		"elapsed", time.Since(began).Round(time.Millisecond))
	return g, nil
}

// SaveMapping persists the id mapping: node2id as JSON, id2node as one name
// per line in id order. Both are reproducible given identical input because
// ids are assigned in first-seen order.
func SaveMapping(g *graph.Graph, node2idPath, id2nodePath string) error {
	ids := g.IDs()

	node2id := make(map[string]graph.NodeID, ids.Len())
	for id := 0; id < ids.Len(); id++ {
		name, err := ids.NameOf(graph.NodeID(id))
		if err != nil {
			return err
		}
		node2id[name] = graph.NodeID(id)
	}
	data, err := json.MarshalIndent(node2id, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(node2idPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write node2id: %w", err)
	}

	f, err := os.Create(id2nodePath)
	if err != nil {
		return fmt.Errorf("failed to write id2node: %w", err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	for id := 0; id < ids.Len(); id++ {
		name, _ := ids.NameOf(graph.NodeID(id))
		if _, err := bw.WriteString(name + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
