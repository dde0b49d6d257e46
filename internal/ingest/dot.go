// Package ingest turns the raw provenance dump into the finalized edge list
// the graph core consumes, and persists the surrounding artifacts (TSV edge
// list, id mappings, stats report). The core treats these files as opaque
// line-delimited inputs.
package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/modelprov/lineage/pkg/graph"
	"github.com/modelprov/lineage/pkg/sys/intern"
)

// edgePattern matches one DOT edge: "src" -> "dst" [label="x"];
var edgePattern = regexp.MustCompile(`"([^"]+)"\s*->\s*"([^"]+)"\s*(?:\[label="([^"]+)"\])?`)

// DefaultLabel is assumed for edges without an explicit label attribute.
const DefaultLabel = "trained_on"

// Edge is one deduplicated edge with an interned label handle.
type Edge struct {
	Src   string
	Dst   string
	Label uint32
}

// ParseStats mirrors the stats.json artifact shape.
type ParseStats struct {
	EdgeCountRaw      int            `json:"edge_count_raw"`
	EdgeCountDedup    int            `json:"edge_count_dedup"`
	SelfLoopCount     int            `json:"self_loop_count"`
	NodeCount         int            `json:"node_count"`
	DirtyNodes        []string       `json:"dirty_nodes"`
	DirtyNodeCount    int            `json:"dirty_node_count"`
	LabelDistribution map[string]int `json:"label_distribution"`
	ParseTimeSeconds  float64        `json:"parse_time_seconds"`
}

// JSON renders the stats artifact.
func (s *ParseStats) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// DOTParser extracts the edge list from a Graphviz DOT dump. It handles the
// quoted-edge subset the provenance export uses, not the full DOT grammar.
type DOTParser struct {
	// FilterSelfLoops drops src == dst edges from the output (they are still
	// counted in the stats).
	FilterSelfLoops bool
}

// Parse scans r line by line and returns the deduplicated edge list plus
// stats. Dedup is on the (src, dst, label) triple, matching the raw dump
// semantics; the graph build later collapses (src, dst) again.
func (p *DOTParser) Parse(r io.Reader) ([]Edge, *ParseStats, error) {
	began := time.Now()

	stats := &ParseStats{
		LabelDistribution: make(map[string]int),
		DirtyNodes:        []string{},
	}

	type edgeKey struct {
		src, dst string
		label    uint32
	}
	seen := make(map[edgeKey]struct{}, 1024)
	nodes := make(map[string]struct{}, 1024)
	dirty := make(map[string]struct{})

	var edges []Edge

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		src, dst, label, ok := parseEdgeLine(sc.Text())
		if !ok {
			continue
		}
		stats.EdgeCountRaw++

		if src == dst {
			stats.SelfLoopCount++
			if p.FilterSelfLoops {
				continue
			}
		}

		if isDirtyNode(src) {
			dirty[src] = struct{}{}
		}
		if isDirtyNode(dst) {
			dirty[dst] = struct{}{}
		}

		lbl := intern.Get(label)
		key := edgeKey{src: src, dst: dst, label: lbl}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		edges = append(edges, Edge{Src: src, Dst: dst, Label: lbl})
		stats.EdgeCountDedup++
		stats.LabelDistribution[label]++
		nodes[src] = struct{}{}
		nodes[dst] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to scan dot input: %w", err)
	}

	stats.NodeCount = len(nodes)
	for n := range dirty {
		stats.DirtyNodes = append(stats.DirtyNodes, n)
	}
	stats.DirtyNodeCount = len(stats.DirtyNodes)
	stats.ParseTimeSeconds = time.Since(began).Seconds()

	return edges, stats, nil
}

// parseEdgeLine extracts (src, dst, label) from one DOT line, skipping
// comments, the digraph declaration, and closing braces.
func parseEdgeLine(line string) (src, dst, label string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
		return "", "", "", false
	}
	if strings.HasPrefix(line, "digraph") || line == "}" {
		return "", "", "", false
	}
	line = strings.TrimSuffix(line, ";")

	m := edgePattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", "", false
	}
	label = m[3]
	if label == "" {
		label = DefaultLabel
	}
	return m[1], m[2], label, true
}

// isDirtyNode flags names the upstream export is known to truncate.
func isDirtyNode(name string) bool {
	return strings.HasSuffix(name, ".")
}

// ToNamed converts ingest edges into the graph build input.
func ToNamed(edges []Edge) []graph.NamedEdge {
	out := make([]graph.NamedEdge, len(edges))
	for i, e := range edges {
		out[i] = graph.NamedEdge{Src: e.Src, Dst: e.Dst, Label: intern.GetStr(e.Label)}
	}
	return out
}
