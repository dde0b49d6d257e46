// Package workload generates and (de)serializes query workloads for the
// benchmark driver. Workload files are JSONL, one query per line.
package workload

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"

	"github.com/modelprov/lineage/pkg/graph"
)

// Query is one benchmark query in wire form.
type Query struct {
	QType     string `json:"qtype"`
	Node      string `json:"node"`
	K         int    `json:"k,omitempty"`
	Direction string `json:"direction,omitempty"`
}

var qtypes = []string{"descendants", "ancestors", "k_hop"}

// Generator draws queries against a built graph. Hot queries target the top
// 1% of nodes by out-degree, which dominate traversal cost on provenance
// graphs (base models with thousands of fine-tunes).
type Generator struct {
	g   *graph.Graph
	rng *rand.Rand
	hot []string
}

// NewGenerator builds a seeded generator; identical seeds reproduce identical
// workloads for a fixed graph.
func NewGenerator(g *graph.Graph, seed int64) *Generator {
	topN := g.NumNodes() / 100
	if topN < 1 {
		topN = 1
	}
	top := g.TopOutDegree(topN)
	hot := make([]string, len(top))
	for i, e := range top {
		hot[i] = e.Name
	}
	return &Generator{
		g:   g,
		rng: rand.New(rand.NewSource(seed)),
		hot: hot,
	}
}

// Random draws n queries over uniformly random nodes.
func (gen *Generator) Random(n int, ks []int) []Query {
	qs := make([]Query, 0, n)
	for i := 0; i < n; i++ {
		id := graph.NodeID(gen.rng.Intn(gen.g.NumNodes()))
		name, _ := gen.g.IDs().NameOf(id)
		qs = append(qs, gen.draw(name, ks))
	}
	return qs
}

// Hot draws n queries over the high-out-degree node set.
func (gen *Generator) Hot(n int, ks []int) []Query {
	qs := make([]Query, 0, n)
	for i := 0; i < n; i++ {
		name := gen.hot[gen.rng.Intn(len(gen.hot))]
		qs = append(qs, gen.draw(name, ks))
	}
	return qs
}

// Mixed blends random and hot queries; randomRatio is the random share.
func (gen *Generator) Mixed(n int, ks []int, randomRatio float64) []Query {
	numRandom := int(float64(n) * randomRatio)
	qs := gen.Random(numRandom, ks)
	qs = append(qs, gen.Hot(n-numRandom, ks)...)
	gen.rng.Shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
	return qs
}

func (gen *Generator) draw(name string, ks []int) Query {
	k := ks[gen.rng.Intn(len(ks))]
	qtype := qtypes[gen.rng.Intn(len(qtypes))]
	q := Query{QType: qtype, Node: name, K: k}
	if qtype == "k_hop" {
		if gen.rng.Intn(2) == 0 {
			q.Direction = "out"
		} else {
			q.Direction = "in"
		}
	}
	return q
}

// Write encodes queries as JSONL.
func Write(w io.Writer, qs []Query) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, q := range qs {
		if err := enc.Encode(q); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read decodes a JSONL workload.
func Read(r io.Reader) ([]Query, error) {
	var qs []Query
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var q Query
		if err := json.Unmarshal(line, &q); err != nil {
			return nil, fmt.Errorf("workload line %d: %w", lineNo, err)
		}
		qs = append(qs, q)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan workload: %w", err)
	}
	return qs, nil
}
