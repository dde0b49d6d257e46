package graph

import (
	"errors"
	"testing"
)

func TestIDMapRoundTrip(t *testing.T) {
	g := buildDiamond(t)
	ids := g.IDs()

	if ids.Len() != 4 {
		t.Fatalf("Expected 4 mapped nodes, got %d", ids.Len())
	}

	for id := 0; id < ids.Len(); id++ {
		name, err := ids.NameOf(NodeID(id))
		if err != nil {
			t.Fatalf("NameOf(%d): %v", id, err)
		}
		back, err := ids.IDOf(name)
		if err != nil {
			t.Fatalf("IDOf(%s): %v", name, err)
		}
		if back != NodeID(id) {
			t.Errorf("Round trip %d -> %s -> %d", id, name, back)
		}
	}
}

func TestIDMapUnknownNode(t *testing.T) {
	g := buildDiamond(t)

	_, err := g.IDs().IDOf("does-not-exist")
	if !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Expected ErrUnknownNode, got %v", err)
	}
}

func TestIDMapInvalidID(t *testing.T) {
	g := buildDiamond(t)

	_, err := g.IDs().NameOf(1000)
	if !errors.Is(err, ErrInvalidID) {
		t.Errorf("Expected ErrInvalidID, got %v", err)
	}
}

func TestIDAssignmentDeterministic(t *testing.T) {
	edges := []NamedEdge{
		{Src: "m/base", Dst: "m/ft-1"},
		{Src: "m/base", Dst: "m/ft-2"},
		{Src: "d/corpus", Dst: "m/base"},
	}
	g1, err := Build(edges)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	g2, err := Build(edges)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for id := 0; id < g1.IDs().Len(); id++ {
		n1, _ := g1.IDs().NameOf(NodeID(id))
		n2, _ := g2.IDs().NameOf(NodeID(id))
		if n1 != n2 {
			t.Errorf("Id %d maps to %s and %s across identical builds", id, n1, n2)
		}
	}
}
