package isa

import (
	"fmt"
	"testing"
)

func chainedProcesses(n int) []*Process {
	procs := make([]*Process, n)
	for i := range procs {
		procs[i] = &Process{ID: fmt.Sprintf("#process/%d", i)}
	}
	for i := 0; i < n-1; i++ {
		procs[i].Next = procs[i+1]
		procs[i+1].Previous = procs[i]
	}
	return procs
}

func TestLinearChainEdgeCount(t *testing.T) {
	const n = 5
	procs := chainedProcesses(n)
	g := NewWorkflowGraph(procs)
	if got := g.EdgeCount(); got != n-1 {
		t.Fatalf("expected %d edges for a linear chain of %d processes, got %d", n-1, n, got)
	}
	for i := 0; i < n-1; i++ {
		if !g.HasEdge(procs[i], procs[i+1]) {
			t.Fatalf("missing edge %s -> %s", procs[i].ID, procs[i+1].ID)
		}
	}
	if !g.Acyclic() {
		t.Fatalf("linear chain reported as cyclic")
	}
}

func TestMaterialFlowEdges(t *testing.T) {
	src := &Source{ID: "#source/1", Name: "soil"}
	smp := &Sample{ID: "#sample/1", Name: "aliquot"}
	p := &Process{
		ID:      "#process/1",
		Inputs:  []ProcessNode{src},
		Outputs: []ProcessNode{smp},
	}
	g := NewWorkflowGraph([]*Process{p})
	if !g.HasEdge(src, p) {
		t.Fatalf("missing input edge source -> process")
	}
	if !g.HasEdge(p, smp) {
		t.Fatalf("missing output edge process -> sample")
	}
	if got := g.EdgeCount(); got != 2 {
		t.Fatalf("expected 2 edges, got %d", got)
	}
}

func TestExplicitOutputsSuppressSequenceEdge(t *testing.T) {
	// A process with explicit outputs must not fall back to its next link.
	smp := &Sample{ID: "#sample/1", Name: "aliquot"}
	a := &Process{ID: "#process/a", Outputs: []ProcessNode{smp}}
	b := &Process{ID: "#process/b"}
	a.Next = b
	b.Previous = a
	g := NewWorkflowGraph([]*Process{a, b})
	if !g.HasEdge(a, smp) {
		t.Fatalf("missing output edge")
	}
	if g.HasEdge(a, b) {
		t.Fatalf("sequence edge emitted despite explicit outputs")
	}
}

func TestDataFileOutputsStayLeaves(t *testing.T) {
	df := &DataFile{ID: "#data/1", Name: "raw.txt"}
	smp := &Sample{ID: "#sample/1", Name: "aliquot"}
	p := &Process{
		ID:      "#process/1",
		Inputs:  []ProcessNode{smp},
		Outputs: []ProcessNode{df},
	}
	g := NewWorkflowGraph([]*Process{p})
	if g.HasEdge(p, df) {
		t.Fatalf("data file output must not receive an edge")
	}
	if !g.HasEdge(smp, p) {
		t.Fatalf("missing input edge")
	}
	if got := g.EdgeCount(); got != 1 {
		t.Fatalf("expected 1 edge, got %d", got)
	}
}

func TestCycleDetection(t *testing.T) {
	a := &Process{ID: "#process/a"}
	b := &Process{ID: "#process/b"}
	a.Next = b
	b.Next = a
	g := NewWorkflowGraph([]*Process{a, b})
	if g.Acyclic() {
		t.Fatalf("two-process loop reported as acyclic")
	}
}

func TestSuccessors(t *testing.T) {
	procs := chainedProcesses(3)
	g := NewWorkflowGraph(procs)
	succ := g.Successors(procs[0])
	if len(succ) != 1 || succ[0].NodeID() != procs[1].ID {
		t.Fatalf("unexpected successors %v", succ)
	}
	if got := g.Successors(&Process{ID: "#process/unknown"}); got != nil {
		t.Fatalf("expected nil successors for unknown node, got %v", got)
	}
}
