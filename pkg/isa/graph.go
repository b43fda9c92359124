package isa

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Graph is the workflow graph derived from a process sequence. Nodes are
// processes and the materials flowing between them; an edge means "produced
// by / consumed by", falling back to "sequenced before / after" when a
// process records no explicit material flow.
type Graph struct {
	directed *simple.DirectedGraph
	ids      map[ProcessNode]int64
	nodes    map[int64]ProcessNode
}

type workflowNode struct {
	id    int64
	value ProcessNode
}

func (n workflowNode) ID() int64 { return n.id }

// NewWorkflowGraph derives the workflow graph for one process sequence.
// For each process P: edges P→O for every non-data-file output O, else
// P→next(P) when linked; edges I→P for every input I, else prev(P)→P when
// linked. Data files stay graph leaves at this stage. Construction never
// fails; use Acyclic to interrogate chain integrity afterwards.
func NewWorkflowGraph(processes []*Process) *Graph {
	g := &Graph{
		directed: simple.NewDirectedGraph(),
		ids:      make(map[ProcessNode]int64),
		nodes:    make(map[int64]ProcessNode),
	}
	for _, p := range processes {
		if len(p.Outputs) > 0 {
			for _, out := range p.Outputs {
				if _, isData := out.(*DataFile); isData {
					continue
				}
				g.addEdge(p, out)
			}
		} else if p.Next != nil {
			g.addEdge(p, p.Next)
		}
		if len(p.Inputs) > 0 {
			for _, in := range p.Inputs {
				g.addEdge(in, p)
			}
		} else if p.Previous != nil {
			g.addEdge(p.Previous, p)
		}
	}
	return g
}

func (g *Graph) node(v ProcessNode) workflowNode {
	if id, ok := g.ids[v]; ok {
		return workflowNode{id: id, value: v}
	}
	n := g.directed.NewNode()
	wn := workflowNode{id: n.ID(), value: v}
	g.directed.AddNode(wn)
	g.ids[v] = wn.id
	g.nodes[wn.id] = v
	return wn
}

func (g *Graph) addEdge(from, to ProcessNode) {
	if from == nil || to == nil || from == to {
		return
	}
	u := g.node(from)
	v := g.node(to)
	g.directed.SetEdge(simple.Edge{F: u, T: v})
}

// NodeCount reports the number of distinct nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount reports the number of directed edges.
func (g *Graph) EdgeCount() int {
	count := 0
	edges := g.directed.Edges()
	for edges.Next() {
		count++
	}
	return count
}

// HasEdge reports whether a directed edge from→to exists.
func (g *Graph) HasEdge(from, to ProcessNode) bool {
	fid, ok := g.ids[from]
	if !ok {
		return false
	}
	tid, ok := g.ids[to]
	if !ok {
		return false
	}
	return g.directed.HasEdgeFromTo(fid, tid)
}

// Nodes returns the graph's nodes in unspecified order.
func (g *Graph) Nodes() []ProcessNode {
	out := make([]ProcessNode, 0, len(g.nodes))
	for _, v := range g.nodes {
		out = append(out, v)
	}
	return out
}

// Successors returns the direct successors of v in unspecified order.
func (g *Graph) Successors(v ProcessNode) []ProcessNode {
	id, ok := g.ids[v]
	if !ok {
		return nil
	}
	var out []ProcessNode
	it := g.directed.From(id)
	for it.Next() {
		out = append(out, g.nodes[it.Node().ID()])
	}
	return out
}

// Acyclic reports whether the graph contains no directed cycle. Documents
// are assumed acyclic by convention; load never fails on a cycle, the
// validator reports it instead.
func (g *Graph) Acyclic() bool {
	_, err := topo.Sort(g.directed)
	return err == nil
}

// Directed exposes the underlying gonum graph for algorithmic consumers.
func (g *Graph) Directed() graph.Directed { return g.directed }
