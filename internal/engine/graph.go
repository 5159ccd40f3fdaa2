// Package engine implements the dataflow graph (C8) and the topological
// scheduler and sample renderer (C9).
package engine

import "fmt"

// SignalRef refers to a previously-created node in a Graph by index.
type SignalRef uint32

// Node is the static, graph-time description of one dataflow node. It
// names its inputs (by reference to earlier nodes) and can instantiate
// a stateful Function to render samples at a given sample rate.
type Node interface {
	// Inputs returns the node's input references, in slot order.
	Inputs() []SignalRef
	// Instantiate builds the render-time Function for this node.
	Instantiate(params Parameters) (Function, error)
	// String names the node kind, for graph dumps.
	String() string
}

// Graph is an append-only, acyclic list of nodes. Each node
// may only reference nodes created earlier in the same graph.
type Graph struct {
	nodes []Node
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// Add appends a node to the graph and returns its reference. It panics
// if any of the node's inputs refer to a node that has not yet been
// added — an acyclicity violation is a programming error, not a runtime
// one, since the evaluator only ever passes references it has already
// produced.
func (g *Graph) Add(n Node) SignalRef {
	idx := uint32(len(g.nodes))
	for _, in := range n.Inputs() {
		if uint32(in) >= idx {
			panic(fmt.Sprintf("engine: node %s references non-prior node %d", n, in))
		}
	}
	g.nodes = append(g.nodes, n)
	return SignalRef(idx)
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node at the given reference.
func (g *Graph) Node(ref SignalRef) Node { return g.nodes[ref] }

// Dump renders a human-readable listing of the graph, one node per line,
// in creation order.
func (g *Graph) Dump() string {
	s := ""
	for i, n := range g.nodes {
		s += fmt.Sprintf("%4d: %s %v\n", i, n, n.Inputs())
	}
	return s
}
