// Package detgraph implements the packed deterministic graph: a fixed
// |Σ| outgoing slots per node, stored in one dense arena, with absent
// edges costing no extra space beyond the target word itself.
package detgraph

import (
	"fmt"
	"slices"

	"github.com/HeroicKatora/automata/alphabet"
)

// Node is a node handle. Valid handles for a graph g satisfy
// 0 <= int(n) < g.NodeCount().
type Node int

// target is the internal representation of an edge slot. Zero means
// "absent"; a present edge to Node n is stored as target(n)+1, so
// "no such edge" shares representation with the zero word and an
// Option[Node] costs nothing beyond the Node itself.
type target uint32

func newTarget(n Node) target { return target(n) + 1 }

func (t target) node() (Node, bool) {
	if t == 0 {
		return 0, false
	}
	return Node(t - 1), true
}

// Graph is a packed deterministic graph over alphabet S: every node has
// exactly |Σ| outgoing slots, indexed node*|Σ|+charIndex.
type Graph[S alphabet.Symbol] struct {
	sigma []S
	edges []target
	nodes int
}

// New builds a graph over the given alphabet, sorted and deduplicated.
func New[S alphabet.Symbol](alpha []S) *Graph[S] {
	sigma := append([]S(nil), alpha...)
	slices.Sort(sigma)
	sigma = slices.Compact(sigma)
	return &Graph[S]{sigma: sigma}
}

// Alphabet returns the sorted, deduplicated alphabet of this graph.
func (g *Graph[S]) Alphabet() []S {
	return g.sigma
}

// NodeCount returns the number of nodes currently in the graph.
func (g *Graph[S]) NodeCount() int {
	return g.nodes
}

// AddNode appends |Σ| absent slots and returns the new node's handle.
func (g *Graph[S]) AddNode() (Node, error) {
	if g.nodes+1 > (1<<31)-1 {
		return 0, fmt.Errorf("detgraph: maximum node count exceeded")
	}
	id := Node(g.nodes)
	g.nodes++
	g.edges = append(g.edges, make([]target, len(g.sigma))...)
	return id, nil
}

// symbolIndex resolves a symbol to its slot offset within a node via
// binary search over the sorted alphabet.
func (g *Graph[S]) symbolIndex(sym S) (int, error) {
	idx, found := slices.BinarySearch(g.sigma, sym)
	if !found {
		return 0, fmt.Errorf("detgraph: symbol %v is not in this graph's alphabet", sym)
	}
	return idx, nil
}

func (g *Graph[S]) slotRange(n Node) (int, int, bool) {
	if n < 0 || int(n) >= g.nodes {
		return 0, 0, false
	}
	width := len(g.sigma)
	start := int(n) * width
	return start, start + width, true
}

// At returns the target of node n's edge on symbol sym, if present.
func (g *Graph[S]) At(n Node, sym S) (Node, bool, error) {
	start, end, ok := g.slotRange(n)
	if !ok {
		return 0, false, fmt.Errorf("detgraph: node %d out of range", n)
	}
	idx, err := g.symbolIndex(sym)
	if err != nil {
		return 0, false, err
	}
	to, ok := g.edges[start+idx].node()
	return to, ok, nil
}

// SetEdge sets node n's edge on symbol sym to point at to.
func (g *Graph[S]) SetEdge(n Node, sym S, to Node) error {
	start, _, ok := g.slotRange(n)
	if !ok {
		return fmt.Errorf("detgraph: node %d out of range", n)
	}
	idx, err := g.symbolIndex(sym)
	if err != nil {
		return err
	}
	g.edges[start+idx] = newTarget(to)
	return nil
}

// Edges returns a view over node n's |Σ| slots paired with the alphabet.
func (g *Graph[S]) Edges(n Node) (Edges[S], bool) {
	start, end, ok := g.slotRange(n)
	if !ok {
		return Edges[S]{}, false
	}
	return Edges[S]{sigma: g.sigma, targets: g.edges[start:end]}, true
}

// IsComplete reports whether every slot in the graph is present.
func (g *Graph[S]) IsComplete() bool {
	for _, t := range g.edges {
		if t == 0 {
			return false
		}
	}
	return true
}

// Nodes returns the valid node handles [0, NodeCount()).
func (g *Graph[S]) Nodes() []Node {
	nodes := make([]Node, g.nodes)
	for i := range nodes {
		nodes[i] = Node(i)
	}
	return nodes
}

// Edges is a read-only view over one node's outgoing slots, in alphabet
// order.
type Edges[S alphabet.Symbol] struct {
	sigma   []S
	targets []target
}

// Len returns the width of the view (the alphabet size).
func (e Edges[S]) Len() int {
	return len(e.sigma)
}

// At resolves the target reachable under sym, if any.
func (e Edges[S]) At(sym S) (Node, bool, error) {
	idx, found := slices.BinarySearch(e.sigma, sym)
	if !found {
		return 0, false, fmt.Errorf("detgraph: symbol %v is not in this graph's alphabet", sym)
	}
	to, ok := e.targets[idx].node()
	return to, ok, nil
}

// All iterates the view in alphabet order, reporting only present edges.
func (e Edges[S]) All(yield func(sym S, to Node) bool) {
	for i, sym := range e.sigma {
		to, ok := e.targets[i].node()
		if !ok {
			continue
		}
		if !yield(sym, to) {
			return
		}
	}
}
