// Package ndgraph implements the non-deterministic graph: a builder form
// that accepts edges (labeled or ε) in any order, and a finished form that
// pays a one-time per-node sort so every later "successors under σ" query
// resolves by bisection instead of a scan.
package ndgraph

import (
	"cmp"
	"slices"
	"sort"

	"github.com/HeroicKatora/automata/alphabet"
	"github.com/HeroicKatora/automata/detgraph"
)

// Builder accumulates edges in the order a caller discovers them; call
// Finish to obtain the sorted, query-ready form.
type Builder[S alphabet.Symbol] struct {
	chars   []S
	charIdx map[S]int
	labeled [][]builderEdge
	epsilon [][]int
}

type builderEdge struct {
	char   int
	target int
}

// NewBuilder returns an empty builder.
func NewBuilder[S alphabet.Symbol]() *Builder[S] {
	return &Builder[S]{charIdx: make(map[S]int)}
}

// EnsureNode grows the builder's per-node vectors so that node i exists.
func (b *Builder[S]) EnsureNode(i int) {
	for len(b.labeled) <= i {
		b.labeled = append(b.labeled, nil)
		b.epsilon = append(b.epsilon, nil)
	}
}

func (b *Builder[S]) intern(sym S) int {
	if id, ok := b.charIdx[sym]; ok {
		return id
	}
	id := len(b.chars)
	b.chars = append(b.chars, sym)
	b.charIdx[sym] = id
	return id
}

// NodeCount reports how many nodes have been touched so far.
func (b *Builder[S]) NodeCount() int {
	return len(b.labeled)
}

// Insert registers from and to, interns sym into the character table, and
// appends the labeled edge to from's adjacency list.
func (b *Builder[S]) Insert(from int, sym S, to int) {
	b.EnsureNode(from)
	b.EnsureNode(to)
	id := b.intern(sym)
	b.labeled[from] = append(b.labeled[from], builderEdge{char: id, target: to})
}

// InsertEpsilon registers from and to and appends to to from's ε-list.
func (b *Builder[S]) InsertEpsilon(from, to int) {
	b.EnsureNode(from)
	b.EnsureNode(to)
	b.epsilon[from] = append(b.epsilon[from], to)
}

// Finish sorts the character table, relabels every builder-local character
// id to its position in the sorted table, and emits each node's ε-edges
// and labeled edges into one flat per-node slice, sorted by label.
func (b *Builder[S]) Finish() *Graph[S] {
	type slot struct {
		sym S
		old int
	}
	slots := make([]slot, len(b.chars))
	for i, c := range b.chars {
		slots[i] = slot{sym: c, old: i}
	}
	slices.SortFunc(slots, func(a, b slot) int { return cmp.Compare(a.sym, b.sym) })

	sigma := make([]S, len(slots))
	oldToNew := make([]int, len(slots))
	for newID, s := range slots {
		sigma[newID] = s.sym
		oldToNew[s.old] = newID
	}

	g := &Graph[S]{sigma: sigma}
	for i := 0; i < len(b.labeled); i++ {
		var node []ndEdge[S]
		for _, t := range b.epsilon[i] {
			node = append(node, ndEdge[S]{lbl: label[S]{epsilon: true}, target: t})
		}
		for _, e := range b.labeled[i] {
			node = append(node, ndEdge[S]{lbl: label[S]{sym: sigma[oldToNew[e.char]]}, target: e.target})
		}
		slices.SortFunc(node, compareEdges[S])

		start := len(g.edges)
		g.edges = append(g.edges, node...)
		g.spans = append(g.spans, span{start: start, end: len(g.edges)})
	}
	return g
}

// label is a finished-form edge label: either ε, or a symbol. ε sorts
// below every real symbol so a node's ε-edges always occupy the prefix
// of its sorted adjacency slice.
type label[S alphabet.Symbol] struct {
	epsilon bool
	sym     S
}

func compareLabels[S alphabet.Symbol](a, b label[S]) int {
	if a.epsilon && b.epsilon {
		return 0
	}
	if a.epsilon {
		return -1
	}
	if b.epsilon {
		return 1
	}
	return cmp.Compare(a.sym, b.sym)
}

type ndEdge[S alphabet.Symbol] struct {
	lbl    label[S]
	target int
}

func compareEdges[S alphabet.Symbol](a, b ndEdge[S]) int {
	if c := compareLabels(a.lbl, b.lbl); c != 0 {
		return c
	}
	return cmp.Compare(a.target, b.target)
}

type span struct{ start, end int }

// Graph is the finished, query-ready non-deterministic graph: every node's
// adjacency is one contiguous, label-sorted slice of the shared arena.
type Graph[S alphabet.Symbol] struct {
	sigma []S
	edges []ndEdge[S]
	spans []span
}

// Alphabet returns the sorted, deduplicated set of non-ε labels seen.
func (g *Graph[S]) Alphabet() []S {
	return g.sigma
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph[S]) NodeCount() int {
	return len(g.spans)
}

// Nodes returns the valid node handles [0, NodeCount()).
func (g *Graph[S]) Nodes() []int {
	nodes := make([]int, len(g.spans))
	for i := range nodes {
		nodes[i] = i
	}
	return nodes
}

// Edges returns a view over node n's adjacency slice, or the zero view if
// n is out of range.
func (g *Graph[S]) Edges(n int) Edges[S] {
	if n < 0 || n >= len(g.spans) {
		return Edges[S]{sigma: g.sigma}
	}
	s := g.spans[n]
	return Edges[S]{sigma: g.sigma, slice: g.edges[s.start:s.end]}
}

// Edges is a read-only, label-sorted view over one node's adjacency.
type Edges[S alphabet.Symbol] struct {
	sigma []S
	slice []ndEdge[S]
}

// Len reports the number of edges in the view.
func (e Edges[S]) Len() int {
	return len(e.slice)
}

// RestrictTo narrows the view to edges bearing the given label: pass nil
// for ε, or a pointer to the desired symbol. The per-node sort lets this
// bisect for the matching run's bounds instead of scanning.
func (e Edges[S]) RestrictTo(sym *S) Edges[S] {
	want := label[S]{epsilon: sym == nil}
	if sym != nil {
		want.sym = *sym
	}
	lo := sort.Search(len(e.slice), func(i int) bool {
		return compareLabels(e.slice[i].lbl, want) >= 0
	})
	hi := sort.Search(len(e.slice), func(i int) bool {
		return compareLabels(e.slice[i].lbl, want) > 0
	})
	return Edges[S]{sigma: e.sigma, slice: e.slice[lo:hi]}
}

// Targets drops the label and returns the destination node of every edge
// in the view, in sorted-by-label order.
func (e Edges[S]) Targets() []int {
	out := make([]int, len(e.slice))
	for i, ed := range e.slice {
		out[i] = ed.target
	}
	return out
}

// All iterates the view, reporting each edge's symbol (nil for ε) and
// target in sorted order.
func (e Edges[S]) All(yield func(sym *S, to int) bool) {
	for _, ed := range e.slice {
		var sp *S
		if !ed.lbl.epsilon {
			s := ed.lbl.sym
			sp = &s
		}
		if !yield(sp, ed.target) {
			return
		}
	}
}

// FromDeterministic copies a deterministic graph's alphabet and present
// edges into a finished non-deterministic graph, preserving per-node
// label order and introducing no ε-edges.
func FromDeterministic[S alphabet.Symbol](d *detgraph.Graph[S]) *Graph[S] {
	b := NewBuilder[S]()
	for _, sym := range d.Alphabet() {
		b.intern(sym)
	}
	for _, n := range d.Nodes() {
		b.EnsureNode(int(n))
		view, ok := d.Edges(n)
		if !ok {
			continue
		}
		view.All(func(sym S, to detgraph.Node) bool {
			b.Insert(int(n), sym, int(to))
			return true
		})
	}
	return b.Finish()
}
