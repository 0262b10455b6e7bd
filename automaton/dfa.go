// Package automaton implements the deterministic (Dfa) and
// non-deterministic (Nfa) finite automata and their interconversions
// with each other and with regexdag.Regex. Dfa and Nfa share a package
// because Dfa.ToNfa needs the Nfa type and Nfa.IntoDfa needs the Dfa
// type; splitting them would create an import cycle. DFA minimization
// is deliberately not provided: the model in spec is explicit that it
// is a planned extension, not a required operation, so there is no
// Minimized method here, stub or otherwise.
package automaton

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/pkg/errors"

	"github.com/HeroicKatora/automata/alphabet"
	"github.com/HeroicKatora/automata/detgraph"
	"github.com/HeroicKatora/automata/dot"
	"github.com/HeroicKatora/automata/ndgraph"
)

// Sentinel construction errors.
var (
	ErrNonUniformAlphabet = errors.New("automaton: source states disagree on the alphabet")
	ErrIncompleteDfa      = errors.New("automaton: not every (state, symbol) pair has an outgoing edge")
)

// Edge describes one declared transition for DfaFromEdges.
type Edge[S alphabet.Symbol] struct {
	From int
	Sym  S
	To   int
}

// Dfa is a deterministic finite automaton backed by a packed
// deterministic graph.
type Dfa[S alphabet.Symbol] struct {
	graph  *detgraph.Graph[S]
	finals map[detgraph.Node]struct{}
}

// DfaFromEdges builds a Dfa from a flat edge list and a set of
// accepting state indices. Every source state's declared symbols must
// agree on the same set (the union across all sources becomes Σ); the
// resulting graph must be complete (every (state, σ) pair wired) or
// construction fails.
func DfaFromEdges[S alphabet.Symbol](edges []Edge[S], finals []int) (*Dfa[S], error) {
	perNode := map[int][]Edge[S]{}
	maxNode := 0
	for _, e := range edges {
		perNode[e.From] = append(perNode[e.From], e)
		if e.From > maxNode {
			maxNode = e.From
		}
		if e.To > maxNode {
			maxNode = e.To
		}
	}

	var sigma []S
	haveSigma := false
	for _, es := range perNode {
		syms := make([]S, 0, len(es))
		for _, e := range es {
			syms = append(syms, e.Sym)
		}
		slices.Sort(syms)
		syms = slices.Compact(syms)
		if !haveSigma {
			sigma = syms
			haveSigma = true
		} else if !slices.Equal(sigma, syms) {
			return nil, ErrNonUniformAlphabet
		}
	}

	g := detgraph.New(sigma)
	for i := 0; i <= maxNode; i++ {
		if _, err := g.AddNode(); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := g.SetEdge(detgraph.Node(e.From), e.Sym, detgraph.Node(e.To)); err != nil {
			return nil, fmt.Errorf("automaton: %w", err)
		}
	}
	if !g.IsComplete() {
		return nil, ErrIncompleteDfa
	}

	finalSet := make(map[detgraph.Node]struct{}, len(finals))
	for _, f := range finals {
		finalSet[detgraph.Node(f)] = struct{}{}
	}
	return &Dfa[S]{graph: g, finals: finalSet}, nil
}

// Alphabet returns the sorted, deduplicated alphabet this Dfa was built
// over.
func (d *Dfa[S]) Alphabet() []S {
	return d.graph.Alphabet()
}

func (d *Dfa[S]) isFinal(n detgraph.Node) bool {
	_, ok := d.finals[n]
	return ok
}

// Contains reports whether word is accepted: start at state 0, follow
// word's symbols in order, accept iff the final state is accepting. A
// symbol outside Σ is a usage error, not a panic.
func (d *Dfa[S]) Contains(word []S) (bool, error) {
	state := detgraph.Node(0)
	for _, sym := range word {
		to, _, err := d.graph.At(state, sym)
		if err != nil {
			return false, err
		}
		state = to
	}
	return d.isFinal(state), nil
}

// Pair explores the product state space of d and other, assigning a
// fresh id to every reached pair, and keeps a pair (L, R) as accepting
// iff decider(L final, R final). Returns (nil, nil) if no reached pair
// is accepting (the product's language is empty).
func (d *Dfa[S]) Pair(other *Dfa[S], decider func(leftFinal, rightFinal bool) bool) (*Dfa[S], error) {
	product, anyFinal, err := d.exploreProduct(other, decider, false)
	if err != nil {
		return nil, err
	}
	if !anyFinal {
		return nil, nil
	}
	return product, nil
}

// PairEmpty runs the same product exploration as Pair but stops as soon
// as an accepting pair is found, reporting false; reports true if
// exploration exhausts without ever finding one. Useful for equivalence
// (xor decider) and universality (complement decider) checks without
// paying to materialize the product.
func (d *Dfa[S]) PairEmpty(other *Dfa[S], decider func(leftFinal, rightFinal bool) bool) (bool, error) {
	_, anyFinal, err := d.exploreProduct(other, decider, true)
	if err != nil {
		return false, err
	}
	return !anyFinal, nil
}

func (d *Dfa[S]) exploreProduct(other *Dfa[S], decider func(bool, bool) bool, stopEarly bool) (*Dfa[S], bool, error) {
	if !slices.Equal(d.graph.Alphabet(), other.graph.Alphabet()) {
		return nil, false, fmt.Errorf("automaton: Pair/PairEmpty requires matching alphabets")
	}
	sigma := d.graph.Alphabet()

	type pair struct{ l, r detgraph.Node }
	var product *detgraph.Graph[S]
	if !stopEarly {
		product = detgraph.New(sigma)
	}

	ids := map[pair]detgraph.Node{}
	start := pair{0, 0}
	var startID detgraph.Node
	if !stopEarly {
		var err error
		startID, err = product.AddNode()
		if err != nil {
			return nil, false, err
		}
	}
	ids[start] = startID

	var finals []detgraph.Node
	anyFinal := false
	queue := []pair{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curID := ids[cur]

		if decider(d.isFinal(cur.l), other.isFinal(cur.r)) {
			anyFinal = true
			finals = append(finals, curID)
			if stopEarly {
				return nil, true, nil
			}
		}

		for _, sym := range sigma {
			lt, _, err := d.graph.At(cur.l, sym)
			if err != nil {
				return nil, false, err
			}
			rt, _, err := other.graph.At(cur.r, sym)
			if err != nil {
				return nil, false, err
			}
			next := pair{lt, rt}
			nid, seen := ids[next]
			if !seen {
				if !stopEarly {
					var err error
					nid, err = product.AddNode()
					if err != nil {
						return nil, false, err
					}
				}
				ids[next] = nid
				queue = append(queue, next)
			}
			if !stopEarly {
				if err := product.SetEdge(curID, sym, nid); err != nil {
					return nil, false, err
				}
			}
		}
	}

	if stopEarly {
		return nil, anyFinal, nil
	}

	finalSet := make(map[detgraph.Node]struct{}, len(finals))
	for _, f := range finals {
		finalSet[f] = struct{}{}
	}
	return &Dfa[S]{graph: product, finals: finalSet}, anyFinal, nil
}

// ToNfa copies the deterministic graph into a non-deterministic one and
// transfers the final set.
func (d *Dfa[S]) ToNfa() *Nfa[S] {
	g := ndgraph.FromDeterministic(d.graph)
	finals := make(map[int]struct{}, len(d.finals))
	for n := range d.finals {
		finals[int(n)] = struct{}{}
	}
	return &Nfa[S]{graph: g, finals: finals}
}

// ToRegex routes through ToNfa().ToRegex().
func (d *Dfa[S]) ToRegex() (*RegexResult[S], error) {
	return d.ToNfa().ToRegex()
}

// WriteDot serializes this Dfa's complete graph: one edge declaration
// per (state, σ) pair in node-major, alphabet-minor order, followed by
// one accepting-node declaration per final state in node order.
func (d *Dfa[S]) WriteDot(family dot.Family) *dot.Writer {
	w := dot.New(family)
	sigma := d.graph.Alphabet()
	for _, n := range d.graph.Nodes() {
		for _, sym := range sigma {
			to, ok, err := d.graph.At(n, sym)
			if err != nil || !ok {
				continue
			}
			w.Edge(strconv.Itoa(int(n)), strconv.Itoa(int(to)), sym.String())
		}
	}
	for _, n := range d.graph.Nodes() {
		if d.isFinal(n) {
			w.Accepting(strconv.Itoa(int(n)))
		}
	}
	return w
}
