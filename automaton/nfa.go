package automaton

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/HeroicKatora/automata/alphabet"
	"github.com/HeroicKatora/automata/detgraph"
	"github.com/HeroicKatora/automata/dot"
	"github.com/HeroicKatora/automata/ndgraph"
	"github.com/HeroicKatora/automata/regexdag"
)

// ErrEmptyLanguage is returned by Nfa.ToRegex when the automaton accepts
// no strings: there is no finite regex operation for "never matches" in
// this DAG's operation set (ε, match, star, or, concat), so an empty
// language is reported as an error rather than synthesized.
var ErrEmptyLanguage = errors.New("automaton: NFA accepts no strings; there is no regex for the empty language")

// NfaEdge describes one declared transition for NfaFromEdges. A nil Sym
// means an ε-transition.
type NfaEdge[S alphabet.Symbol] struct {
	From int
	Sym  *S
	To   int
}

// Nfa is a non-deterministic finite automaton (with ε-transitions)
// backed by a finished non-deterministic graph.
type Nfa[S alphabet.Symbol] struct {
	graph  *ndgraph.Graph[S]
	finals map[int]struct{}
}

// NfaFromEdges builds an Nfa from a flat edge list (symbols optionally
// ε) and a set of accepting state indices. Unlike DfaFromEdges, there
// is no uniform-alphabet check and no completeness requirement.
func NfaFromEdges[S alphabet.Symbol](edges []NfaEdge[S], finals []int) *Nfa[S] {
	b := ndgraph.NewBuilder[S]()
	maxNode := 0
	for _, e := range edges {
		if e.From > maxNode {
			maxNode = e.From
		}
		if e.To > maxNode {
			maxNode = e.To
		}
	}
	b.EnsureNode(maxNode)
	for _, e := range edges {
		if e.Sym == nil {
			b.InsertEpsilon(e.From, e.To)
		} else {
			b.Insert(e.From, *e.Sym, e.To)
		}
	}

	finalSet := make(map[int]struct{}, len(finals))
	for _, f := range finals {
		finalSet[f] = struct{}{}
	}
	return &Nfa[S]{graph: b.Finish(), finals: finalSet}
}

// Alphabet returns the sorted, deduplicated set of non-ε symbols used by
// any edge.
func (n *Nfa[S]) Alphabet() []S {
	return n.graph.Alphabet()
}

func (n *Nfa[S]) validateSymbol(sym S) error {
	if _, found := slices.BinarySearch(n.graph.Alphabet(), sym); !found {
		return fmt.Errorf("automaton: symbol %v is not in this NFA's alphabet", sym)
	}
	return nil
}

func (n *Nfa[S]) epsilonClosure(seed map[int]struct{}) map[int]struct{} {
	reached := make(map[int]struct{}, len(seed))
	stack := make([]int, 0, len(seed))
	for s := range seed {
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := reached[s]; ok {
			continue
		}
		reached[s] = struct{}{}
		for _, to := range n.graph.Edges(s).RestrictTo(nil).Targets() {
			stack = append(stack, to)
		}
	}
	return reached
}

func (n *Nfa[S]) step(states map[int]struct{}, sym S) map[int]struct{} {
	next := make(map[int]struct{})
	for s := range states {
		for _, to := range n.graph.Edges(s).RestrictTo(&sym).Targets() {
			next[to] = struct{}{}
		}
	}
	return next
}

// Contains reports whether word is accepted: States starts as the
// ε-closure of {0}; each symbol steps to the ε-closure of every target
// reachable under it; accept iff States meets the final set.
func (n *Nfa[S]) Contains(word []S) (bool, error) {
	states := n.epsilonClosure(map[int]struct{}{0: {}})
	for _, sym := range word {
		if err := n.validateSymbol(sym); err != nil {
			return false, err
		}
		states = n.epsilonClosure(n.step(states, sym))
	}
	for s := range states {
		if _, ok := n.finals[s]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (n *Nfa[S]) epsilonClosureSorted(seed []int) []int {
	seedSet := make(map[int]struct{}, len(seed))
	for _, s := range seed {
		seedSet[s] = struct{}{}
	}
	closure := n.epsilonClosure(seedSet)
	out := make([]int, 0, len(closure))
	for s := range closure {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

func subsetKey(subset []int) string {
	var b strings.Builder
	for _, s := range subset {
		b.WriteString(strconv.Itoa(s))
		b.WriteByte(',')
	}
	return b.String()
}

// IntoDfa performs the subset (powerset) construction: Σ is the set of
// symbols on any non-ε edge, unioned with extraAlphabet; each subset of
// Nfa states reached (always ε-closed) becomes one Dfa state, assigned
// an id the first time it is seen.
func (n *Nfa[S]) IntoDfa(extraAlphabet []S) (*Dfa[S], error) {
	sigma := append(append([]S(nil), n.graph.Alphabet()...), extraAlphabet...)
	slices.Sort(sigma)
	sigma = slices.Compact(sigma)

	g := detgraph.New(sigma)
	start := n.epsilonClosureSorted([]int{0})

	idOf := map[string]int{subsetKey(start): 0}
	subsetOf := map[int][]int{0: start}
	if _, err := g.AddNode(); err != nil {
		return nil, err
	}

	var finals []int
	queue := []int{0}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		subset := subsetOf[id]

		for _, s := range subset {
			if _, ok := n.finals[s]; ok {
				finals = append(finals, id)
				break
			}
		}

		for _, sym := range sigma {
			seen := map[int]struct{}{}
			for _, s := range subset {
				for _, to := range n.graph.Edges(s).RestrictTo(&sym).Targets() {
					seen[to] = struct{}{}
				}
			}
			var seed []int
			for s := range seen {
				seed = append(seed, s)
			}
			target := n.epsilonClosureSorted(seed)
			key := subsetKey(target)

			tid, ok := idOf[key]
			if !ok {
				newID, err := g.AddNode()
				if err != nil {
					return nil, err
				}
				tid = int(newID)
				idOf[key] = tid
				subsetOf[tid] = target
				queue = append(queue, tid)
			}
			if err := g.SetEdge(detgraph.Node(id), sym, detgraph.Node(tid)); err != nil {
				return nil, err
			}
		}
	}

	finalSet := make(map[detgraph.Node]struct{}, len(finals))
	for _, f := range finals {
		finalSet[detgraph.Node(f)] = struct{}{}
	}
	return &Dfa[S]{graph: g, finals: finalSet}, nil
}

// RegexResult pairs a Cached regex DAG with the handle of the
// expression it was built for.
type RegexResult[S alphabet.Symbol] struct {
	Cache *regexdag.Cached[S]
	Root  regexdag.Handle
}

// String pretty-prints the result's root expression.
func (r *RegexResult[S]) String() string {
	return r.Cache.String(r.Root)
}

// ToRegex converts the Nfa to a regex via state elimination: ephemeral
// Start/End pseudo-states are added around the real states (Start→0 and
// every final→End, both ε), then every real state is eliminated in
// descending index order, folding parallel edges into an Or-chain and
// routing self-loops through a Star before removing the state. All
// operations are pushed through a Cached regexdag so identical
// subexpressions are shared and the result stays polynomial in size.
func (n *Nfa[S]) ToRegex() (*RegexResult[S], error) {
	cache := regexdag.NewCached[S]()
	eps, err := cache.Insert(regexdag.Op[S]{Kind: regexdag.KindEpsilon})
	if err != nil {
		return nil, err
	}

	numReal := n.graph.NodeCount()
	start, end := numReal, numReal+1

	type pair struct{ u, v int }
	edges := map[pair][]regexdag.Handle{}
	addEdge := func(u, v int, h regexdag.Handle) {
		edges[pair{u, v}] = append(edges[pair{u, v}], h)
	}

	addEdge(start, 0, eps)
	for f := range n.finals {
		addEdge(f, end, eps)
	}

	for u := 0; u < numReal; u++ {
		var stepErr error
		n.graph.Edges(u).All(func(sym *S, to int) bool {
			if sym == nil {
				addEdge(u, to, eps)
				return true
			}
			h, e := cache.Insert(regexdag.Op[S]{Kind: regexdag.KindMatch, Sym: *sym})
			if e != nil {
				stepErr = e
				return false
			}
			addEdge(u, to, h)
			return true
		})
		if stepErr != nil {
			return nil, stepErr
		}
	}

	merge := func(u, v int) (regexdag.Handle, bool, error) {
		hs, ok := edges[pair{u, v}]
		if !ok || len(hs) == 0 {
			return 0, false, nil
		}
		h := hs[0]
		for _, next := range hs[1:] {
			var e error
			h, e = cache.Insert(regexdag.Op[S]{Kind: regexdag.KindOr, Left: h, Right: next})
			if e != nil {
				return 0, false, e
			}
		}
		return h, true, nil
	}

	for k := numReal - 1; k >= 0; k-- {
		selfHandle, hasSelf, err := merge(k, k)
		if err != nil {
			return nil, err
		}

		var preds, succs []int
		for key := range edges {
			if key.v == k && key.u != k {
				preds = append(preds, key.u)
			}
			if key.u == k && key.v != k {
				succs = append(succs, key.v)
			}
		}
		slices.Sort(preds)
		preds = slices.Compact(preds)
		slices.Sort(succs)
		succs = slices.Compact(succs)

		var starHandle regexdag.Handle
		if hasSelf {
			starHandle, err = cache.Insert(regexdag.Op[S]{Kind: regexdag.KindStar, Sub: selfHandle})
			if err != nil {
				return nil, err
			}
		}

		for _, u := range preds {
			inH, _, err := merge(u, k)
			if err != nil {
				return nil, err
			}
			for _, v := range succs {
				outH, _, err := merge(k, v)
				if err != nil {
					return nil, err
				}

				combined := inH
				if hasSelf {
					combined, err = cache.Insert(regexdag.Op[S]{Kind: regexdag.KindConcat, Left: inH, Right: starHandle})
					if err != nil {
						return nil, err
					}
				}
				combined, err = cache.Insert(regexdag.Op[S]{Kind: regexdag.KindConcat, Left: combined, Right: outH})
				if err != nil {
					return nil, err
				}
				addEdge(u, v, combined)
			}
		}

		for key := range edges {
			if key.u == k || key.v == k {
				delete(edges, key)
			}
		}
	}

	root, ok, err := merge(start, end)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEmptyLanguage
	}
	return &RegexResult[S]{Cache: cache, Root: root}, nil
}

// WriteDot serializes this Nfa's graph: one edge per adjacency entry in
// node-major, label-sorted order (ε rendered as the literal "ε"),
// followed by one accepting-node declaration per final state in node
// order.
func (n *Nfa[S]) WriteDot(family dot.Family) *dot.Writer {
	w := dot.New(family)
	for _, node := range n.graph.Nodes() {
		n.graph.Edges(node).All(func(sym *S, to int) bool {
			label := "ε"
			if sym != nil {
				label = (*sym).String()
			}
			w.Edge(strconv.Itoa(node), strconv.Itoa(to), label)
			return true
		})
	}
	for _, node := range n.graph.Nodes() {
		if _, ok := n.finals[node]; ok {
			w.Accepting(strconv.Itoa(node))
		}
	}
	return w
}
