// Package regexdag implements the regex representation used by
// automaton.Nfa.ToRegex: a DAG of operations addressed by handle, not a
// tree of pointers, so that identical subexpressions can share a node
// and the output of state elimination stays polynomial.
package regexdag

import (
	"fmt"
	"strings"

	"github.com/HeroicKatora/automata/alphabet"
)

// Handle addresses one operation inside a Regex: the index at which Push
// stored it, so the first pushed op gets handle 0. Root reports the
// absence of any op separately rather than through a reserved handle.
type Handle int

// Kind distinguishes the five operation shapes a regex DAG node can take.
type Kind int

const (
	KindEpsilon Kind = iota
	KindMatch
	KindStar
	KindOr
	KindConcat
)

// Op is one node of the DAG. Only the fields relevant to Kind are
// meaningful; the zero value of unused fields is ignored.
type Op[S alphabet.Symbol] struct {
	Kind     Kind
	Sym      S      // KindMatch
	Sub      Handle // KindStar
	Left     Handle // KindOr, KindConcat
	Right    Handle // KindOr, KindConcat
}

// Regex is an arena of operations; earlier-pushed ops may be referenced
// by later ones, never the other way around.
type Regex[S alphabet.Symbol] struct {
	ops []Op[S]
}

// New returns an empty regex DAG.
func New[S alphabet.Symbol]() *Regex[S] {
	return &Regex[S]{}
}

// Push validates that every Handle referenced by op already addresses an
// existing operation (i.e. is strictly less than the handle about to be
// assigned), appends op, and returns its new handle.
func (r *Regex[S]) Push(op Op[S]) (Handle, error) {
	next := Handle(len(r.ops))
	for _, sub := range op.referencedHandles() {
		if sub >= next {
			return 0, fmt.Errorf("regexdag: operation references handle %d, which does not yet exist", sub)
		}
	}
	r.ops = append(r.ops, op)
	return next, nil
}

func (op Op[S]) referencedHandles() []Handle {
	switch op.Kind {
	case KindStar:
		return []Handle{op.Sub}
	case KindOr, KindConcat:
		return []Handle{op.Left, op.Right}
	default:
		return nil
	}
}

// Root returns the most recently pushed handle, and false if the DAG is
// still empty.
func (r *Regex[S]) Root() (Handle, bool) {
	if len(r.ops) == 0 {
		return 0, false
	}
	return Handle(len(r.ops) - 1), true
}

// Op returns the operation addressed by h.
func (r *Regex[S]) Op(h Handle) Op[S] {
	return r.ops[h]
}

// Len reports how many operations are in the DAG.
func (r *Regex[S]) Len() int {
	return len(r.ops)
}

// String pretty-prints the operation rooted at h: "{e}" for ε, "{σ}" for
// a match, "(r)*" for star, "(a|b)" for alternation, and "ab" for
// concatenation, parenthesizing Star and Or to avoid ambiguity.
func (r *Regex[S]) String(h Handle) string {
	var b strings.Builder
	r.write(&b, h, false)
	return b.String()
}

func (r *Regex[S]) write(b *strings.Builder, h Handle, parenthesizeAlways bool) {
	op := r.ops[h]
	switch op.Kind {
	case KindEpsilon:
		b.WriteString("{e}")
	case KindMatch:
		b.WriteString("{")
		b.WriteString(op.Sym.String())
		b.WriteString("}")
	case KindStar:
		b.WriteString("(")
		r.write(b, op.Sub, true)
		b.WriteString(")*")
	case KindOr:
		b.WriteString("(")
		r.write(b, op.Left, true)
		b.WriteString("|")
		r.write(b, op.Right, true)
		b.WriteString(")")
	case KindConcat:
		r.write(b, op.Left, false)
		r.write(b, op.Right, false)
	}
}

// Cached wraps a Regex with an Op→Handle map so identical subexpressions
// are pushed at most once.
type Cached[S alphabet.Symbol] struct {
	inner *Regex[S]
	seen  map[Op[S]]Handle
}

// NewCached returns an empty cached regex DAG.
func NewCached[S alphabet.Symbol]() *Cached[S] {
	return &Cached[S]{inner: New[S](), seen: make(map[Op[S]]Handle)}
}

// Insert returns the existing handle for op if one was already inserted,
// otherwise pushes it and records the new handle before returning it.
func (c *Cached[S]) Insert(op Op[S]) (Handle, error) {
	if h, ok := c.seen[op]; ok {
		return h, nil
	}
	h, err := c.inner.Push(op)
	if err != nil {
		return 0, err
	}
	c.seen[op] = h
	return h, nil
}

// FillCache seeds the cache's dedup map from every operation already
// present in the wrapped DAG, useful after ownership of an existing
// Regex is transferred into a fresh Cached wrapper.
func (c *Cached[S]) FillCache() {
	for h := 0; h < c.inner.Len(); h++ {
		c.seen[c.inner.ops[h]] = Handle(h)
	}
}

// IntoInner releases the wrapper, returning the underlying Regex.
func (c *Cached[S]) IntoInner() *Regex[S] {
	return c.inner
}

// Root returns the most recently pushed handle, and false if empty.
func (c *Cached[S]) Root() (Handle, bool) {
	return c.inner.Root()
}

// Op returns the operation addressed by h.
func (c *Cached[S]) Op(h Handle) Op[S] {
	return c.inner.Op(h)
}

// String pretty-prints the operation rooted at h.
func (c *Cached[S]) String(h Handle) string {
	return c.inner.String(h)
}
