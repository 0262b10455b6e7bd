package main

import (
	"github.com/HeroicKatora/automata/alphabet"
	"github.com/HeroicKatora/automata/automaton"
	"github.com/HeroicKatora/automata/dma"
)

func c(r rune) alphabet.Char { return alphabet.Char(r) }

// sampleDfa builds the mod-3-ones DFA: accept binary strings whose
// value, read as a binary number, is congruent to 1 mod 3.
func sampleDfa() (*automaton.Dfa[alphabet.Char], error) {
	return automaton.DfaFromEdges([]automaton.Edge[alphabet.Char]{
		{From: 0, Sym: c('0'), To: 0}, {From: 0, Sym: c('1'), To: 1},
		{From: 1, Sym: c('0'), To: 2}, {From: 1, Sym: c('1'), To: 0},
		{From: 2, Sym: c('0'), To: 1}, {From: 2, Sym: c('1'), To: 2},
	}, []int{1})
}

// sampleNfa builds a small NFA with an ε-transition from state 0 to the
// accepting state 1: it accepts exactly the strings over {0,1} that
// contain no two consecutive 1s (including the empty string).
func sampleNfa() *automaton.Nfa[alphabet.Char] {
	one := c('1')
	zero := c('0')
	return automaton.NfaFromEdges([]automaton.NfaEdge[alphabet.Char]{
		{From: 0, Sym: &zero, To: 0},
		{From: 0, Sym: nil, To: 1},
		{From: 0, Sym: &one, To: 1},
		{From: 1, Sym: &zero, To: 0},
	}, []int{1})
}

// pushCreator derives the next state of the a/b "stack" chain: 'a'
// pushes another level (self cycle, still creating), 'b' starts
// unwinding from the predecessor, and '$' always dead-ends via the
// blueprint's own (always-sink) '$' edge.
type pushCreator struct {
	selfID, unpushID dma.CreatorID
}

func (p pushCreator) IsFinal() bool { return true }

func (p pushCreator) Edge(sym alphabet.Char) dma.NewEdge[alphabet.Char] {
	switch sym {
	case 'a':
		k := dma.Creating(p.selfID)
		return dma.NewEdge[alphabet.Char]{Target: dma.SelfCycle[alphabet.Char](), Kind: &k}
	case 'b':
		k := dma.Creating(p.unpushID)
		return dma.NewEdge[alphabet.Char]{Target: dma.Predecessor[alphabet.Char](), Kind: &k}
	default: // '$'
		return dma.NewEdge[alphabet.Char]{Target: dma.BlueprintEdge(c('$'))}
	}
}

// unpushCreator unwinds one level per 'b' by copying the blueprint's
// own edges forward: its 'b' edge chains to whatever the blueprint's
// 'b' edge pointed at (one level further down the stack, or straight
// to the sink once the blueprint is the initial state).
type unpushCreator struct{}

func (unpushCreator) IsFinal() bool { return true }

func (unpushCreator) Edge(sym alphabet.Char) dma.NewEdge[alphabet.Char] {
	switch sym {
	case 'b':
		return dma.NewEdge[alphabet.Char]{Target: dma.BlueprintEdge(c('b'))}
	default: // 'a', '$'
		return dma.NewEdge[alphabet.Char]{Target: dma.BlueprintEdge(c('$'))}
	}
}

// sampleDma wires up the {a,b,$} stack scenario: the derived-state
// chain accepts exactly the words a^n b^m with m <= n, without any
// explicit counter; an 'a' after a 'b', or any '$', leads to the sink.
func sampleDma() (*dma.Dma[alphabet.Char], error) {
	d := dma.New([]alphabet.Char{c('a'), c('b'), c('$')})

	start := d.NewState()
	sink := d.NewState()
	d.SetFinal(start, true)

	if err := d.NewTransition(sink, c('a'), dma.Standard(), sink); err != nil {
		return nil, err
	}
	if err := d.NewTransition(sink, c('b'), dma.Standard(), sink); err != nil {
		return nil, err
	}
	if err := d.NewTransition(sink, c('$'), dma.Standard(), sink); err != nil {
		return nil, err
	}

	unpushID := d.NewCreator(unpushCreator{})
	pushID := d.NewCreator(nil) // placeholder, replaced below
	push := pushCreator{selfID: pushID, unpushID: unpushID}
	if err := d.ReplaceCreator(pushID, push); err != nil {
		return nil, err
	}

	if err := d.NewTransition(start, c('a'), dma.Creating(pushID), start); err != nil {
		return nil, err
	}
	if err := d.NewTransition(start, c('b'), dma.Standard(), sink); err != nil {
		return nil, err
	}
	if err := d.NewTransition(start, c('$'), dma.Standard(), sink); err != nil {
		return nil, err
	}

	return d, nil
}

func word(s string) []alphabet.Char {
	out := make([]alphabet.Char, len(s))
	for i, r := range s {
		out[i] = alphabet.Char(r)
	}
	return out
}
