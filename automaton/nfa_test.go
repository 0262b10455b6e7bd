package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeroicKatora/automata/alphabet"
	"github.com/HeroicKatora/automata/dot"
)

func sym(r rune) *alphabet.Char {
	c := alphabet.Char(r)
	return &c
}

func s2Nfa(t *testing.T) *Nfa[alphabet.Char] {
	t.Helper()
	return NfaFromEdges([]NfaEdge[alphabet.Char]{
		{From: 0, Sym: sym('0'), To: 0},
		{From: 0, Sym: nil, To: 1},
		{From: 0, Sym: sym('1'), To: 1},
		{From: 1, Sym: sym('0'), To: 0},
	}, []int{1})
}

func s2Cases() map[string]bool {
	return map[string]bool{
		"":     true,
		"1":    true,
		"1001": true,
		"0000": true,
		"11":   false,
		"2":    false,
	}
}

func TestS2NfaWithEpsilon(t *testing.T) {
	n := s2Nfa(t)
	for in, want := range s2Cases() {
		if in == "2" {
			_, err := n.Contains(bits(in))
			assert.Error(t, err)
			continue
		}
		got, err := n.Contains(bits(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestS2IntoDfaPreservesLanguage(t *testing.T) {
	n := s2Nfa(t)
	d, err := n.IntoDfa([]alphabet.Char{'2'})
	require.NoError(t, err)

	for in, want := range s2Cases() {
		got, err := d.Contains(bits(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestEpsilonClosureReachesAcceptViaEmptyPath(t *testing.T) {
	n := NfaFromEdges([]NfaEdge[alphabet.Char]{
		{From: 0, Sym: nil, To: 1},
		{From: 1, Sym: nil, To: 2},
	}, []int{2})
	got, err := n.Contains(nil)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestNfaToRegexProducesNonEmptyExpression(t *testing.T) {
	n := s2Nfa(t)
	result, err := n.ToRegex()
	require.NoError(t, err)
	assert.NotEmpty(t, result.String())
}

func TestToRegexOnEmptyLanguageIsAnError(t *testing.T) {
	n := NfaFromEdges([]NfaEdge[alphabet.Char]{
		{From: 0, Sym: sym('a'), To: 0},
	}, nil)
	_, err := n.ToRegex()
	assert.ErrorIs(t, err, ErrEmptyLanguage)
}

func TestNfaWriteDotRendersEpsilonAndAccepting(t *testing.T) {
	n := NfaFromEdges([]NfaEdge[alphabet.Char]{
		{From: 0, Sym: nil, To: 1},
		{From: 0, Sym: sym('a'), To: 1},
	}, []int{1})

	out := n.WriteDot(dot.Directed).String()
	assert.Contains(t, out, `"ε"`)
	assert.Contains(t, out, "\t1 [peripheries=2,];\n")
}
