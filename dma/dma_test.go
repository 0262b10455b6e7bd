package dma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeroicKatora/automata/alphabet"
)

func c(r rune) alphabet.Char { return alphabet.Char(r) }

func word(s string) []alphabet.Char {
	out := make([]alphabet.Char, len(s))
	for i, r := range s {
		out[i] = alphabet.Char(r)
	}
	return out
}

// pushCreator derives the next state of the a/b "stack" chain: 'a'
// pushes another level (self cycle, still creating), 'b' starts
// unwinding from the predecessor, and '$' always dead-ends via the
// blueprint's own (always-sink) '$' edge.
type pushCreator struct {
	selfID, unpushID CreatorID
}

func (p pushCreator) IsFinal() bool { return true }

func (p pushCreator) Edge(sym alphabet.Char) NewEdge[alphabet.Char] {
	switch sym {
	case 'a':
		k := Creating(p.selfID)
		return NewEdge[alphabet.Char]{Target: SelfCycle[alphabet.Char](), Kind: &k}
	case 'b':
		k := Creating(p.unpushID)
		return NewEdge[alphabet.Char]{Target: Predecessor[alphabet.Char](), Kind: &k}
	default: // '$'
		return NewEdge[alphabet.Char]{Target: BlueprintEdge(c('$'))}
	}
}

// unpushCreator unwinds one level per 'b' by copying the blueprint's own
// edges forward: its 'b' edge chains to whatever the blueprint's 'b'
// edge pointed at (one level further down the stack, or straight to
// sink once the blueprint is the initial state), and 'a'/'$' both
// dead-end via the blueprint's (always-sink) '$' edge.
type unpushCreator struct{}

func (unpushCreator) IsFinal() bool { return true }

func (unpushCreator) Edge(sym alphabet.Char) NewEdge[alphabet.Char] {
	switch sym {
	case 'b':
		return NewEdge[alphabet.Char]{Target: BlueprintEdge(c('b'))}
	default: // 'a', '$'
		return NewEdge[alphabet.Char]{Target: BlueprintEdge(c('$'))}
	}
}

// buildStackDma wires the three-symbol alphabet {a,b,$} scenario: a
// single initial state accepting the empty word, a dedicated sink, and
// push/unpush creators whose derived-state chain accepts exactly the
// words a^n b^m with m <= n; an 'a' after a 'b', or any '$', leads to
// the sink.
func buildStackDma(t *testing.T) *Dma[alphabet.Char] {
	t.Helper()
	d := New([]alphabet.Char{c('a'), c('b'), c('$')})

	start := d.NewState()
	sink := d.NewState()
	d.SetFinal(start, true)

	require.NoError(t, d.NewTransition(sink, c('a'), Standard(), sink))
	require.NoError(t, d.NewTransition(sink, c('b'), Standard(), sink))
	require.NoError(t, d.NewTransition(sink, c('$'), Standard(), sink))

	var push pushCreator
	unpushID := d.NewCreator(unpushCreator{})
	pushID := d.NewCreator(nil) // placeholder, replaced below
	push = pushCreator{selfID: pushID, unpushID: unpushID}
	d.creators[pushID] = push

	require.NoError(t, d.NewTransition(start, c('a'), Creating(pushID), start))
	require.NoError(t, d.NewTransition(start, c('b'), Standard(), sink))
	require.NoError(t, d.NewTransition(start, c('$'), Standard(), sink))

	return d
}

func TestDmaStackScenario(t *testing.T) {
	d := buildStackDma(t)

	cases := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"aaabbb", true},
		{"aab", true},
		{"ab", true},
		{"aabbb", false},
		{"ba", false},
	}

	for _, tc := range cases {
		got, err := d.Matches(word(tc.in))
		require.NoError(t, err, "word %q", tc.in)
		assert.Equal(t, tc.want, got, "word %q", tc.in)
	}
}

func TestRunRejectsEmptyAutomaton(t *testing.T) {
	d := New([]alphabet.Char{c('a')})
	_, err := d.Run()
	assert.Error(t, err)
}

func TestNextRejectsUnknownSymbol(t *testing.T) {
	d := New([]alphabet.Char{c('a')})
	d.NewState()
	run, err := d.Run()
	require.NoError(t, err)
	err = run.Next(c('z'))
	assert.ErrorIs(t, err, ErrInvalidChar)
}

func TestNextRejectsDanglingEdge(t *testing.T) {
	d := New([]alphabet.Char{c('a'), c('b')})
	d.NewState()
	run, err := d.Run()
	require.NoError(t, err)
	err = run.Next(c('a'))
	assert.ErrorIs(t, err, ErrNoSuchEdge)
}

func TestDifferentRunsDoNotShareDerivedState(t *testing.T) {
	d := buildStackDma(t)

	run1, err := d.Run()
	require.NoError(t, err)
	require.NoError(t, run1.Next(c('a')))
	require.NoError(t, run1.Next(c('a')))

	run2, err := d.Run()
	require.NoError(t, err)
	require.NoError(t, run2.Next(c('b')))
	assert.False(t, run2.IsFinal())

	require.NoError(t, run1.Next(c('b')))
	assert.True(t, run1.IsFinal())
}
