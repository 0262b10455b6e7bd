package detgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeroicKatora/automata/alphabet"
)

func chars(s string) []alphabet.Char {
	out := make([]alphabet.Char, len(s))
	for i, r := range s {
		out[i] = alphabet.Char(r)
	}
	return out
}

func TestNewDedupsAndSortsAlphabet(t *testing.T) {
	g := New(chars("baab"))
	assert.Equal(t, chars("ab"), g.Alphabet())
}

func TestAddNodeGrowsEdgesByAlphabetWidth(t *testing.T) {
	g := New(chars("ab"))
	n0, err := g.AddNode()
	require.NoError(t, err)
	assert.Equal(t, Node(0), n0)
	assert.Equal(t, 1, g.NodeCount())
	assert.Len(t, g.edges, 2)
	assert.False(t, g.IsComplete())

	n1, err := g.AddNode()
	require.NoError(t, err)
	assert.Equal(t, Node(1), n1)
	assert.Equal(t, 2, g.NodeCount())
	assert.Len(t, g.edges, 4)
}

func TestSetEdgeAndAt(t *testing.T) {
	g := New(chars("ab"))
	n0, _ := g.AddNode()
	n1, _ := g.AddNode()

	require.NoError(t, g.SetEdge(n0, 'a', n1))

	to, ok, err := g.At(n0, 'a')
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, n1, to)

	_, ok, err = g.At(n0, 'b')
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAtUnknownSymbolIsUsageError(t *testing.T) {
	g := New(chars("ab"))
	n0, _ := g.AddNode()
	_, _, err := g.At(n0, 'z')
	assert.Error(t, err)
}

func TestIsCompleteOnceEveryEdgeIsSet(t *testing.T) {
	g := New(chars("ab"))
	n0, _ := g.AddNode()
	require.NoError(t, g.SetEdge(n0, 'a', n0))
	assert.False(t, g.IsComplete())
	require.NoError(t, g.SetEdge(n0, 'b', n0))
	assert.True(t, g.IsComplete())
}

func TestEdgesViewIteratesInAlphabetOrder(t *testing.T) {
	g := New(chars("cab"))
	n0, _ := g.AddNode()
	n1, _ := g.AddNode()
	require.NoError(t, g.SetEdge(n0, 'a', n1))
	require.NoError(t, g.SetEdge(n0, 'c', n0))

	view, ok := g.Edges(n0)
	require.True(t, ok)

	var seen []alphabet.Char
	view.All(func(sym alphabet.Char, to Node) bool {
		seen = append(seen, sym)
		return true
	})
	assert.Equal(t, chars("ac"), seen)
}

func TestEdgesOutOfRangeNode(t *testing.T) {
	g := New(chars("ab"))
	_, ok := g.Edges(Node(5))
	assert.False(t, ok)
}

func TestNodesEnumeratesValidHandles(t *testing.T) {
	g := New(chars("a"))
	g.AddNode()
	g.AddNode()
	g.AddNode()
	assert.Equal(t, []Node{0, 1, 2}, g.Nodes())
}
