package dot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteRawAsciiAlnum(t *testing.T) {
	assert.Equal(t, "0", Quote("0"))
	assert.Equal(t, "a1", Quote("a1"))
}

func TestQuoteEscapesAndEmptyAndUnicode(t *testing.T) {
	assert.Equal(t, `""`, Quote(""))
	assert.Equal(t, `"a\"b"`, Quote(`a"b`))
	assert.Equal(t, `"a\\b"`, Quote(`a\b`))
	assert.Equal(t, `"ε"`, Quote("ε"))
}

func TestWriteToMatchesBitExactFormat(t *testing.T) {
	w := New(Directed)
	w.Edge("0", "0", "0")
	w.Edge("0", "1", "1")
	w.Edge("1", "2", "0")
	w.Edge("1", "0", "1")
	w.Edge("2", "1", "0")
	w.Edge("2", "2", "1")
	w.Accepting("1")

	want := "digraph {\n" +
		"\t0 -> 0 [label=0,];\n" +
		"\t0 -> 1 [label=1,];\n" +
		"\t1 -> 2 [label=0,];\n" +
		"\t1 -> 0 [label=1,];\n" +
		"\t2 -> 1 [label=0,];\n" +
		"\t2 -> 2 [label=1,];\n" +
		"\t1 [peripheries=2,];\n" +
		"}\n"

	var b strings.Builder
	_, err := w.WriteTo(&b)
	assert.NoError(t, err)
	assert.Equal(t, want, b.String())
	assert.Equal(t, want, w.String())
}

func TestUndirectedUsesGraphKeywordAndEdgeOp(t *testing.T) {
	w := New(Undirected)
	w.Edge("a", "b", "x")
	assert.True(t, strings.HasPrefix(w.String(), "graph {\n"))
	assert.Contains(t, w.String(), "a -- b [label=x,];")
}
