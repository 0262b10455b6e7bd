package regexdag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeroicKatora/automata/alphabet"
)

func TestPushRejectsForwardReference(t *testing.T) {
	r := New[alphabet.Char]()
	_, err := r.Push(Op[alphabet.Char]{Kind: KindStar, Sub: 0})
	assert.Error(t, err)
}

func TestRootIsLastPushed(t *testing.T) {
	r := New[alphabet.Char]()
	_, ok := r.Root()
	assert.False(t, ok)

	h0, err := r.Push(Op[alphabet.Char]{Kind: KindEpsilon})
	require.NoError(t, err)
	root, ok := r.Root()
	require.True(t, ok)
	assert.Equal(t, h0, root)

	h1, err := r.Push(Op[alphabet.Char]{Kind: KindMatch, Sym: alphabet.Char('a')})
	require.NoError(t, err)
	root, ok = r.Root()
	require.True(t, ok)
	assert.Equal(t, h1, root)
}

func TestStringFormatsEveryShape(t *testing.T) {
	r := New[alphabet.Char]()
	eps, _ := r.Push(Op[alphabet.Char]{Kind: KindEpsilon})
	a, _ := r.Push(Op[alphabet.Char]{Kind: KindMatch, Sym: alphabet.Char('a')})
	b, _ := r.Push(Op[alphabet.Char]{Kind: KindMatch, Sym: alphabet.Char('b')})
	star, _ := r.Push(Op[alphabet.Char]{Kind: KindStar, Sub: a})
	or, _ := r.Push(Op[alphabet.Char]{Kind: KindOr, Left: a, Right: b})
	concat, _ := r.Push(Op[alphabet.Char]{Kind: KindConcat, Left: star, Right: or})

	assert.Equal(t, "{e}", r.String(eps))
	assert.Equal(t, "{a}", r.String(a))
	assert.Equal(t, "({a})*", r.String(star))
	assert.Equal(t, "({a}|{b})", r.String(or))
	assert.Equal(t, "({a})*({a}|{b})", r.String(concat))
}

func TestCachedInsertDeduplicates(t *testing.T) {
	c := NewCached[alphabet.Char]()
	op := Op[alphabet.Char]{Kind: KindMatch, Sym: alphabet.Char('x')}

	h1, err := c.Insert(op)
	require.NoError(t, err)
	h2, err := c.Insert(op)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, 1, c.IntoInner().Len())
}

func TestFillCacheSeedsFromExistingDag(t *testing.T) {
	r := New[alphabet.Char]()
	op := Op[alphabet.Char]{Kind: KindMatch, Sym: alphabet.Char('z')}
	want, err := r.Push(op)
	require.NoError(t, err)

	c := &Cached[alphabet.Char]{inner: r, seen: make(map[Op[alphabet.Char]]Handle)}
	c.FillCache()

	got, err := c.Insert(op)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, c.IntoInner().Len())
}
