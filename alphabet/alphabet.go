// Package alphabet defines the constraint shared by every generic package
// in this module: the kind of value an automaton can consume as a single
// input symbol.
package alphabet

import "cmp"

// Symbol is any finite-alphabet character: cmp.Ordered gives total
// equality and ordering (and, since its members are all primitive-kind,
// hashability as a map key for free); Stringer lets the regex
// pretty-printer and the DOT writer render a symbol without requiring
// every caller to supply a formatter.
type Symbol interface {
	cmp.Ordered
	String() string
}

// Char is a rune-based Symbol, the alphabet type exercised by this
// module's tests and CLI demo.
type Char rune

// String renders the character itself, not its code point.
func (c Char) String() string {
	return string(rune(c))
}
