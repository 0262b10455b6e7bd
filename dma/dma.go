// Package dma implements the deterministic, self-modifying automaton: a
// fixed set of user-declared initial states plus a table of creator
// functions that derive new states on the fly as a Run follows
// "Creating" transitions. The derived-state chain lets a single pass
// over the input amortize structure that would otherwise require
// unbounded lookahead, at the cost of growing state linearly with the
// consumed word.
package dma

import (
	"maps"
	"slices"

	"github.com/pkg/errors"

	"github.com/HeroicKatora/automata/alphabet"
)

// Sentinel errors surfaced by Run.Next; all of them abort the match.
var (
	ErrInvalidChar   = errors.New("dma: character is not in this automaton's alphabet")
	ErrNoSuchEdge    = errors.New("dma: no outgoing edge has been wired for this state and symbol")
	ErrNoSuchState   = errors.New("dma: state index is out of range")
	ErrNoSuchCreator = errors.New("dma: no creator is registered under this id")
)

// State addresses one state, initial or derived.
type State int

// CreatorID addresses a registered Creator.
type CreatorID int

// TransitionKind is either Standard (move to the literal target) or
// Creating (derive a new state from a blueprint via a Creator).
type TransitionKind struct {
	creating bool
	creator  CreatorID
}

// Standard returns the non-creating transition kind.
func Standard() TransitionKind { return TransitionKind{} }

// Creating returns the transition kind that derives a new state via the
// given creator when followed.
func Creating(c CreatorID) TransitionKind { return TransitionKind{creating: true, creator: c} }

// Creator reports whether this kind derives a state, and if so, which.
func (k TransitionKind) Creator() (CreatorID, bool) {
	if !k.creating {
		return 0, false
	}
	return k.creator, true
}

type edge struct {
	present bool
	target  State
	kind    TransitionKind
}

// EdgeTargetKind selects how a Creator resolves one new edge's
// destination during derivation.
type EdgeTargetKind int

const (
	// TargetSelfCycle points the new edge back at the state being
	// created.
	TargetSelfCycle EdgeTargetKind = iota
	// TargetBlueprint copies the target (and, absent an override, the
	// kind) of the blueprint state's edge for some symbol σ'.
	TargetBlueprint
	// TargetPredecessor points at the state the Run occupied just
	// before the transition that triggered this derivation — present
	// in one lineage of the source this package is modeled on, absent
	// in another; this implementation always supports it.
	TargetPredecessor
)

// EdgeTarget is how a Creator's NewEdge says where its edge should lead.
type EdgeTarget[S alphabet.Symbol] struct {
	Kind EdgeTargetKind
	Sym  S // meaningful only when Kind == TargetBlueprint
}

// SelfCycle builds an EdgeTarget pointing at the state being created.
func SelfCycle[S alphabet.Symbol]() EdgeTarget[S] {
	return EdgeTarget[S]{Kind: TargetSelfCycle}
}

// BlueprintEdge builds an EdgeTarget that copies the blueprint's sym-edge.
func BlueprintEdge[S alphabet.Symbol](sym S) EdgeTarget[S] {
	return EdgeTarget[S]{Kind: TargetBlueprint, Sym: sym}
}

// Predecessor builds an EdgeTarget pointing at the state the Run
// occupied immediately before this derivation was triggered.
func Predecessor[S alphabet.Symbol]() EdgeTarget[S] {
	return EdgeTarget[S]{Kind: TargetPredecessor}
}

// NewEdge is what a Creator returns for one alphabet symbol while a new
// state is being derived. A nil Kind means "copy the kind of the
// referenced blueprint edge" (only meaningful together with
// TargetBlueprint; SelfCycle and Predecessor default to Standard unless
// overridden).
type NewEdge[S alphabet.Symbol] struct {
	Target EdgeTarget[S]
	Kind   *TransitionKind
}

// Creator derives the shape of a freshly minted state: whether it
// accepts, and its |Σ| outgoing edges.
type Creator[S alphabet.Symbol] interface {
	IsFinal() bool
	Edge(sym S) NewEdge[S]
}

// Dma is a deterministic self-modifying automaton over alphabet S.
type Dma[S alphabet.Symbol] struct {
	sigma    []S
	index    map[S]int
	edges    []edge
	creators []Creator[S]
	finals   map[State]struct{}

	nextState     int
	initialStates int
}

// New returns an empty Dma over the given (sorted, deduplicated)
// alphabet, with no states yet.
func New[S alphabet.Symbol](alpha []S) *Dma[S] {
	sigma := append([]S(nil), alpha...)
	slices.Sort(sigma)
	sigma = slices.Compact(sigma)
	index := make(map[S]int, len(sigma))
	for i, s := range sigma {
		index[s] = i
	}
	return &Dma[S]{sigma: sigma, index: index, finals: make(map[State]struct{})}
}

// NewState allocates one more user-declared initial state, with all |Σ|
// edge slots initially unset.
func (d *Dma[S]) NewState() State {
	id := State(d.nextState)
	d.nextState++
	d.initialStates++
	d.edges = append(d.edges, make([]edge, len(d.sigma))...)
	return id
}

// NewCreator registers a creator and returns the id later transitions
// reference via Creating.
func (d *Dma[S]) NewCreator(c Creator[S]) CreatorID {
	id := CreatorID(len(d.creators))
	d.creators = append(d.creators, c)
	return id
}

// ReplaceCreator overwrites an already-registered creator in place.
// This exists for creators that reference their own id (a creator
// needs a CreatorID to build before the id exists): register a nil
// placeholder, build the real creator against the id NewCreator
// returned, then replace it.
func (d *Dma[S]) ReplaceCreator(id CreatorID, c Creator[S]) error {
	if int(id) < 0 || int(id) >= len(d.creators) {
		return ErrNoSuchCreator
	}
	d.creators[id] = c
	return nil
}

// NewTransition wires state from's sym-edge to target, with the given
// kind.
func (d *Dma[S]) NewTransition(from State, sym S, kind TransitionKind, target State) error {
	idx, ok := d.index[sym]
	if !ok {
		return ErrInvalidChar
	}
	off, ok := d.slot(from, idx)
	if !ok {
		return ErrNoSuchState
	}
	if int(target) < 0 || int(target) >= d.nextState {
		return ErrNoSuchState
	}
	d.edges[off] = edge{present: true, target: target, kind: kind}
	return nil
}

// SetFinal marks or unmarks s as accepting.
func (d *Dma[S]) SetFinal(s State, final bool) {
	if final {
		d.finals[s] = struct{}{}
	} else {
		delete(d.finals, s)
	}
}

func (d *Dma[S]) slot(s State, symIdx int) (int, bool) {
	width := len(d.sigma)
	off := int(s)*width + symIdx
	if off < 0 || off >= len(d.edges) {
		return 0, false
	}
	return off, true
}

func (d *Dma[S]) creatorAt(id CreatorID) (Creator[S], bool) {
	if int(id) < 0 || int(id) >= len(d.creators) {
		return nil, false
	}
	return d.creators[id], true
}

func (d *Dma[S]) clone() *Dma[S] {
	return &Dma[S]{
		sigma:         append([]S(nil), d.sigma...),
		index:         maps.Clone(d.index),
		edges:         append([]edge(nil), d.edges...),
		creators:      append([]Creator[S](nil), d.creators...),
		finals:        maps.Clone(d.finals),
		nextState:     d.nextState,
		initialStates: d.initialStates,
	}
}

// deriveState allocates a new state, populates its |Σ| edges by running
// creator across every symbol in alphabet order, and registers it as
// accepting if the creator says so. blueprint supplies the edges
// TargetBlueprint copies from; predecessor is the state the Run occupied
// immediately before the transition that triggered this derivation.
func (d *Dma[S]) deriveState(blueprint, predecessor State, creator Creator[S]) (State, error) {
	width := len(d.sigma)
	if int(blueprint) < 0 || int(blueprint)*width+width > len(d.edges) {
		return 0, ErrNoSuchState
	}

	newID := State(d.nextState)
	d.nextState++
	newEdges := make([]edge, width)

	for i, sym := range d.sigma {
		ne := creator.Edge(sym)

		var resolvedTarget State
		defaultKind := Standard()

		switch ne.Target.Kind {
		case TargetSelfCycle:
			resolvedTarget = newID
		case TargetBlueprint:
			bpIdx, ok := d.index[ne.Target.Sym]
			if !ok {
				return 0, ErrInvalidChar
			}
			bpOff, ok := d.slot(blueprint, bpIdx)
			if !ok {
				return 0, ErrNoSuchState
			}
			bpEdge := d.edges[bpOff]
			if !bpEdge.present {
				return 0, ErrNoSuchEdge
			}
			resolvedTarget = bpEdge.target
			defaultKind = bpEdge.kind
		case TargetPredecessor:
			resolvedTarget = predecessor
		}

		kind := defaultKind
		if ne.Kind != nil {
			kind = *ne.Kind
		}
		newEdges[i] = edge{present: true, target: resolvedTarget, kind: kind}
	}

	d.edges = append(d.edges, newEdges...)
	if creator.IsFinal() {
		d.finals[newID] = struct{}{}
	}
	return newID, nil
}

// Run is a live match against a defensive clone of a Dma, so concurrent
// runs against the same template never interfere and the template
// itself is never mutated.
type Run[S alphabet.Symbol] struct {
	backing *Dma[S]
	state   State
}

// Run starts a new Run at state 0 over a clone of d. It requires at
// least one initial state to have been declared.
func (d *Dma[S]) Run() (*Run[S], error) {
	if d.initialStates <= 0 {
		return nil, errors.New("dma: cannot run an automaton with no initial states")
	}
	return &Run[S]{backing: d.clone(), state: 0}, nil
}

// Next consumes one symbol, following the current state's edge: a
// Standard edge simply moves; a Creating edge derives a new state from
// its literal target (the blueprint) and the predecessor (the state
// Next was called from), and moves there instead.
func (r *Run[S]) Next(sym S) error {
	idx, ok := r.backing.index[sym]
	if !ok {
		return ErrInvalidChar
	}
	off, ok := r.backing.slot(r.state, idx)
	if !ok {
		return ErrNoSuchState
	}
	e := r.backing.edges[off]
	if !e.present {
		return ErrNoSuchEdge
	}

	if creatorID, creating := e.kind.Creator(); creating {
		creator, ok := r.backing.creatorAt(creatorID)
		if !ok {
			return ErrNoSuchCreator
		}
		newState, err := r.backing.deriveState(e.target, r.state, creator)
		if err != nil {
			return errors.Wrapf(err, "dma: deriving state from blueprint %d", e.target)
		}
		r.state = newState
	} else {
		r.state = e.target
	}
	return nil
}

// IsFinal reports whether the Run's current state accepts.
func (r *Run[S]) IsFinal() bool {
	_, ok := r.backing.finals[r.state]
	return ok
}

// Matches starts a fresh Run, folds Next over word, and reports
// IsFinal(). Any error from Next aborts the whole match.
func (d *Dma[S]) Matches(word []S) (bool, error) {
	run, err := d.Run()
	if err != nil {
		return false, err
	}
	for _, sym := range word {
		if err := run.Next(sym); err != nil {
			return false, err
		}
	}
	return run.IsFinal(), nil
}
