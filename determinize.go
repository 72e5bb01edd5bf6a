package automaton

import (
	"fmt"
	"sort"
)

// DefaultDeterminizeWorkLimit is a decent value of the work limit to
// pass to Determinize when you don't otherwise know what to specify.
const DefaultDeterminizeWorkLimit = 10000

// ErrTooComplexToDeterminize is returned when subset construction
// would exceed the caller's work limit.
var ErrTooComplexToDeterminize = fmt.Errorf("determinizing automaton would require more than the allowed work")

// transitionList holds (dest, min, max) triples packed in an int slice.
type transitionList struct {
	transitions []int
	next        int
}

func (l *transitionList) add(t *Transition) {
	if l.next+3 > len(l.transitions) {
		l.transitions = grow(l.transitions, l.next+3)
	}
	l.transitions[l.next] = t.Dest
	l.transitions[l.next+1] = t.Min
	l.transitions[l.next+2] = t.Max
	l.next += 3
}

// pointTransitions tracks the transitions starting and ending at one
// label point.
type pointTransitions struct {
	point  int
	ends   transitionList
	starts transitionList
}

func (p *pointTransitions) reset(point int) {
	p.point = point
	p.ends.next = 0
	p.starts.next = 0
}

// Past this many points a linear scan of the pool stops paying off and
// lookups go through a map instead.
const pointHashCutover = 30

// pointTransitionSet collates the outgoing transitions of one subset
// of NFA states by label interval start and end points. Instances are
// reused across worklist iterations to avoid re-allocating the lists.
type pointTransitionSet struct {
	points  []*pointTransitions
	count   int
	dict    map[int]*pointTransitions
	useHash bool
}

func (pts *pointTransitionSet) next(point int) *pointTransitions {
	if pts.count == len(pts.points) {
		pts.points = append(pts.points, &pointTransitions{})
	}
	p := pts.points[pts.count]
	pts.count++
	p.reset(point)
	return p
}

func (pts *pointTransitionSet) find(point int) *pointTransitions {
	if pts.useHash {
		p, ok := pts.dict[point]
		if !ok {
			p = pts.next(point)
			pts.dict[point] = p
		}
		return p
	}

	for i := 0; i < pts.count; i++ {
		if pts.points[i].point == point {
			return pts.points[i]
		}
	}

	p := pts.next(point)
	if pts.count == pointHashCutover {
		pts.dict = make(map[int]*pointTransitions)
		for i := 0; i < pts.count; i++ {
			pts.dict[pts.points[i].point] = pts.points[i]
		}
		pts.useHash = true
	}
	return p
}

func (pts *pointTransitionSet) add(t *Transition) {
	pts.find(t.Min).starts.add(t)
	pts.find(t.Max + 1).ends.add(t)
}

func (pts *pointTransitionSet) sort() {
	sort.Slice(pts.points[:pts.count], func(i, j int) bool {
		return pts.points[i].point < pts.points[j].point
	})
}

func (pts *pointTransitionSet) reset() {
	if pts.useHash {
		clear(pts.dict)
		pts.useHash = false
	}
	pts.count = 0
}

// Determinize determinizes the given automaton using the subset
// (powerset) construction. Worst case complexity: exponential in the
// number of states.
//
// One reusable StateSet assembles, per label interval, the subset of
// NFA states reachable under it; a dictionary keyed by the frozen
// snapshots maps every subset already seen to its DFA state, so equal
// subsets collapse into a single state. This deduplication is what
// keeps the resulting DFA's state count down; it is a correctness and
// size property, not a cache.
//
// workLimit caps the effort spent; higher numbers allow this operation
// to consume more memory and CPU but allow more complex automata. Use
// DefaultDeterminizeWorkLimit as a decent default if you don't
// otherwise know what to specify. Returns ErrTooComplexToDeterminize
// (wrapped) if the limit is exceeded.
func Determinize(a *Automaton, workLimit int) (*Automaton, error) {
	if a.IsDeterministic() {
		return a, nil
	}
	if a.GetNumStates() <= 1 {
		// Already determinized
		return a, nil
	}
	return determinize(a, []int{0}, workLimit)
}

// determinize is the subset construction seeded with the given set of
// initial NFA states (ascending, duplicate-free). Minimize seeds it
// with the reversal's real initial states so the synthetic epsilon
// source added by Reverse stays unreachable and cannot survive as an
// extra DFA state.
func determinize(a *Automaton, initials []int, workLimit int) (*Automaton, error) {
	b := NewBuilder()

	// Hash per the StateSet formula, so that probes with the working
	// set can hit the initial subset.
	initialHash := uint64(len(initials))
	for _, s := range initials {
		initialHash += uint64(mix(s))
	}
	initialSet := NewFrozenIntSet(initials, initialHash, 0)

	// Create state 0:
	b.CreateState()

	worklist := make([]*FrozenIntSet, 0)
	newstate := NewHashMap[int](WithCapacity(4))

	worklist = append(worklist, initialSet)
	initialAccept := false
	for _, s := range initials {
		if a.IsAccept(s) {
			initialAccept = true
			break
		}
	}
	b.SetAccept(0, initialAccept)
	newstate.Set(initialSet, 0)

	newStateUpto := 1

	t := NewTransition()
	statesSet := NewStateSet()
	points := &pointTransitionSet{}

	effortSpent := 0
	effortLimit := workLimit * 10

	for len(worklist) > 0 {
		s := worklist[0]
		worklist = worklist[1:]

		// Collate all outgoing transitions by min/1+max:
		points.reset()
		for _, s0 := range s.GetArray() {
			numTransitions := a.GetNumTransitionsWithState(s0)
			a.InitTransition(s0, t)
			for i := 0; i < numTransitions; i++ {
				a.GetNextTransition(t)
				points.add(t)
			}
			effortSpent += numTransitions
		}

		if points.count == 0 {
			// No outgoing transitions; skip it
			continue
		}

		points.sort()

		lastPoint := -1
		accCount := 0
		r := s.State()

		for i := 0; i < points.count; i++ {
			point := points.points[i].point

			if statesSet.Size() > 0 {
				statesSet.ComputeHash()

				q, ok := newstate.Get(statesSet)
				if !ok {
					q = newStateUpto
					b.CreateState()
					p := statesSet.Freeze(q)
					worklist = append(worklist, p)
					b.SetAccept(q, accCount > 0)
					newstate.Set(p, q)
					newStateUpto++
				}
				b.AddTransition(r, q, lastPoint, point-1)
			}

			// process transitions that end on this point, to remove
			// states from the current set:
			ends := &points.points[i].ends
			for j := 0; j < ends.next; j += 3 {
				dest := ends.transitions[j]
				statesSet.Decr(dest)
				if a.IsAccept(dest) {
					accCount--
				}
			}
			ends.next = 0

			// process transitions that start on this point, to add
			// states to the current set:
			starts := &points.points[i].starts
			for j := 0; j < starts.next; j += 3 {
				dest := starts.transitions[j]
				statesSet.Incr(dest)
				if a.IsAccept(dest) {
					accCount++
				}
			}
			starts.next = 0

			lastPoint = point
		}

		effortSpent += points.count
		if effortSpent >= effortLimit {
			return nil, fmt.Errorf("%w (limit: %d)", ErrTooComplexToDeterminize, workLimit)
		}
	}

	return b.Finish(), nil
}
