package regex

type edge struct {
	to  int
	lbl label
}

// arena owns every state created while building one automaton. States are
// indices into edges; final dense ids are only assigned by finalize.
type arena struct {
	edges [][]edge
}

func (a *arena) newState() int {
	a.edges = append(a.edges, nil)
	return len(a.edges) - 1
}

func (a *arena) connect(from, to int, l label) {
	a.edges[from] = append(a.edges[from], edge{to: to, lbl: l})
}

// fragment is a piece of an NFA with exactly one start and one end state.
// states lists every state the fragment owns.
type fragment struct {
	start  int
	end    int
	states []int
}

// pair allocates a fresh start/end pair without any edges.
func (a *arena) pair() fragment {
	s, e := a.newState(), a.newState()
	return fragment{start: s, end: e, states: []int{s, e}}
}

// charset is the base case: start --l--> end.
func (a *arena) charset(l label) fragment {
	x := a.pair()
	a.connect(x.start, x.end, l)
	return x
}

func (a *arena) epsilon() fragment {
	return a.charset(epsilonLabel)
}

// concat wires f.end to g.start. Both fragments are consumed: the result
// reuses f's state list, so neither f nor g may be used afterwards.
func (a *arena) concat(f, g fragment) fragment {
	a.connect(f.end, g.start, epsilonLabel)
	f.states = append(f.states, g.states...)
	f.end = g.end
	return f
}

// star is zero or more repetitions of f.
func (a *arena) star(f fragment) fragment {
	x := a.wrap(f)
	a.connect(x.start, x.end, epsilonLabel)
	a.connect(x.end, x.start, epsilonLabel)
	return x
}

// plus is one or more repetitions of f.
func (a *arena) plus(f fragment) fragment {
	x := a.wrap(f)
	a.connect(x.end, x.start, epsilonLabel)
	return x
}

func (a *arena) optional(f fragment) fragment {
	x := a.wrap(f)
	a.connect(x.start, x.end, epsilonLabel)
	return x
}

func (a *arena) orRule(f, g fragment) fragment {
	x := a.pair()
	a.connect(x.start, f.start, epsilonLabel)
	a.connect(x.start, g.start, epsilonLabel)
	a.connect(f.end, x.end, epsilonLabel)
	a.connect(g.end, x.end, epsilonLabel)
	x.states = append(x.states, f.states...)
	x.states = append(x.states, g.states...)
	return x
}

// wrap puts f between a fresh start/end pair.
func (a *arena) wrap(f fragment) fragment {
	x := a.pair()
	a.connect(x.start, f.start, epsilonLabel)
	a.connect(f.end, x.end, epsilonLabel)
	x.states = append(x.states, f.states...)
	return x
}

// clone deep copies f onto fresh states. f must not be wired to anything
// outside of itself yet.
func (a *arena) clone(f fragment) fragment {
	remap := make(map[int]int, len(f.states))
	states := make([]int, len(f.states))
	for i, s := range f.states {
		states[i] = a.newState()
		remap[s] = states[i]
	}
	for _, s := range f.states {
		for _, e := range a.edges[s] {
			to, ok := remap[e.to]
			if !ok {
				to = e.to
			}
			a.connect(remap[s], to, e.lbl)
		}
	}
	return fragment{start: remap[f.start], end: remap[f.end], states: states}
}

// repeat matches between min and max copies of f, or at least min copies if
// max is unbounded. f is consumed.
func (a *arena) repeat(f fragment, min, max int) fragment {
	if max == 0 {
		return a.epsilon()
	}

	copies := max
	if max == unbounded {
		copies = min + 1
	}

	// all copies are taken before f is wired to anything
	pieces := make([]fragment, copies)
	pieces[0] = f
	for i := 1; i < copies; i++ {
		pieces[i] = a.clone(f)
	}

	var out fragment
	have := false
	add := func(g fragment) {
		if !have {
			out, have = g, true
			return
		}
		out = a.concat(out, g)
	}

	for _, p := range pieces[:min] {
		add(p)
	}

	if max == unbounded {
		add(a.star(pieces[min]))
		return out
	}

	// optional tail: (p (p (p)?)?)? so that copy k+1 is only reachable
	// after copy k has been matched
	extra := pieces[min:]
	if len(extra) > 0 {
		tail := a.optional(extra[len(extra)-1])
		for k := len(extra) - 2; k >= 0; k-- {
			tail = a.optional(a.concat(extra[k], tail))
		}
		add(tail)
	}
	return out
}
