package regex

import (
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// anchors selects which anchor edges an epsilon closure may cross. '^' can
// only be crossed at the start of the input and '$' only at its end.
type anchors uint8

const (
	crossStart anchors = 1 << iota
	crossEnd
)

func (a anchors) crosses(l label) bool {
	switch l.kind {
	case labelEpsilon:
		return true
	case labelStartAnchor:
		return a&crossStart != 0
	case labelEndAnchor:
		return a&crossEnd != 0
	}
	return false
}

type nfa struct {
	start int
	end   int
	// adj[id] lists the outgoing edges of state id
	adj [][]edge
	// closures caches the plain epsilon closure of every single state
	closures []*bitset.BitSet

	hasStartAnchor bool
}

// finalize assigns dense ids to every state reachable from f.start in
// breadth first order and builds the adjacency list.
func finalize(a *arena, f fragment) *nfa {
	ids := make(map[int]int, len(f.states))
	ids[f.start] = 0
	order := []int{f.start}
	for k := 0; k < len(order); k++ {
		for _, e := range a.edges[order[k]] {
			if _, ok := ids[e.to]; !ok {
				ids[e.to] = len(order)
				order = append(order, e.to)
			}
		}
	}
	if _, ok := ids[f.end]; !ok {
		ids[f.end] = len(order)
		order = append(order, f.end)
	}

	n := &nfa{
		start:    0,
		end:      ids[f.end],
		adj:      make([][]edge, len(order)),
		closures: make([]*bitset.BitSet, len(order)),
	}
	for id, s := range order {
		for _, e := range a.edges[s] {
			n.adj[id] = append(n.adj[id], edge{to: ids[e.to], lbl: e.lbl})
			if e.lbl.kind == labelStartAnchor {
				n.hasStartAnchor = true
			}
		}
	}
	return n
}

func (n *nfa) numStates() int {
	return len(n.adj)
}

func (n *nfa) newSet() *bitset.BitSet {
	return bitset.New(uint(len(n.adj)))
}

func (n *nfa) single(s int) *bitset.BitSet {
	return n.newSet().Set(uint(s))
}

func (n *nfa) closureOf(s int) *bitset.BitSet {
	if c := n.closures[s]; c != nil {
		return c
	}

	c := n.single(s)
	stack := []int{s}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range n.adj[x] {
			if e.lbl.kind == labelEpsilon && !c.Test(uint(e.to)) {
				c.Set(uint(e.to))
				stack = append(stack, e.to)
			}
		}
	}
	n.closures[s] = c
	return c
}

// epsilonClosure returns every state reachable from set without consuming
// input, including set itself.
func (n *nfa) epsilonClosure(set *bitset.BitSet, allow anchors) *bitset.BitSet {
	out := n.newSet()
	for s, ok := set.NextSet(0); ok; s, ok = set.NextSet(s + 1) {
		out.InPlaceUnion(n.closureOf(int(s)))
	}
	if allow == 0 {
		return out
	}

	for changed := true; changed; {
		changed = false
		for s, ok := out.NextSet(0); ok; s, ok = out.NextSet(s + 1) {
			for _, e := range n.adj[s] {
				if e.lbl.isAnchor() && allow.crosses(e.lbl) && !out.Test(uint(e.to)) {
					out.InPlaceUnion(n.closureOf(e.to))
					changed = true
				}
			}
		}
	}
	return out
}

// move returns the states reachable from set over one edge whose label
// covers l.
func (n *nfa) move(set *bitset.BitSet, l label) *bitset.BitSet {
	out := n.newSet()
	for s, ok := set.NextSet(0); ok; s, ok = set.NextSet(s + 1) {
		for _, e := range n.adj[s] {
			if e.lbl.covers(l) {
				out.Set(uint(e.to))
			}
		}
	}
	return out
}

// step returns the states reachable from set by consuming c.
func (n *nfa) step(set *bitset.BitSet, c byte) *bitset.BitSet {
	out := n.newSet()
	for s, ok := set.NextSet(0); ok; s, ok = set.NextSet(s + 1) {
		for _, e := range n.adj[s] {
			if e.lbl.matches(c) {
				out.Set(uint(e.to))
			}
		}
	}
	return out
}

// matches simulates the NFA on the whole of s.
func (n *nfa) matches(s string) bool {
	cur := n.epsilonClosure(n.single(n.start), crossStart)
	for i := 0; i < len(s); i++ {
		cur = n.epsilonClosure(n.step(cur, s[i]), 0)
		if cur.None() {
			return false
		}
	}

	allow := crossEnd
	if len(s) == 0 {
		allow |= crossStart
	}
	return n.epsilonClosure(cur, allow).Test(uint(n.end))
}

// alphabet returns the byte sets of all distinct consuming labels.
func (n *nfa) alphabet() []byteSet {
	seen := map[byteSet]bool{}
	var sets []byteSet
	for _, edges := range n.adj {
		for _, e := range edges {
			if !e.lbl.consumes() {
				continue
			}
			s := e.lbl.bytes()
			if !s.empty() && !seen[s] {
				seen[s] = true
				sets = append(sets, s)
			}
		}
	}
	return sets
}

type subsetKey struct {
	set     string
	atStart bool
}

// subsetConstruction determinizes the NFA. DFA states are keyed by their set
// of NFA states; the initial state is kept apart from the others when the
// pattern contains '^' because only it may cross start anchors when the
// input turns out to be empty.
func (n *nfa) subsetConstruction(limit int) (*dfa, error) {
	classes := newByteClasses(n.alphabet())
	d := &dfa{
		transition: make(map[transKey]int),
		classes:    classes,
	}

	ids := make(map[subsetKey]int)
	var sets []*bitset.BitSet
	add := func(set *bitset.BitSet, atStart bool) (int, error) {
		atStart = atStart && n.hasStartAnchor
		k := subsetKey{set: setKey(set), atStart: atStart}
		if id, ok := ids[k]; ok {
			return id, nil
		}
		if limit > 0 && len(sets) >= limit {
			return 0, fmt.Errorf("%w: more than %d states", ErrStateLimit, limit)
		}

		id := len(sets)
		ids[k] = id
		sets = append(sets, set)

		allow := crossEnd
		if atStart {
			allow |= crossStart
		}
		d.end = append(d.end, n.epsilonClosure(set, allow).Test(uint(n.end)))
		d.inner = append(d.inner, set.Test(uint(n.end)))
		return id, nil
	}

	initial := n.single(n.start)
	var err error
	if d.start, err = add(n.epsilonClosure(initial, crossStart), true); err != nil {
		return nil, err
	}
	if d.innerStart, err = add(n.epsilonClosure(initial, 0), false); err != nil {
		return nil, err
	}

	// sets grows while we walk it, which makes this a breadth first worklist
	for id := 0; id < len(sets); id++ {
		for _, l := range classes.labels {
			moved := n.move(sets[id], l)
			if moved.None() {
				continue
			}
			next, err := add(n.epsilonClosure(moved, 0), false)
			if err != nil {
				return nil, err
			}
			d.transition[transKey{state: id, lbl: l}] = next
		}
	}

	d.numStates = len(sets)
	return d, nil
}

func setKey(s *bitset.BitSet) string {
	var buf []byte
	for i, ok := s.NextSet(0); ok; i, ok = s.NextSet(i + 1) {
		buf = binary.AppendUvarint(buf, uint64(i))
	}
	return string(buf)
}

// byteClasses partitions the bytes into classes that no label of the NFA
// can tell apart. Each class becomes one symbol of the DFA alphabet.
type byteClasses struct {
	// of maps a byte to its class, or -1 if no label matches it
	of     [256]int
	labels []label
}

func newByteClasses(sets []byteSet) *byteClasses {
	var part [256]int
	var covered byteSet
	for _, s := range sets {
		covered = covered.union(s)

		split := make(map[[2]int]int)
		var next [256]int
		for c := 0; c < 256; c++ {
			in := 0
			if s.contains(byte(c)) {
				in = 1
			}
			k := [2]int{part[c], in}
			id, ok := split[k]
			if !ok {
				id = len(split)
				split[k] = id
			}
			next[c] = id
		}
		part = next
	}

	bc := &byteClasses{}
	ids := make(map[int]int)
	var members []byteSet
	for c := 0; c < 256; c++ {
		if !covered.contains(byte(c)) {
			bc.of[c] = -1
			continue
		}
		id, ok := ids[part[c]]
		if !ok {
			id = len(members)
			ids[part[c]] = id
			members = append(members, byteSet{})
		}
		members[id].add(byte(c))
		bc.of[c] = id
	}
	for _, m := range members {
		bc.labels = append(bc.labels, rangeLabel(m, false))
	}
	return bc
}

func (bc *byteClasses) labelOf(c byte) (label, bool) {
	id := bc.of[c]
	if id < 0 {
		return label{}, false
	}
	return bc.labels[id], true
}
