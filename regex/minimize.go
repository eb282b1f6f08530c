package regex

import "github.com/bits-and-blooms/bitset"

type acceptance struct {
	end   bool
	inner bool
}

// minimize merges indistinguishable states using the table-filling
// algorithm. A synthetic dead state stands in for every missing transition
// so that the transition function is total. The input is left untouched.
//
// Class ids follow the order in which states are first seen, so the result
// is deterministic but not a canonical labeling.
func minimize(d *dfa, removeDead bool) *dfa {
	n := d.numStates
	dead := n
	size := n + 1
	alphabet := d.classes.labels

	next := func(s int, l label) int {
		if s == dead {
			return dead
		}
		if t, ok := d.transition[transKey{state: s, lbl: l}]; ok {
			return t
		}
		return dead
	}
	accept := func(s int) acceptance {
		if s == dead {
			return acceptance{}
		}
		return acceptance{end: d.end[s], inner: d.inner[s]}
	}

	// marked holds the distinguishable pairs (p, q) with p < q
	marked := bitset.New(uint(size * size))
	idx := func(p, q int) uint {
		if p > q {
			p, q = q, p
		}
		return uint(p*size + q)
	}

	for p := 0; p < size; p++ {
		for q := p + 1; q < size; q++ {
			if accept(p) != accept(q) {
				marked.Set(idx(p, q))
			}
		}
	}

	for changed := true; changed; {
		changed = false
		for p := 0; p < size; p++ {
			for q := p + 1; q < size; q++ {
				if marked.Test(idx(p, q)) {
					continue
				}
				for _, l := range alphabet {
					a, b := next(p, l), next(q, l)
					if a != b && marked.Test(idx(a, b)) {
						marked.Set(idx(p, q))
						changed = true
						break
					}
				}
			}
		}
	}

	sets := newDisjointSet(size)
	for p := 0; p < size; p++ {
		for q := p + 1; q < size; q++ {
			if !marked.Test(idx(p, q)) {
				sets.union(p, q)
			}
		}
	}

	class := make([]int, n)
	classOf := make(map[int]int)
	for s := 0; s < n; s++ {
		rep := sets.find(s)
		c, ok := classOf[rep]
		if !ok {
			c = len(classOf)
			classOf[rep] = c
		}
		class[s] = c
	}
	deadClass := -1
	if c, ok := classOf[sets.find(dead)]; ok {
		deadClass = c
	}

	out := &dfa{
		start:      class[d.start],
		innerStart: class[d.innerStart],
		end:        make([]bool, len(classOf)),
		inner:      make([]bool, len(classOf)),
		transition: make(map[transKey]int),
		classes:    d.classes,
		numStates:  len(classOf),
	}
	for s := 0; s < n; s++ {
		c := class[s]
		out.end[c] = d.end[s]
		out.inner[c] = d.inner[s]
		for _, l := range alphabet {
			if t, ok := d.transition[transKey{state: s, lbl: l}]; ok {
				out.transition[transKey{state: c, lbl: l}] = class[t]
			}
		}
	}

	if removeDead {
		return removeDeadStates(out, deadClass)
	}
	return out
}

// removeDeadStates drops the class equivalent to the dead state and every
// non-accepting class without a transition to another class. Start classes
// are always kept, but transitions into removed classes are not.
func removeDeadStates(d *dfa, deadClass int) *dfa {
	keep := make([]bool, d.numStates)
	for c := range keep {
		switch {
		case c == d.start || c == d.innerStart:
			keep[c] = true
		case c == deadClass:
			keep[c] = false
		case d.end[c] || d.inner[c]:
			keep[c] = true
		default:
			for _, l := range d.classes.labels {
				if t, ok := d.transition[transKey{state: c, lbl: l}]; ok && t != c {
					keep[c] = true
					break
				}
			}
		}
	}

	id := make([]int, d.numStates)
	count := 0
	for c, ok := range keep {
		id[c] = -1
		if ok {
			id[c] = count
			count++
		}
	}

	out := &dfa{
		start:      id[d.start],
		innerStart: id[d.innerStart],
		end:        make([]bool, count),
		inner:      make([]bool, count),
		transition: make(map[transKey]int),
		classes:    d.classes,
		numStates:  count,
	}
	for c, ok := range keep {
		if !ok {
			continue
		}
		out.end[id[c]] = d.end[c]
		out.inner[id[c]] = d.inner[c]
	}
	for k, t := range d.transition {
		if !keep[k.state] || !keep[t] || t == deadClass {
			continue
		}
		out.transition[transKey{state: id[k.state], lbl: k.lbl}] = id[t]
	}
	return out
}

// disjointSet is a union-find over 0..n-1. The smaller element of a union
// becomes the root.
type disjointSet struct {
	parent []int
}

func newDisjointSet(n int) *disjointSet {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &disjointSet{parent: parent}
}

func (u *disjointSet) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *disjointSet) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	switch {
	case ra < rb:
		u.parent[rb] = ra
	case rb < ra:
		u.parent[ra] = rb
	}
}
