package regex

type transKey struct {
	state int
	lbl   label
}

// dfa is a deterministic automaton over byte classes. States are 0..numStates-1.
//
// There are two starts and two accept sets because '^' and '$' depend on the
// position in the input: start and end are used at the real boundaries of the
// input, innerStart and inner when a search starts after offset 0 or a match
// ends before the end of the input. For a pattern without anchors the two
// pairs agree.
type dfa struct {
	start      int
	innerStart int
	end        []bool
	inner      []bool
	transition map[transKey]int
	classes    *byteClasses
	numStates  int
}

func (d *dfa) next(state int, c byte) (int, bool) {
	l, ok := d.classes.labelOf(c)
	if !ok {
		return 0, false
	}
	next, ok := d.transition[transKey{state: state, lbl: l}]
	return next, ok
}

// matches reports whether the whole of s is accepted.
func (d *dfa) matches(s string) bool {
	state := d.start
	for i := 0; i < len(s); i++ {
		next, ok := d.next(state, s[i])
		if !ok {
			return false
		}
		state = next
	}
	return d.end[state]
}

func (d *dfa) accepts(state int, atEnd bool) bool {
	if atEnd {
		return d.end[state]
	}
	return d.inner[state]
}

// longestAt returns the end of the longest match that starts at i, or -1.
func (d *dfa) longestAt(s string, i int) int {
	state := d.innerStart
	if i == 0 {
		state = d.start
	}

	last := -1
	if d.accepts(state, i == len(s)) {
		last = i
	}
	for j := i; j < len(s); j++ {
		next, ok := d.next(state, s[j])
		if !ok {
			break
		}
		state = next
		if d.accepts(state, j+1 == len(s)) {
			last = j + 1
		}
	}
	return last
}

// find returns the leftmost-longest match at or after pos.
func (d *dfa) find(s string, pos int) (int, int) {
	for i := pos; i <= len(s); i++ {
		if end := d.longestAt(s, i); end >= 0 {
			return i, end
		}
	}
	return -1, -1
}

func (d *dfa) accepting() []int {
	var out []int
	for s, ok := range d.end {
		if ok {
			out = append(out, s)
		}
	}
	return out
}
