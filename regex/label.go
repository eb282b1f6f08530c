package regex

type labelKind uint8

const (
	labelEpsilon labelKind = iota
	// labelCharSet matches a single literal byte.
	labelCharSet
	// labelCharRange matches any byte in set, or any byte not in set if exclude is set.
	labelCharRange
	labelAnyChar
	labelStartAnchor
	labelEndAnchor
)

// label is an edge label. Labels are compared by value and used as map keys.
type label struct {
	kind    labelKind
	char    byte
	set     byteSet
	exclude bool
}

var (
	epsilonLabel     = label{kind: labelEpsilon}
	anyLabel         = label{kind: labelAnyChar}
	startAnchorLabel = label{kind: labelStartAnchor}
	endAnchorLabel   = label{kind: labelEndAnchor}
)

func charLabel(c byte) label {
	return label{kind: labelCharSet, char: c}
}

func rangeLabel(set byteSet, exclude bool) label {
	return label{kind: labelCharRange, set: set, exclude: exclude}
}

// consumes reports whether the label reads an input byte.
func (l label) consumes() bool {
	switch l.kind {
	case labelCharSet, labelCharRange, labelAnyChar:
		return true
	}
	return false
}

func (l label) isAnchor() bool {
	return l.kind == labelStartAnchor || l.kind == labelEndAnchor
}

func (l label) matches(c byte) bool {
	switch l.kind {
	case labelCharSet:
		return l.char == c
	case labelCharRange:
		return l.set.contains(c) != l.exclude
	case labelAnyChar:
		return true
	}
	return false
}

// bytes returns every byte the label matches.
func (l label) bytes() byteSet {
	var s byteSet
	switch l.kind {
	case labelCharSet:
		s.add(l.char)
	case labelCharRange:
		s = l.set
		if l.exclude {
			s = s.complement()
		}
	case labelAnyChar:
		s = s.complement()
	}
	return s
}

// covers reports whether every input accepted by o is also accepted by l.
// Anchors only cover themselves.
func (l label) covers(o label) bool {
	if !o.consumes() {
		return l == o && o.isAnchor()
	}
	if !l.consumes() {
		return false
	}
	ob := o.bytes()
	return !ob.empty() && ob.minus(l.bytes()).empty()
}

func (l label) String() string {
	switch l.kind {
	case labelEpsilon:
		return "ε"
	case labelCharSet:
		return quoteByte(l.char, false)
	case labelCharRange:
		if l.exclude {
			s := l.set.String()
			if s[0] != '[' {
				s = "[" + s + "]"
			}
			return "[^" + s[1:]
		}
		return l.set.String()
	case labelAnyChar:
		return "."
	case labelStartAnchor:
		return "^"
	case labelEndAnchor:
		return "$"
	}
	return "?"
}
