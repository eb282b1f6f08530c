package regex

import (
	"fmt"
	"strings"
)

// node is a node of the parsed syntax tree. The set of implementations is
// closed; the builder switches over all of them.
type node interface {
	isNode()
}

const unbounded = -1

type (
	root struct {
		expr node
	}

	concatenate struct {
		items []node
	}

	orRule struct {
		alts []node
	}

	// closure is '*' or '+'
	closure struct {
		op   byte
		expr node
	}

	option struct {
		expr node
	}

	// repeatMin is {n}
	repeatMin struct {
		n    int
		expr node
	}

	// repeatMinMax is {min,max}, or {min,} when max is unbounded
	repeatMinMax struct {
		min  int
		max  int
		expr node
	}

	parenthesis struct {
		expr node
	}

	anyChar struct{}

	endOfString struct{}

	startOfString struct{}

	// bracket is [...] or [^...]
	bracket struct {
		negate bool
		items  []node
	}

	singleChar struct {
		char byte
	}

	// escaped is a backslash escape: a perl class (\w, \d, \s and their
	// negations) or an escaped literal.
	escaped struct {
		char byte
	}

	posixClass struct {
		name string
	}

	character struct {
		char byte
	}
)

func (root) isNode()          {}
func (concatenate) isNode()   {}
func (orRule) isNode()        {}
func (closure) isNode()       {}
func (option) isNode()        {}
func (repeatMin) isNode()     {}
func (repeatMinMax) isNode()  {}
func (parenthesis) isNode()   {}
func (anyChar) isNode()       {}
func (endOfString) isNode()   {}
func (startOfString) isNode() {}
func (bracket) isNode()       {}
func (singleChar) isNode()    {}
func (charRange) isNode()     {}
func (escaped) isNode()       {}
func (posixClass) isNode()    {}
func (character) isNode()     {}

// format renders n as an s-expression, used for logging and tests.
func format(n node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n node) {
	list := func(name string, children ...node) {
		b.WriteString("(" + name)
		for _, c := range children {
			b.WriteByte(' ')
			writeNode(b, c)
		}
		b.WriteByte(')')
	}

	switch n := n.(type) {
	case root:
		list("root", n.expr)
	case concatenate:
		list("cat", n.items...)
	case orRule:
		list("or", n.alts...)
	case closure:
		list(string(n.op), n.expr)
	case option:
		list("?", n.expr)
	case repeatMin:
		list(fmt.Sprintf("{%d}", n.n), n.expr)
	case repeatMinMax:
		if n.max == unbounded {
			list(fmt.Sprintf("{%d,}", n.min), n.expr)
		} else {
			list(fmt.Sprintf("{%d,%d}", n.min, n.max), n.expr)
		}
	case parenthesis:
		list("group", n.expr)
	case anyChar:
		b.WriteString(".")
	case endOfString:
		b.WriteString("$")
	case startOfString:
		b.WriteString("^")
	case bracket:
		name := "class"
		if n.negate {
			name = "notclass"
		}
		list(name, n.items...)
	case singleChar:
		b.WriteString(quoteByte(n.char, true))
	case charRange:
		b.WriteString(quoteByte(n.from, true) + "-" + quoteByte(n.to, true))
	case escaped:
		b.WriteString(`\` + string(n.char))
	case posixClass:
		b.WriteString("[:" + n.name + ":]")
	case character:
		b.WriteString(quoteByte(n.char, false))
	default:
		fmt.Fprintf(b, "<%T>", n)
	}
}
