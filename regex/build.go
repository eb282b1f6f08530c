package regex

// builder translates a syntax tree into an NFA fragment.
type builder struct {
	arena   arena
	classes classTable
}

func newBuilder() *builder {
	return &builder{classes: newClassTable()}
}

func (b *builder) build(n node) (fragment, error) {
	a := &b.arena

	switch n := n.(type) {
	case root:
		return b.build(n.expr)
	case parenthesis:
		return b.build(n.expr)
	case concatenate:
		if len(n.items) == 0 {
			return a.epsilon(), nil
		}
		var out fragment
		for i, item := range n.items {
			f, err := b.build(item)
			if err != nil {
				return fragment{}, err
			}
			if i == 0 {
				out = f
			} else {
				out = a.concat(out, f)
			}
		}
		return out, nil
	case orRule:
		if len(n.alts) == 0 {
			return fragment{}, malformed(n, "no alternatives")
		}
		out, err := b.build(n.alts[0])
		if err != nil {
			return fragment{}, err
		}
		for _, alt := range n.alts[1:] {
			f, err := b.build(alt)
			if err != nil {
				return fragment{}, err
			}
			out = a.orRule(out, f)
		}
		return out, nil
	case closure:
		f, err := b.build(n.expr)
		if err != nil {
			return fragment{}, err
		}
		switch n.op {
		case '*':
			return a.star(f), nil
		case '+':
			return a.plus(f), nil
		}
		return fragment{}, malformed(n, "unknown closure operator "+string(n.op))
	case option:
		f, err := b.build(n.expr)
		if err != nil {
			return fragment{}, err
		}
		return a.optional(f), nil
	case repeatMin:
		if n.n < 0 {
			return fragment{}, malformed(n, "negative repeat count")
		}
		f, err := b.build(n.expr)
		if err != nil {
			return fragment{}, err
		}
		return a.repeat(f, n.n, n.n), nil
	case repeatMinMax:
		if n.min < 0 || (n.max != unbounded && n.max < n.min) {
			return fragment{}, malformed(n, "invalid repeat bounds")
		}
		f, err := b.build(n.expr)
		if err != nil {
			return fragment{}, err
		}
		return a.repeat(f, n.min, n.max), nil
	case anyChar:
		return a.charset(anyLabel), nil
	case startOfString:
		return a.charset(startAnchorLabel), nil
	case endOfString:
		return a.charset(endAnchorLabel), nil
	case character:
		return a.charset(charLabel(n.char)), nil
	case escaped:
		if set, ok := b.classes.perl[n.char]; ok {
			return a.charset(rangeLabel(set, false)), nil
		}
		return a.charset(charLabel(escapedChar(n.char))), nil
	case bracket:
		var set byteSet
		for _, item := range n.items {
			s, err := b.itemSet(item)
			if err != nil {
				return fragment{}, err
			}
			set = set.union(s)
		}
		return a.charset(rangeLabel(set, n.negate)), nil
	}
	return fragment{}, malformed(n, "unexpected node")
}

// itemSet resolves one element of a bracket expression.
func (b *builder) itemSet(n node) (byteSet, error) {
	var s byteSet
	switch n := n.(type) {
	case singleChar:
		s.add(n.char)
	case charRange:
		if n.from > n.to {
			return s, malformed(n, "inverted range")
		}
		s.addRange(n.from, n.to)
	case escaped:
		if set, ok := b.classes.perl[n.char]; ok {
			return set, nil
		}
		s.add(escapedChar(n.char))
	case posixClass:
		set, ok := b.classes.posix[n.name]
		if !ok {
			return s, malformed(n, "unknown class "+n.name)
		}
		return set, nil
	default:
		return s, malformed(n, "not a bracket item")
	}
	return s, nil
}
