package regex

import (
	"strconv"
	"strings"
)

const (
	maxRepeat = 1000
	maxDepth  = 1000
)

// parse turns re into a syntax tree. Every function below takes the index to
// start at and returns the index right after what it consumed.
func parse(re string) (node, error) {
	expr, j, err := parseAlternation(re, 0, 0)
	if err != nil {
		return nil, err
	}
	if j < len(re) {
		// the top-level alternation only stops early on an unmatched ')'
		return nil, newSyntaxError(j, "unexpected ')'", nil)
	}
	return root{expr: expr}, nil
}

// ...|...|...
func parseAlternation(re string, i int, depth int) (node, int, error) {
	if depth > maxDepth {
		return nil, i, newSyntaxError(i, "expression nests too deeply", nil)
	}

	var alts []node
	j := i
	for {
		alt, next, err := parseConcatenation(re, j, depth)
		if err != nil {
			return nil, next, err
		}
		alts = append(alts, alt)
		j = next

		if j < len(re) && re[j] == '|' {
			j++
			continue
		}
		break
	}

	// if we parsed just one, we are not a choice
	if len(alts) == 1 {
		return alts[0], j, nil
	}
	return orRule{alts: alts}, j, nil
}

func parseConcatenation(re string, i int, depth int) (node, int, error) {
	var items []node
	j := i
	for j < len(re) && re[j] != '|' && re[j] != ')' {
		item, next, err := parseRepetition(re, j, depth)
		if err != nil {
			return nil, next, err
		}
		items = append(items, item)
		j = next
	}

	if len(items) == 1 {
		return items[0], j, nil
	}
	return concatenate{items: items}, j, nil
}

func parseRepetition(re string, i int, depth int) (node, int, error) {
	atom, j, err := parseAtom(re, i, depth)
	if err != nil {
		return nil, j, err
	}

	q, next, err := parseQuantifier(re, j)
	if err != nil {
		return nil, next, err
	}
	if q.op == 0 {
		return atom, j, nil
	}
	if next < len(re) && strings.IndexByte("*+?{", re[next]) >= 0 {
		return nil, next, newSyntaxError(next, "invalid nested repetition operator", nil)
	}

	switch q.op {
	case '*', '+':
		return closure{op: q.op, expr: atom}, next, nil
	case '?':
		return option{expr: atom}, next, nil
	}
	if q.exact {
		return repeatMin{n: q.min, expr: atom}, next, nil
	}
	return repeatMinMax{min: q.min, max: q.max, expr: atom}, next, nil
}

func parseAtom(re string, i int, depth int) (node, int, error) {
	switch re[i] {
	case '(':
		expr, j, err := parseAlternation(re, i+1, depth+1)
		if err != nil {
			return nil, j, err
		}
		if j >= len(re) {
			return nil, j, newSyntaxError(j, "unexpected EOS, did not find closing ')'", nil)
		}
		// pop off ')'
		return parenthesis{expr: expr}, j + 1, nil
	case '[':
		return parseBracket(re, i)
	case '.':
		return anyChar{}, i + 1, nil
	case '^':
		return startOfString{}, i + 1, nil
	case '$':
		return endOfString{}, i + 1, nil
	case '\\':
		if i+1 >= len(re) {
			return nil, i, newSyntaxError(i, "unexpected EOS after '\\'", nil)
		}
		return escaped{char: re[i+1]}, i + 2, nil
	case '*', '+', '?', '{':
		return nil, i, newSyntaxError(i, "missing argument to repetition operator", nil)
	}
	return character{char: re[i]}, i + 1, nil
}

type quantifier struct {
	op    byte
	min   int
	max   int
	exact bool
}

// {m,n} and {m,} and {m} and ? and * and +
func parseQuantifier(re string, i int) (quantifier, int, error) {
	if i >= len(re) {
		return quantifier{}, i, nil
	}

	switch re[i] {
	case '+':
		return quantifier{op: '+', min: 1, max: unbounded}, i + 1, nil
	case '?':
		return quantifier{op: '?', min: 0, max: 1}, i + 1, nil
	case '*':
		return quantifier{op: '*', min: 0, max: unbounded}, i + 1, nil
	}

	if re[i] != '{' {
		return quantifier{}, i, nil
	}

	endIdx := strings.IndexByte(re[i:], '}')
	if endIdx == -1 {
		return quantifier{}, i, newSyntaxError(i, "did not find closing '}'", nil)
	}

	// inside '{...}'
	numStrs := strings.SplitN(re[i+1:i+endIdx], ",", 2)

	q := quantifier{op: '{'}
	var err error
	q.min, err = strconv.Atoi(numStrs[0])
	if err != nil {
		return quantifier{}, i, newSyntaxError(i, "failed to convert to number", err)
	}

	switch {
	case len(numStrs) == 1:
		q.max = q.min
		q.exact = true
	case numStrs[1] == "":
		q.max = unbounded
	default:
		q.max, err = strconv.Atoi(numStrs[1])
		if err != nil {
			return quantifier{}, i, newSyntaxError(i, "failed to convert to number", err)
		}
	}

	if q.min < 0 || q.min > maxRepeat || q.max > maxRepeat || (q.max != unbounded && q.max < q.min) {
		return quantifier{}, i, newSyntaxError(i, "invalid repeat count "+re[i:i+endIdx+1], nil)
	}
	return q, i + endIdx + 1, nil
}

// [...] and [^...]
// this doesn't conform to POSIX, as we allow perl character sets, which mandates that '\' is not treated literally
// inside of bracket expressions, make sure to escape '^', '-', ']' and '\'
func parseBracket(re string, i int) (node, int, error) {
	// pop off '['
	j := i + 1

	negate := j < len(re) && re[j] == '^'
	if negate {
		j++
	}

	var items []node
	var q []byte
	flush := func() {
		for _, c := range q {
			items = append(items, singleChar{char: c})
		}
		q = nil
	}

	for j < len(re) && re[j] != ']' {
		switch {
		case re[j] == '[' && j+1 < len(re) && re[j+1] == ':':
			flush()
			name, cons := parsePosixCharSet(re, j)
			if cons == 0 {
				return nil, j, newSyntaxError(j, "invalid POSIX character set", nil)
			}
			items = append(items, posixClass{name: name})
			j += cons
		case re[j] == '\\':
			flush()
			if j+1 >= len(re) {
				return nil, j, newSyntaxError(j, "unexpected EOS after '\\'", nil)
			}
			items = append(items, escaped{char: re[j+1]})
			j += 2
		default:
			q = append(q, re[j])
			j++

			// reduce
			if len(q) == 3 {
				if q[1] == '-' {
					if q[0] > q[2] {
						return nil, j, newSyntaxError(j-3, "invalid character class range", nil)
					}
					items = append(items, charRange{from: q[0], to: q[2]})
					q = nil
				} else {
					items = append(items, singleChar{char: q[0]})
					q = q[1:]
				}
			}
		}
	}

	if j >= len(re) {
		return nil, j, newSyntaxError(j, "unexpected EOS, did not find closing ']'", nil)
	}
	flush()

	if len(items) == 0 {
		return nil, j, newSyntaxError(i, "empty bracket expression", nil)
	}

	// pop off ']'
	return bracket{negate: negate, items: items}, j + 1, nil
}

// [:name:], returns the class name and the number of bytes consumed
func parsePosixCharSet(re string, i int) (string, int) {
	end := strings.Index(re[i:], ":]")
	if end < 2 {
		return "", 0
	}
	name := re[i+2 : i+end]
	switch name {
	case "word", "alnum", "alpha", "ascii", "blank", "cntrl", "digit",
		"graph", "lower", "print", "punct", "space", "upper", "xdigit":
		return name, end + 2
	}
	return "", 0
}
