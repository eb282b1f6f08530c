package regex

import (
	"math/bits"
	"strings"
)

// byteSet is a set of bytes. It is an array so that it stays comparable and
// can be part of a map key.
type byteSet [4]uint64

func (s *byteSet) add(c byte) {
	s[c>>6] |= 1 << (c & 63)
}

func (s *byteSet) addRange(from, to byte) {
	for c := int(from); c <= int(to); c++ {
		s.add(byte(c))
	}
}

func (s *byteSet) addRanges(ranges []charRange) {
	for _, r := range ranges {
		s.addRange(r.from, r.to)
	}
}

func (s byteSet) contains(c byte) bool {
	return s[c>>6]&(1<<(c&63)) != 0
}

func (s byteSet) union(o byteSet) byteSet {
	for i := range s {
		s[i] |= o[i]
	}
	return s
}

func (s byteSet) minus(o byteSet) byteSet {
	for i := range s {
		s[i] &^= o[i]
	}
	return s
}

func (s byteSet) complement() byteSet {
	for i := range s {
		s[i] = ^s[i]
	}
	return s
}

func (s byteSet) empty() bool {
	return s == byteSet{}
}

func (s byteSet) len() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// first returns the smallest byte in s. s must not be empty.
func (s byteSet) first() byte {
	for i, w := range s {
		if w != 0 {
			return byte(i*64 + bits.TrailingZeros64(w))
		}
	}
	return 0
}

// ranges returns s as a sorted list of maximal ranges.
func (s byteSet) ranges() []charRange {
	var out []charRange
	for c := 0; c < 256; c++ {
		if !s.contains(byte(c)) {
			continue
		}
		from := c
		for c+1 < 256 && s.contains(byte(c+1)) {
			c++
		}
		out = append(out, charRange{from: byte(from), to: byte(c)})
	}
	return out
}

func (s byteSet) String() string {
	if s.len() == 1 {
		return quoteByte(s.first(), false)
	}
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range s.ranges() {
		b.WriteString(quoteByte(r.from, true))
		if r.to > r.from {
			if r.to > r.from+1 {
				b.WriteByte('-')
			}
			b.WriteString(quoteByte(r.to, true))
		}
	}
	b.WriteByte(']')
	return b.String()
}

func quoteByte(c byte, inBracket bool) string {
	switch c {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '\f':
		return `\f`
	case '\v':
		return `\v`
	}
	if c < 0x20 || c >= 0x7f {
		const hex = "0123456789abcdef"
		return `\x` + string([]byte{hex[c>>4], hex[c&0xf]})
	}
	meta := `\.+*?()|[]{}^$`
	if inBracket {
		meta = `\]^-[`
	}
	if strings.IndexByte(meta, c) >= 0 {
		return `\` + string(c)
	}
	return string(c)
}

type charRange struct {
	from byte
	to   byte
}

// classTable resolves the named character classes (perl escapes and POSIX
// bracket classes) to byte sets.
type classTable struct {
	perl  map[byte]byteSet
	posix map[string]byteSet
}

func newClassTable() classTable {
	set := func(ranges ...charRange) byteSet {
		var s byteSet
		s.addRanges(ranges)
		return s
	}

	word := set(
		charRange{from: 'a', to: 'z'},
		charRange{from: 'A', to: 'Z'},
		charRange{from: '0', to: '9'},
		charRange{from: '_', to: '_'},
	)
	digit := set(charRange{from: '0', to: '9'})
	space := set(
		charRange{from: ' ', to: ' '},
		charRange{from: '\t', to: '\t'},
		charRange{from: '\r', to: '\r'},
		charRange{from: '\n', to: '\n'},
		charRange{from: '\v', to: '\v'},
		charRange{from: '\f', to: '\f'},
	)

	var punct byteSet
	for _, c := range []byte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~") {
		punct.add(c)
	}

	return classTable{
		perl: map[byte]byteSet{
			'w': word,
			'W': word.complement(),
			'd': digit,
			'D': digit.complement(),
			's': space,
			'S': space.complement(),
		},
		posix: map[string]byteSet{
			"word":  word,
			"alnum": set(charRange{from: 'a', to: 'z'}, charRange{from: 'A', to: 'Z'}, charRange{from: '0', to: '9'}),
			"alpha": set(charRange{from: 'a', to: 'z'}, charRange{from: 'A', to: 'Z'}),
			"ascii": set(charRange{from: 0x0, to: 0x7f}),
			"blank": set(charRange{from: ' ', to: ' '}, charRange{from: '\t', to: '\t'}),
			"cntrl": set(charRange{from: 0x0, to: 0x1f}, charRange{from: 0x7f, to: 0x7f}),
			"digit": digit,
			"graph": set(charRange{from: 0x21, to: 0x7e}),
			"lower": set(charRange{from: 'a', to: 'z'}),
			"print": set(charRange{from: 0x20, to: 0x7e}),
			"punct": punct,
			"space": space,
			"upper": set(charRange{from: 'A', to: 'Z'}),
			"xdigit": set(
				charRange{from: 'A', to: 'F'},
				charRange{from: 'a', to: 'f'},
				charRange{from: '0', to: '9'},
			),
		},
	}
}

// parse an ASCII escape sequence from c if there is one (e.g. '\t', '\n', ...)
// if c isn't an ASCII escape sequence, return c
// should be called if the character preceding c in the input string is '\'
// https://en.wikipedia.org/wiki/Escape_sequences_in_C
func escapedChar(c byte) byte {
	switch c {
	case 'a':
		return '\a'
	case 'b':
		return '\b'
	case 'e':
		return 0x1b
	case 'f':
		return '\f'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'v':
		return '\v'
	}
	return c
}
