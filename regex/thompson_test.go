package regex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// compileNFA runs the parser and the builder on re.
func compileNFA(t *testing.T, re string) *nfa {
	t.Helper()
	ast, err := parse(re)
	if err != nil {
		t.Fatalf("parse(%q): %v", re, err)
	}
	b := newBuilder()
	f, err := b.build(ast)
	if err != nil {
		t.Fatalf("build(%q): %v", re, err)
	}
	return finalize(&b.arena, f)
}

// allStrings lists every string over alphabet of length at most maxLen.
func allStrings(alphabet string, maxLen int) []string {
	out := []string{""}
	last := []string{""}
	for n := 0; n < maxLen; n++ {
		var next []string
		for _, s := range last {
			for i := 0; i < len(alphabet); i++ {
				next = append(next, s+alphabet[i:i+1])
			}
		}
		out = append(out, next...)
		last = next
	}
	return out
}

func TestRepeat(t *testing.T) {
	tests := map[string]struct {
		givenMin int
		givenMax int
	}{
		"zero":           {givenMin: 0, givenMax: 0},
		"optional":       {givenMin: 0, givenMax: 1},
		"exactly one":    {givenMin: 1, givenMax: 1},
		"exactly three":  {givenMin: 3, givenMax: 3},
		"bounded":        {givenMin: 2, givenMax: 4},
		"up to three":    {givenMin: 0, givenMax: 3},
		"star":           {givenMin: 0, givenMax: unbounded},
		"plus":           {givenMin: 1, givenMax: unbounded},
		"at least three": {givenMin: 3, givenMax: unbounded},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			var a arena
			f := a.repeat(a.charset(charLabel('a')), tt.givenMin, tt.givenMax)
			n := finalize(&a, f)

			// then
			for k := 0; k <= 6; k++ {
				s := ""
				for range k {
					s += "a"
				}
				want := k >= tt.givenMin && (tt.givenMax == unbounded || k <= tt.givenMax)
				if got := n.matches(s); got != want {
					t.Errorf("{%d,%d} on %q: want %v, got %v", tt.givenMin, tt.givenMax, s, want, got)
				}
			}
		})
	}
}

func TestStarAndPlus(t *testing.T) {
	var a arena
	star := finalize(&a, a.star(a.charset(charLabel('a'))))
	plus := finalize(&a, a.plus(a.charset(charLabel('a'))))

	if !star.matches("") {
		t.Errorf("star should accept the empty string")
	}
	if plus.matches("") {
		t.Errorf("plus should not accept the empty string")
	}
	for _, s := range allStrings("ab", 4) {
		if plus.matches(s) && !star.matches(s) {
			t.Errorf("plus accepts %q but star does not", s)
		}
	}
}

func TestOrRuleIsCommutative(t *testing.T) {
	var a arena
	left := finalize(&a, a.orRule(a.charset(charLabel('a')), a.concat(a.charset(charLabel('b')), a.charset(charLabel('c')))))
	right := finalize(&a, a.orRule(a.concat(a.charset(charLabel('b')), a.charset(charLabel('c'))), a.charset(charLabel('a'))))

	for _, s := range allStrings("abc", 3) {
		if left.matches(s) != right.matches(s) {
			t.Errorf("alternation order changes result on %q", s)
		}
	}
}

func TestCloneUsesFreshStates(t *testing.T) {
	// given
	var a arena
	f := a.concat(a.charset(charLabel('a')), a.star(a.charset(charLabel('b'))))

	// when
	g := a.clone(f)

	// then
	owned := make(map[int]bool)
	for _, s := range f.states {
		owned[s] = true
	}
	cloned := make(map[int]bool)
	for _, s := range g.states {
		if owned[s] {
			t.Fatalf("clone reuses state %d", s)
		}
		cloned[s] = true
	}
	for _, s := range g.states {
		for _, e := range a.edges[s] {
			if !cloned[e.to] {
				t.Errorf("cloned state %d points outside the clone to %d", s, e.to)
			}
		}
	}
	if d := cmp.Diff(len(f.states), len(g.states)); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}

	original, copied := finalize(&a, f), finalize(&a, g)
	for _, s := range allStrings("ab", 4) {
		if original.matches(s) != copied.matches(s) {
			t.Errorf("clone changes result on %q", s)
		}
	}
}

func TestBuildRejectsMalformedTree(t *testing.T) {
	tests := map[string]node{
		"bracket with any char":  root{expr: bracket{items: []node{anyChar{}}}},
		"empty alternation":      root{expr: orRule{}},
		"unknown closure":        closure{op: '!', expr: character{char: 'a'}},
		"inverted repeat bounds": repeatMinMax{min: 3, max: 1, expr: character{char: 'a'}},
		"unknown posix class":    bracket{items: []node{posixClass{name: "foo"}}},
		"nil node":               concatenate{items: []node{nil}},
	}

	for name, given := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			_, err := newBuilder().build(given)

			// then
			if _, ok := err.(*MalformedASTError); !ok {
				t.Errorf("want *MalformedASTError, got %v", err)
			}
		})
	}
}
