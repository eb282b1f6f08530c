package regex

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var languagePatterns = []string{
	"",
	"a",
	"ab",
	"a*",
	"x*",
	"a+b*",
	"(a|b)*abb",
	"a{2,4}",
	"a{0}b",
	"(ab){1,3}c?",
	"[ab]{0,2}c{1,}",
	"[^a]b",
	".a.",
	`\w+`,
	"((a|b)c)*",
	"a?b?c?",
	"(a*)*",
	"(a|)+b",
	"^a|b$",
	"(^a)*b",
	"a$|^b",
	"$^",
	"^$",
}

func TestFinalizeAssignsDenseIds(t *testing.T) {
	// when
	n := compileNFA(t, "a|b")

	// then
	if d := cmp.Diff(6, n.numStates()); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
	if n.start != 0 {
		t.Errorf("start should be state 0, got %d", n.start)
	}
	for s, edges := range n.adj {
		for _, e := range edges {
			if e.to < 0 || e.to >= n.numStates() {
				t.Errorf("edge from %d leads to unknown state %d", s, e.to)
			}
		}
	}
}

func TestEpsilonClosure(t *testing.T) {
	n := compileNFA(t, "(a|b)*c")

	for s := 0; s < n.numStates(); s++ {
		set := n.single(s)
		closure := n.epsilonClosure(set, 0)
		if !closure.IsSuperSet(set) {
			t.Errorf("closure of %d does not contain %d", s, s)
		}
		if again := n.epsilonClosure(closure, 0); !again.Equal(closure) {
			t.Errorf("closure of %d is not closed", s)
		}
	}
}

func TestEpsilonClosureCrossesAnchors(t *testing.T) {
	tests := map[string]struct {
		givenRe    string
		givenAllow anchors
		wantEnd    bool
	}{
		"start anchor blocked":   {givenRe: "^", givenAllow: 0, wantEnd: false},
		"start anchor crossed":   {givenRe: "^", givenAllow: crossStart, wantEnd: true},
		"end anchor blocked":     {givenRe: "$", givenAllow: crossStart, wantEnd: false},
		"end anchor crossed":     {givenRe: "$", givenAllow: crossEnd, wantEnd: true},
		"both anchors crossed":   {givenRe: "$^", givenAllow: crossStart | crossEnd, wantEnd: true},
		"plain epsilon is free":  {givenRe: "()", givenAllow: 0, wantEnd: true},
		"consuming edge blocked": {givenRe: "a", givenAllow: crossStart | crossEnd, wantEnd: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// given
			n := compileNFA(t, tt.givenRe)

			// when
			got := n.epsilonClosure(n.single(n.start), tt.givenAllow).Test(uint(n.end))

			// then
			if d := cmp.Diff(tt.wantEnd, got); d != "" {
				t.Errorf("got diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestMove(t *testing.T) {
	n := compileNFA(t, "a[a-c]")
	start := n.epsilonClosure(n.single(n.start), 0)

	if n.move(start, charLabel('a')).None() {
		t.Errorf("moving on 'a' from the start should reach a state")
	}
	if !n.move(start, charLabel('b')).None() {
		t.Errorf("moving on 'b' from the start should reach nothing")
	}

	afterA := n.epsilonClosure(n.move(start, charLabel('a')), 0)
	var bc byteSet
	bc.addRange('b', 'c')
	if n.move(afterA, rangeLabel(bc, false)).None() {
		t.Errorf("[a-c] should cover [bc]")
	}
	if !n.move(afterA, anyLabel).None() {
		t.Errorf("[a-c] should not cover every byte")
	}
}

func TestSubsetConstructionPreservesLanguage(t *testing.T) {
	inputs := allStrings("abc", 5)

	for _, re := range languagePatterns {
		t.Run(re, func(t *testing.T) {
			// given
			n := compileNFA(t, re)

			// when
			d, err := n.subsetConstruction(0)
			if err != nil {
				t.Fatalf("subsetConstruction: %v", err)
			}

			// then
			for _, s := range inputs {
				if want, got := n.matches(s), d.matches(s); want != got {
					t.Errorf("%q on %q: nfa says %v, dfa says %v", re, s, want, got)
				}
			}
		})
	}
}

func TestSubsetConstructionStateLimit(t *testing.T) {
	n := compileNFA(t, "(a|b)*a(a|b){6}")

	_, err := n.subsetConstruction(16)
	if !errors.Is(err, ErrStateLimit) {
		t.Errorf("want ErrStateLimit, got %v", err)
	}

	if _, err := n.subsetConstruction(0); err != nil {
		t.Errorf("without a limit construction should succeed, got %v", err)
	}
}

func TestByteClasses(t *testing.T) {
	// given
	var lower, ab byteSet
	lower.addRange('a', 'z')
	ab.addRange('a', 'b')

	// when
	bc := newByteClasses([]byteSet{lower, ab})

	// then
	got := make([]string, 0, len(bc.labels))
	for _, l := range bc.labels {
		got = append(got, l.String())
	}
	if d := cmp.Diff([]string{"[ab]", "[c-z]"}, got); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
	if _, ok := bc.labelOf('0'); ok {
		t.Errorf("'0' is matched by no label and should have no class")
	}
}
