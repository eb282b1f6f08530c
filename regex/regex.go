package regex

// missing and I want to add:
// potentially: unicode support (everything operates on bytes right now)
// potentially: multiline mode for ^ and $
// potentially: lazy DFA construction for patterns that blow up during subset construction

import (
	"fmt"
	"strings"
	"unicode"
)

// Regex is a pattern compiled all the way down to a (by default minimal)
// deterministic automaton. It is immutable and safe for concurrent use.
type Regex struct {
	expr  string
	dfa   *dfa
	stats Stats
}

// Stats describes the size of the automata built for a pattern.
type Stats struct {
	NFAStates       int
	DFAStates       int
	MinimizedStates int
	ByteClasses     int
}

func Compile(re string) (*Regex, error) {
	return CompileConfig(re, DefaultConfig())
}

func MustCompile(re string) *Regex {
	r, err := Compile(re)
	if err != nil {
		panic(err)
	}
	return r
}

func CompileConfig(re string, cfg Config) (*Regex, error) {
	log := cfg.logger().With("pattern", re)

	ast, err := parse(re)
	if err != nil {
		return nil, fmt.Errorf("failed to construct regex from %q: %w", re, err)
	}
	log.Debug("parsed pattern", "ast", format(ast))

	b := newBuilder()
	frag, err := b.build(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build automaton for %q: %w", re, err)
	}
	n := finalize(&b.arena, frag)
	log.Debug("built nfa", "states", n.numStates())

	d, err := n.subsetConstruction(cfg.MaxStates)
	if err != nil {
		return nil, fmt.Errorf("failed to determinize %q: %w", re, err)
	}
	stats := Stats{
		NFAStates:       n.numStates(),
		DFAStates:       d.numStates,
		MinimizedStates: d.numStates,
		ByteClasses:     len(d.classes.labels),
	}
	log.Debug("subset construction done", "states", d.numStates, "classes", stats.ByteClasses)

	if cfg.Minimize {
		d = minimize(d, !cfg.KeepDeadStates)
		stats.MinimizedStates = d.numStates
		log.Debug("minimized dfa", "states", d.numStates)
	}

	return &Regex{expr: re, dfa: d, stats: stats}, nil
}

func (re *Regex) String() string {
	return re.expr
}

func (re *Regex) Stats() Stats {
	return re.stats
}

// Match reports whether the whole of s matches the pattern.
func (re *Regex) Match(s string) bool {
	return re.dfa.matches(s)
}

// MatchString reports whether s contains a match of the pattern.
func (re *Regex) MatchString(s string) bool {
	return re.FindIndex(s) != nil
}

// FindIndex returns the leftmost-longest match in s as [start, end), or nil.
func (re *Regex) FindIndex(s string) []int {
	all := re.FindAllIndex(s, 1)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// FindAllIndex finds up to maxCount non-overlapping leftmost-longest matches.
// To return all matches pass a maxCount of -1.
// An empty match directly after a previous match is skipped.
func (re *Regex) FindAllIndex(s string, maxCount int) [][]int {
	var all [][]int
	prevEnd := -1
	for pos := 0; pos <= len(s); {
		if maxCount >= 0 && len(all) >= maxCount {
			break
		}

		start, end := re.dfa.find(s, pos)
		if start < 0 {
			break
		}

		accept := true
		if end == pos {
			// empty match at pos
			if start == prevEnd {
				accept = false
			}
			pos++
		} else {
			pos = end
		}
		prevEnd = end

		if accept {
			all = append(all, []int{start, end})
		}
	}
	return all
}

// Replace replaces the first match in s. In with, $0 expands to the matched
// text; the automaton tracks no groups, so any other $n expands to nothing.
func (re *Regex) Replace(s string, with string) string {
	loc := re.FindIndex(s)
	if loc == nil {
		return s
	}

	out := strings.Builder{}
	out.WriteString(s[:loc[0]])
	for i := 0; i < len(with); i++ {
		if with[i] == '$' && i+1 < len(with) && unicode.IsDigit(rune(with[i+1])) {
			num := 0
			for j := i + 1; j < len(with) && unicode.IsDigit(rune(with[j])); j++ {
				num *= 10
				num += int(with[j] - '0')
				i++
			}

			if num == 0 {
				out.WriteString(s[loc[0]:loc[1]])
			}
		} else {
			out.WriteByte(with[i])
		}
	}
	out.WriteString(s[loc[1]:])
	return out.String()
}
