package regex

// Automaton is a printable description of a compiled DFA.
type Automaton struct {
	States      int          `yaml:"states"`
	Start       int          `yaml:"start"`
	InnerStart  int          `yaml:"inner_start"`
	Accepting   []int        `yaml:"accepting"`
	Transitions []Transition `yaml:"transitions"`
}

type Transition struct {
	From  int    `yaml:"from"`
	Label string `yaml:"label"`
	To    int    `yaml:"to"`
}

// Automaton describes the DFA the pattern was compiled to. Transitions are
// ordered by source state and then by the smallest byte of their label.
func (re *Regex) Automaton() Automaton {
	d := re.dfa
	a := Automaton{
		States:     d.numStates,
		Start:      d.start,
		InnerStart: d.innerStart,
		Accepting:  d.accepting(),
	}
	for s := 0; s < d.numStates; s++ {
		for _, l := range d.classes.labels {
			if to, ok := d.transition[transKey{state: s, lbl: l}]; ok {
				a.Transitions = append(a.Transitions, Transition{From: s, Label: l.String(), To: to})
			}
		}
	}
	return a
}
