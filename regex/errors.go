package regex

import (
	"errors"
	"fmt"
)

// ErrStateLimit is returned when determinizing a pattern would create more
// DFA states than Config.MaxStates allows.
var ErrStateLimit = errors.New("DFA state limit exceeded during construction")

// SyntaxError reports a malformed pattern.
type SyntaxError struct {
	// Pos is the byte offset in the pattern where the problem was found.
	Pos int
	Msg string
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parser error at %d: %s: %v", e.Pos, e.Msg, e.Err)
	}
	return fmt.Sprintf("parser error at %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func newSyntaxError(i int, msg string, inner error) *SyntaxError {
	return &SyntaxError{Pos: i, Msg: msg, Err: inner}
}

// MalformedASTError is returned by the automaton builder when it meets a
// syntax tree node it cannot translate.
type MalformedASTError struct {
	Node string
	Msg  string
}

func (e *MalformedASTError) Error() string {
	return fmt.Sprintf("malformed syntax tree at %s: %s", e.Node, e.Msg)
}

func malformed(n node, msg string) *MalformedASTError {
	return &MalformedASTError{Node: fmt.Sprintf("%T", n), Msg: msg}
}
