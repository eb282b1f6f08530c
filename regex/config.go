package regex

import "log/slog"

// DefaultMaxStates is the default cap on DFA states created by subset
// construction.
const DefaultMaxStates = 4096

// Config controls how a pattern is compiled.
//
// Example:
//
//	cfg := regex.DefaultConfig()
//	cfg.Minimize = false // keep the raw subset construction result
//	re, err := regex.CompileConfig(`(a|b)*abb`, cfg)
type Config struct {
	// Minimize merges indistinguishable DFA states.
	// Default: true
	Minimize bool

	// KeepDeadStates keeps the class of states that can never reach an
	// accepting state after minimization. Ignored if Minimize is false.
	// Default: false
	KeepDeadStates bool

	// MaxStates caps the number of DFA states built during subset
	// construction; compilation fails with ErrStateLimit beyond it.
	// Zero or less means no limit.
	// Default: DefaultMaxStates
	MaxStates int

	// Logger receives debug events for each compilation stage.
	// Default: nil, which discards them
	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Minimize:  true,
		MaxStates: DefaultMaxStates,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
