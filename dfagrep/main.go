package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"gopkg.in/yaml.v2"

	"github.com/mfroeh/dfagrep/regex"
)

var (
	matchColor   = color.New(color.FgRed, color.Bold)
	pathColor    = color.New(color.FgMagenta)
	lineNumColor = color.New(color.FgGreen)
)

type options struct {
	Pattern    string   `arg:"" name:"pattern" help:"Regex pattern to use in search" type:"string"`
	Paths      []string `arg:"" optional:"" name:"path" help:"Paths to search" type:"path"`
	LineRegexp bool     `short:"x" help:"Only select lines that match the pattern as a whole."`
	Count      bool     `short:"c" help:"Only print the number of matching lines per file."`
	NoMinimize bool     `help:"Skip DFA minimization."`
	KeepDead   bool     `help:"Keep dead states when minimizing."`
	MaxStates  int      `default:"4096" help:"Maximum number of DFA states to build, 0 for no limit."`
	Dump       bool     `help:"Print the compiled automaton as YAML and exit."`
	Stats      bool     `help:"Print automaton sizes to stderr."`
	Color      string   `enum:"auto,always,never" default:"auto" help:"When to color the output (${enum})."`
	Verbose    bool     `short:"v" help:"Log compilation stages to stderr."`
}

var cli options

func main() {
	kong.Parse(&cli,
		kong.Name("dfagrep"),
		kong.Description("Recursively searches the current directory for lines matching a regex pattern, using a minimal DFA."),
		kong.UsageOnError(),
	)

	matched, err := run(cli, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if !matched && !cli.Dump {
		os.Exit(1)
	}
}

func (o options) config(logger *slog.Logger) regex.Config {
	cfg := regex.DefaultConfig()
	cfg.Minimize = !o.NoMinimize
	cfg.KeepDeadStates = o.KeepDead
	cfg.MaxStates = o.MaxStates
	cfg.Logger = logger
	return cfg
}

// run executes one invocation and reports whether any line matched.
func run(o options, stdout, stderr io.Writer) (bool, error) {
	switch o.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}

	logger := slog.New(slog.DiscardHandler)
	if o.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	re, err := regex.CompileConfig(o.Pattern, o.config(logger))
	if err != nil {
		return false, fmt.Errorf("failed to build regex: %w", err)
	}

	if o.Stats {
		st := re.Stats()
		fmt.Fprintf(stderr, "nfa states: %d, dfa states: %d, minimized: %d, byte classes: %d\n",
			st.NFAStates, st.DFAStates, st.MinimizedStates, st.ByteClasses)
	}

	if o.Dump {
		out, err := yaml.Marshal(re.Automaton())
		if err != nil {
			return false, fmt.Errorf("failed to encode automaton: %w", err)
		}
		_, err = stdout.Write(out)
		return false, err
	}

	if len(o.Paths) == 0 {
		o.Paths = []string{"."}
	}

	s := &searcher{
		re:         re,
		out:        stdout,
		lineRegexp: o.LineRegexp,
		count:      o.Count,
		log:        logger,
	}
	for _, path := range o.Paths {
		if err := s.searchPath(path); err != nil {
			return s.matched, fmt.Errorf("%s: %w", path, err)
		}
	}
	return s.matched, nil
}

type searcher struct {
	re         *regex.Regex
	out        io.Writer
	lineRegexp bool
	count      bool
	log        *slog.Logger
	matched    bool
}

func (s *searcher) searchPath(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return s.recursivelySearchDir(path)
	}
	return s.searchFile(path)
}

func (s *searcher) recursivelySearchDir(path string) error {
	return filepath.WalkDir(path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// resolve symlinks
		info, err := os.Stat(path)
		// symlinks may be broken, in that case, just ignore them
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				s.log.Debug("skipping broken symlink", "path", path)
				return nil
			}
			return err
		}

		// symlink may resolve to a directory, in which case we just ignore it
		if info.IsDir() {
			return nil
		}

		return s.searchFile(path)
	})
}

func (s *searcher) searchFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	printFileHeader := false
	count := 0
	for i, line := range strings.Split(strings.TrimSuffix(string(content), "\n"), "\n") {
		matches := s.find(line)
		if len(matches) == 0 {
			continue
		}
		count++
		s.matched = true
		if s.count {
			continue
		}

		if !printFileHeader {
			printFileHeader = true
			fmt.Fprintf(s.out, "%s:\n", pathColor.Sprint(path))
		}

		out := strings.Builder{}
		lastMatchEnd := 0
		for _, match := range matches {
			out.WriteString(line[lastMatchEnd:match[0]])
			out.WriteString(matchColor.Sprint(line[match[0]:match[1]]))
			lastMatchEnd = match[1]
		}
		out.WriteString(line[lastMatchEnd:])
		fmt.Fprintf(s.out, "%s:%s\n", lineNumColor.Sprint(i+1), out.String())
	}

	if s.count && count > 0 {
		fmt.Fprintf(s.out, "%s:%d\n", pathColor.Sprint(path), count)
	}
	if printFileHeader {
		fmt.Fprintln(s.out)
	}
	s.log.Debug("searched file", "path", path, "matching_lines", count)
	return nil
}

func (s *searcher) find(line string) [][]int {
	if s.lineRegexp {
		if s.re.Match(line) {
			return [][]int{{0, len(line)}}
		}
		return nil
	}
	return s.re.FindAllIndex(line, -1)
}
