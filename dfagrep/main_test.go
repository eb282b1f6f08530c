package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func testTree(t *testing.T) *fs.Dir {
	t.Helper()
	return fs.NewDir(t, "dfagrep",
		fs.WithFile("a.txt", "foo bar\nbaz\nfoofoo\n"),
		fs.WithDir("sub",
			fs.WithFile("b.txt", "nothing here\nfoo\n"),
		),
	)
}

func TestRun(t *testing.T) {
	dir := testTree(t)
	a := filepath.Join(dir.Path(), "a.txt")
	b := filepath.Join(dir.Path(), "sub", "b.txt")

	tests := map[string]struct {
		givenOptions options
		wantOut      string
		wantMatched  bool
	}{
		"search": {
			givenOptions: options{Pattern: "foo"},
			wantOut:      a + ":\n1:foo bar\n3:foofoo\n\n" + b + ":\n2:foo\n\n",
			wantMatched:  true,
		},
		"whole line": {
			givenOptions: options{Pattern: "foo(foo)?", LineRegexp: true},
			wantOut:      a + ":\n3:foofoo\n\n" + b + ":\n2:foo\n\n",
			wantMatched:  true,
		},
		"count": {
			givenOptions: options{Pattern: "ba.", Count: true},
			wantOut:      a + ":2\n",
			wantMatched:  true,
		},
		"single file": {
			givenOptions: options{Pattern: "here$", Paths: []string{b}},
			wantOut:      b + ":\n1:nothing here\n\n",
			wantMatched:  true,
		},
		"unminimized": {
			givenOptions: options{Pattern: "^ba", NoMinimize: true},
			wantOut:      a + ":\n2:baz\n\n",
			wantMatched:  true,
		},
		"no match": {
			givenOptions: options{Pattern: "zzz"},
			wantOut:      "",
			wantMatched:  false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// given
			o := tt.givenOptions
			o.Color = "never"
			o.MaxStates = 4096
			if len(o.Paths) == 0 {
				o.Paths = []string{dir.Path()}
			}
			var stdout, stderr bytes.Buffer

			// when
			matched, err := run(o, &stdout, &stderr)

			// then
			assert.NilError(t, err)
			assert.Equal(t, matched, tt.wantMatched)
			assert.Equal(t, stdout.String(), tt.wantOut)
		})
	}
}

func TestRunDump(t *testing.T) {
	var stdout, stderr bytes.Buffer

	matched, err := run(options{Pattern: "ab", Dump: true, Stats: true, Color: "never"}, &stdout, &stderr)

	assert.NilError(t, err)
	assert.Equal(t, matched, false)
	assert.Equal(t, stdout.String(), "states: 3\nstart: 0\ninner_start: 0\naccepting:\n- 2\ntransitions:\n"+
		"- from: 0\n  label: a\n  to: 1\n- from: 1\n  label: b\n  to: 2\n")
	assert.Equal(t, stderr.String(), "nfa states: 4, dfa states: 3, minimized: 3, byte classes: 2\n")
}

func TestRunInvalidPattern(t *testing.T) {
	var stdout, stderr bytes.Buffer

	_, err := run(options{Pattern: "(ab", Color: "never"}, &stdout, &stderr)

	assert.ErrorContains(t, err, "failed to build regex")
}

func TestRunVerboseLogsStages(t *testing.T) {
	var stdout, stderr bytes.Buffer

	_, err := run(options{Pattern: "a", Dump: true, Verbose: true, Color: "never"}, &stdout, &stderr)

	assert.NilError(t, err)
	assert.Assert(t, bytes.Contains(stderr.Bytes(), []byte("minimized dfa")))
}

func TestParseFlags(t *testing.T) {
	var o options
	parser, err := kong.New(&o)
	assert.NilError(t, err)

	_, err = parser.Parse([]string{"-x", "--no-minimize", "a+", "x", "y"})

	assert.NilError(t, err)
	assert.Equal(t, o.Pattern, "a+")
	assert.Equal(t, len(o.Paths), 2)
	assert.Equal(t, o.LineRegexp, true)
	assert.Equal(t, o.NoMinimize, true)
	assert.Equal(t, o.MaxStates, 4096)
	assert.Equal(t, o.Color, "auto")
}
