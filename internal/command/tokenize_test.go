package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func ops(operations ...[]string) [][]string {
	return operations
}

func op(tokens ...string) []string {
	return tokens
}

func TestTokenizeOperationSequence(t *testing.T) {
	cases := []struct {
		input    string
		expected [][]string
	}{
		{"", nil},
		{"open", ops(op("open"))},
		{"; ; ; ;", nil},
		{"open ; next", ops(op("open"), op("next"))},
		{"open ; next ; prev ; quit", ops(op("open"), op("next"), op("prev"), op("quit"))},
		{`set "arg 1"`, ops(op("set", "arg 1"))},
		{`set "arg 1" ; set "arg 2" "arg 3"`, ops(op("set", "arg 1"), op("set", "arg 2", "arg 3"))},
		{`set browser "firefox"; open-in-browser`, ops(op("set", "browser", "firefox"), op("open-in-browser"))},
		{"set browser firefox; open-in-browser", ops(op("set", "browser", "firefox"), op("open-in-browser"))},
		{
			`open;set browser "firefox --private-window";quit`,
			ops(op("open"), op("set", "browser", "firefox --private-window"), op("quit")),
		},
		{
			`open ;set browser "firefox --private-window" ;quit`,
			ops(op("open"), op("set", "browser", "firefox --private-window"), op("quit")),
		},
		{"; ;; ; open", ops(op("open"))},
		{";;; ;; ; open ;; ;", ops(op("open"))},
		{"; open ;; ;; ;", ops(op("open"))},
		{"open ; ;;; ;;", ops(op("open"))},
		{"go   build\t./...", ops(op("go", "build", "./..."))},
		{"a", ops(op("a"))},
		{`a"b c`, ops(op(`a"b`, "c"))},
		{`echo ""`, ops(op("echo", ""))},
		{
			`set browser "sleep 3; do-something ; echo hi"; open-in-browser`,
			ops(op("set", "browser", "sleep 3; do-something ; echo hi"), op("open-in-browser")),
		},
	}

	for _, c := range cases {
		operations, err := TokenizeOperationSequence(c.input)
		require.NoError(t, err, "input=%q", c.input)
		assert.Equal(t, c.expected, operations, "input=%q", c.input)
	}
}

func TestTokenizeOperationSequenceKeepsEscapesOutsideQuotes(t *testing.T) {
	for _, input := range []string{`\t`, `\r`, `\n`, `\v`, `\\`, `\"`} {
		operations, err := TokenizeOperationSequence(input)
		require.NoError(t, err)
		assert.Equal(t, ops(op(input)), operations)
	}
}

func TestTokenizeOperationSequenceExpandsEscapesInsideQuotes(t *testing.T) {
	cases := map[string]string{
		`"\t"`: "\t",
		`"\r"`: "\r",
		`"\n"`: "\n",
		`"\v"`: "\x0b",
		`"\""`: `"`,
		`"\\"`: `\`,
	}

	for input, expected := range cases {
		operations, err := TokenizeOperationSequence(input)
		require.NoError(t, err, "input=%q", input)
		assert.Equal(t, ops(op(expected)), operations, "input=%q", input)
	}
}

func TestTokenizeOperationSequencePassesThroughUnsupportedEscapes(t *testing.T) {
	cases := map[string]string{
		`"\1"`: "1",
		`"\W"`: "W",
		`"\b"`: "b",
		`"\d"`: "d",
		`"\x"`: "x",
		`"\é"`: "é",
	}

	for input, expected := range cases {
		operations, err := TokenizeOperationSequence(input)
		require.NoError(t, err, "input=%q", input)
		assert.Equal(t, ops(op(expected)), operations, "input=%q", input)
	}
}

func TestTokenizeOperationSequenceErrors(t *testing.T) {
	cases := map[string]error{
		`set "arg 1`:  ErrUnterminatedQuote,
		`echo "a\`:    ErrUnterminatedQuote,
		`echo "a"b`:   ErrTrailingCharacters,
		`"x""y" ; ok`: ErrTrailingCharacters,
	}

	for input, expected := range cases {
		_, err := TokenizeOperationSequence(input)
		assert.True(t, xerrors.Is(err, expected), "input=%q err=%v", input, err)
	}
}
