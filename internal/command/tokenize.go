package command

import (
	"strings"

	"golang.org/x/xerrors"
)

var (
	// ErrUnterminatedQuote is returned when a double-quoted token is missing its closing quote.
	ErrUnterminatedQuote = xerrors.New("command: unterminated double quote")

	// ErrTrailingCharacters is returned when a closing quote is immediately followed by something
	// other than whitespace, a semicolon, or the end of input.
	ErrTrailingCharacters = xerrors.New("command: unexpected characters after closing quote")
)

// TokenizeOperationSequence splits a semicolon-separated list of operations. Each operation is
// represented by a non-empty slice whose first element is the name of the operation and whose
// remaining elements are its arguments.
//
// Tokens are separated by spaces or tabs. Double-quoted tokens may contain whitespace and
// semicolons, and expand the escape sequences \", \\, \r, \n, \t and \v; any other escaped
// character is kept without its backslash. Outside of double quotes, backslashes are literal.
// Empty operations (as in "; ;; open ;") are skipped.
func TokenizeOperationSequence(input string) ([][]string, error) {
	var operations [][]string
	var current []string

	flush := func() {
		if len(current) > 0 {
			operations = append(operations, current)
			current = nil
		}
	}

	for pos := 0; pos < len(input); {
		switch c := input[pos]; {
		case isSpace(c):
			pos++

		case c == ';':
			flush()
			pos++

		case c == '"':
			token, n, err := readQuoted(input[pos+1:])
			if err != nil {
				return nil, xerrors.Errorf("command: bad quoted token: pos=%d input=%q: %w", pos, input, err)
			}
			pos += 1 + n

			if pos < len(input) && !isSpace(input[pos]) && input[pos] != ';' {
				return nil, xerrors.Errorf("command: bad quoted token: pos=%d input=%q: %w", pos, input, ErrTrailingCharacters)
			}

			current = append(current, token)

		default:
			end := pos
			for end < len(input) && !isSpace(input[end]) && input[end] != ';' {
				end++
			}

			current = append(current, input[pos:end])
			pos = end
		}
	}
	flush()

	return operations, nil
}

// readQuoted consumes the body of a double-quoted token, starting right after the opening quote.
// It returns the unescaped token and the number of bytes consumed, closing quote included.
func readQuoted(input string) (string, int, error) {
	var token strings.Builder

	for pos := 0; pos < len(input); pos++ {
		switch c := input[pos]; c {
		case '"':
			return token.String(), pos + 1, nil

		case '\\':
			pos++
			if pos == len(input) {
				return "", 0, ErrUnterminatedQuote
			}

			token.WriteString(unescape(input[pos]))

		default:
			token.WriteByte(c)
		}
	}

	return "", 0, ErrUnterminatedQuote
}

// unescape expands the character following a backslash inside double quotes.
func unescape(c byte) string {
	switch c {
	case 'r':
		return "\r"
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'v':
		return "\v"
	default:
		// Includes '"' and '\\'. Other characters pass through unmodified; for a multi-byte
		// rune, the remaining bytes are copied as ordinary characters.
		return string([]byte{c})
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
