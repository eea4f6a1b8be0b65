// Package namedparams translates :name placeholders into the positional
// placeholders database/sql expects, and binds named argument maps onto them.
package namedparams

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingArg is returned by Bind when the query names a parameter the
// argument map does not provide.
var ErrMissingArg = errors.New("missing named argument")

// Translate rewrites every :name token in query to a ? placeholder and
// returns the parameter names in placeholder order. Names inside string
// literals, quoted identifiers and comments are left alone, as is the
// :: cast operator. A repeated name yields one entry per occurrence.
func Translate(query string) (string, []string, error) {
	var (
		out   strings.Builder
		names []string
	)

	runes := []rune(query)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		switch c {
		case '\'', '"', '`':
			end, err := skipQuoted(runes, i, c)
			if err != nil {
				return "", nil, err
			}
			out.WriteString(string(runes[i : end+1]))
			i = end
			continue

		case '-':
			if i+1 < len(runes) && runes[i+1] == '-' {
				end := skipLineComment(runes, i)
				out.WriteString(string(runes[i:end]))
				i = end - 1
				continue
			}

		case '/':
			if i+1 < len(runes) && runes[i+1] == '*' {
				end, err := skipBlockComment(runes, i)
				if err != nil {
					return "", nil, err
				}
				out.WriteString(string(runes[i : end+1]))
				i = end
				continue
			}

		case ':':
			// "::" is a cast, not a parameter.
			if i+1 < len(runes) && runes[i+1] == ':' {
				out.WriteString("::")
				i++
				continue
			}
			if i+1 < len(runes) && isNameStart(runes[i+1]) {
				j := i + 1
				for j < len(runes) && isNameChar(runes[j]) {
					j++
				}
				names = append(names, string(runes[i+1:j]))
				out.WriteByte('?')
				i = j - 1
				continue
			}
		}

		out.WriteRune(c)
	}

	return out.String(), names, nil
}

// Bind translates query and resolves its named parameters against args,
// returning the rewritten query and a positional argument slice.
func Bind(query string, args map[string]any) (string, []any, error) {
	translated, names, err := Translate(query)
	if err != nil {
		return "", nil, err
	}

	positional := make([]any, 0, len(names))
	for _, name := range names {
		value, ok := args[name]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", ErrMissingArg, name)
		}
		positional = append(positional, value)
	}

	return translated, positional, nil
}

func skipQuoted(runes []rune, start int, quote rune) (int, error) {
	for i := start + 1; i < len(runes); i++ {
		if runes[i] != quote {
			continue
		}
		// Doubled quote is an escaped quote inside the literal.
		if i+1 < len(runes) && runes[i+1] == quote {
			i++
			continue
		}
		return i, nil
	}
	return 0, fmt.Errorf("unterminated %c-quoted section", quote)
}

func skipLineComment(runes []rune, start int) int {
	for i := start; i < len(runes); i++ {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	return len(runes)
}

func skipBlockComment(runes []rune, start int) (int, error) {
	for i := start + 2; i+1 < len(runes); i++ {
		if runes[i] == '*' && runes[i+1] == '/' {
			return i + 1, nil
		}
	}
	return 0, errors.New("unterminated block comment")
}

func isNameStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c rune) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
