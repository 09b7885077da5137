package witexpr

import (
	"unicode"
)

type tokenType int

const (
	tokIdent tokenType = iota
	tokPunct
)

func (t tokenType) String() string {
	switch t {
	case tokIdent:
		return "identifier"
	case tokPunct:
		return "punctuation"
	}
	return "unknown"
}

type token struct {
	Value string
	Type  tokenType
	Col   int
}

const punctuation = "<>{}(),:"

func isIdentRune(r rune) bool {
	return r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if unicode.IsSpace(r) {
			continue
		}

		if containsRune(punctuation, r) {
			tokens = append(tokens, token{string(r), tokPunct, i + 1})
			continue
		}

		// WIT escapes keywords used as names with a leading '%'
		if r == '%' || isIdentRune(r) {
			start := i
			if r == '%' {
				start++
			}
			i++
			for i < len(runes) && isIdentRune(runes[i]) {
				i++
			}
			if start == i {
				return nil, errorAt(start+1, "empty identifier after '%%'")
			}
			tokens = append(tokens, token{string(runes[start:i]), tokIdent, start + 1})
			i--
			continue
		}

		return nil, errorAt(i+1, "unexpected character %q", r)
	}
	return tokens, nil
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
