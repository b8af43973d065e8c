package config

import (
	"fmt"
	"regexp"
	"strings"
)

// compileGlob translates a shell-style pattern into an anchored regexp.
// '*' matches any run of characters (dots included), '?' matches one
// character, and '[...]' / '[!...]' are character classes. An unterminated
// '[' is a literal.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	runes := []rune(pattern)
	var b strings.Builder
	b.WriteString(`(?s)\A`)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		case '[':
			end := classEnd(runes, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			writeClass(&b, runes[i+1:end])
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`\z`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

// classEnd returns the index of the ']' closing the class opened at start,
// or -1 when the class is unterminated. A ']' directly after '[' or '[!' is
// part of the class.
func classEnd(runes []rune, start int) int {
	j := start + 1
	if j < len(runes) && runes[j] == '!' {
		j++
	}
	if j < len(runes) && runes[j] == ']' {
		j++
	}
	for j < len(runes) && runes[j] != ']' {
		j++
	}
	if j >= len(runes) {
		return -1
	}
	return j
}

func writeClass(b *strings.Builder, class []rune) {
	b.WriteByte('[')
	if len(class) > 0 && class[0] == '!' {
		b.WriteByte('^')
		class = class[1:]
	}
	for idx, r := range class {
		switch {
		case r == '\\', r == '[', r == ']':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '^' && idx == 0:
			b.WriteString(`\^`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(']')
}
