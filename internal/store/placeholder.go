package store

import (
	"strconv"
	"strings"
)

// toOrdinalParams rewrites positional `?` placeholders as `$1, $2, ...`.
// Question marks inside single-quoted string literals are not placeholders
// and pass through untouched; a doubled '' inside a literal is an escaped
// quote, not a terminator.
func toOrdinalParams(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inLiteral := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			if inLiteral && i+1 < len(query) && query[i+1] == '\'' {
				b.WriteString("''")
				i++
				continue
			}
			inLiteral = !inLiteral
			b.WriteByte(ch)
		case ch == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
