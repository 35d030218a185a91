package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToOrdinalParams(t *testing.T) {
	require.Equal(t,
		"SELECT * FROM users WHERE email = $1 AND id = $2",
		toOrdinalParams("SELECT * FROM users WHERE email = ? AND id = ?"))
}

func TestToOrdinalParamsNoPlaceholders(t *testing.T) {
	q := "SELECT COUNT(*) FROM daily_stats"
	require.Equal(t, q, toOrdinalParams(q))
}

func TestToOrdinalParamsSkipsQuotedLiterals(t *testing.T) {
	require.Equal(t,
		"SELECT * FROM t WHERE a = 'what?' AND b = $1",
		toOrdinalParams("SELECT * FROM t WHERE a = 'what?' AND b = ?"))
}

func TestToOrdinalParamsEscapedQuoteInLiteral(t *testing.T) {
	// '' inside a literal is an escaped quote, not a terminator; the ?
	// after it is still part of the literal.
	require.Equal(t,
		"SELECT * FROM t WHERE a = 'it''s ok?' AND b = $1",
		toOrdinalParams("SELECT * FROM t WHERE a = 'it''s ok?' AND b = ?"))
}
