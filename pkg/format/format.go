// Package format renders parsed SQL statements in canonical form.
//
// Only SELECT statements (including WITH common table expressions) receive
// special layout; individual expressions, table references, and join
// conditions are serialized by the parser library and never reconstructed
// token by token. Every other statement kind is reported as unsupported and
// the caller chooses between failing and falling back to the library's own
// serialization.
package format

import (
	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
)

// Statement formats one statement at the given nesting level. Top-level
// statements start at level 0; each enclosing CTE scope adds one level.
// The fragment carries no statement terminator, the caller owns termination.
func Statement(stmt tree.Statement, level int) (string, error) {
	switch s := stmt.(type) {
	case *tree.Select:
		return formatSelect(s, level)
	default:
		return "", &UnsupportedError{Kind: stmt.StatementTag()}
	}
}

// Verbatim renders a statement through the parser library's serializer,
// on a single line with no layout applied. It is the fallback for statement
// kinds Statement rejects.
func Verbatim(stmt tree.Statement) string {
	return tree.AsString(stmt)
}
