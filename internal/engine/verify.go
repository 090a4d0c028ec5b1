package engine

import (
	"fmt"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/parser"
	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
)

// VerifyError reports a round-trip failure: the formatted text no longer
// parses back to the statement it was produced from. This is always a defect
// in the formatter, never in the user's input, so it is never swallowed.
type VerifyError struct {
	Reason string
	// Want and Got are canonical serializations of the original and the
	// re-parsed statement. Got is empty when re-parsing itself failed.
	Want string
	Got  string
}

func (e *VerifyError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("round-trip verification failed: %s", e.Reason)
	}
	return fmt.Sprintf("round-trip verification failed: %s (want %q, got %q)", e.Reason, e.Want, e.Got)
}

// verifyRoundTrip re-parses one formatted, terminated statement and checks
// that it is still the same statement. The parser library exposes no
// structural comparison of its own, so equality is pinned as equality of the
// library's canonical serialization: it is derived purely from clause
// structure and literal values and is independent of source whitespace,
// which is the only thing formatting is allowed to change.
func verifyRoundTrip(orig tree.Statement, formatted string) error {
	reparsed, err := parser.Parse(formatted)
	if err != nil {
		return &VerifyError{
			Reason: fmt.Sprintf("formatted text does not parse: %v", err),
			Want:   tree.AsString(orig),
		}
	}
	if len(reparsed) != 1 {
		return &VerifyError{
			Reason: fmt.Sprintf("re-parse yielded %d statements, want 1", len(reparsed)),
			Want:   tree.AsString(orig),
		}
	}

	want := tree.AsStringWithFlags(orig, tree.FmtSimple)
	got := tree.AsStringWithFlags(reparsed[0].AST, tree.FmtSimple)
	if want != got {
		return &VerifyError{Reason: "statement structure changed", Want: want, Got: got}
	}
	return nil
}
