// Package engine drives document-level SQL formatting. It splits the input
// into statements, formats each one, proves the rendering preserved the
// statement's meaning, and assembles the final document.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/parser"
	"github.com/leapstack-labs/sqleaner/pkg/format"
)

// statementTerminator is appended to every formatted statement before the
// round-trip check runs, so the check also covers statement boundaries.
const statementTerminator = "\n;"

// Policy selects how unsupported statement kinds are handled.
type Policy int

const (
	// PolicyLenient renders unsupported statements through the parser
	// library's own serializer and records a diagnostic for each one.
	PolicyLenient Policy = iota
	// PolicyStrict fails the whole document on the first unsupported
	// statement.
	PolicyStrict
)

// ParsePolicy maps a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "lenient":
		return PolicyLenient, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyLenient, fmt.Errorf("unknown policy %q (want lenient or strict)", s)
	}
}

// Diagnostic records a statement the lenient policy rendered verbatim.
type Diagnostic struct {
	// Statement is the zero-based index of the statement in the document.
	Statement int
	// Kind is the statement tag, e.g. "INSERT".
	Kind string
}

// Config holds engine configuration.
type Config struct {
	Policy Policy
	// Logger receives fallback warnings. Nil discards them.
	Logger *slog.Logger
}

// Engine formats SQL documents. It is stateless between calls and formats
// each document's statements strictly in sequence.
type Engine struct {
	policy Policy
	logger *slog.Logger
}

// New creates an engine from the configuration.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{policy: cfg.Policy, logger: logger}
}

// Result is the outcome of formatting one document.
type Result struct {
	// Output is the formatted document: each statement terminated by
	// "\n;", concatenated in input order, with one trailing newline.
	Output string
	// Diagnostics lists the statements rendered verbatim under the
	// lenient policy, in document order.
	Diagnostics []Diagnostic
}

// FormatSQL formats every statement in the input document. The first defect
// fails the whole document; there is no partial-success mode. Syntax errors
// in the input propagate from the parser unchanged apart from position
// context, since formatting cannot proceed without an AST.
func (e *Engine) FormatSQL(sql string) (*Result, error) {
	parsed, err := parser.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	res := &Result{}
	var out strings.Builder
	for i, stmt := range parsed {
		if stmt.AST == nil {
			continue
		}

		text, err := format.Statement(stmt.AST, 0)
		if err != nil {
			var unsupported *format.UnsupportedError
			if !errors.As(err, &unsupported) || e.policy == PolicyStrict {
				return nil, fmt.Errorf("statement %d: %w", i+1, err)
			}
			text = format.Verbatim(stmt.AST)
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Statement: i, Kind: unsupported.Kind})
			e.logger.Warn("statement rendered verbatim",
				"statement", i+1,
				"kind", unsupported.Kind)
		}

		text += statementTerminator
		if err := verifyRoundTrip(stmt.AST, text); err != nil {
			return nil, fmt.Errorf("statement %d: %w", i+1, err)
		}
		out.WriteString(text)
	}

	res.Output = out.String() + "\n"
	return res, nil
}
