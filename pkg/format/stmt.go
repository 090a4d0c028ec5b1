package format

import (
	"strings"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
)

// formatSelect renders a SELECT statement at the given nesting level.
// CTE bodies recurse one level deeper; nesting is purely structural, so a
// CTE inside a CTE body doubles the indent of the innermost body.
func formatSelect(sel *tree.Select, level int) (string, error) {
	var parts []string

	if sel.With != nil {
		with, err := formatWith(sel.With, level)
		if err != nil {
			return "", err
		}
		parts = append(parts, with)
	}

	clause, ok := sel.Select.(*tree.SelectClause)
	if !ok {
		// UNION, VALUES, and parenthesized selects route through the
		// explicit fallback path.
		return "", &UnsupportedError{Kind: sel.Select.StatementTag()}
	}

	body, err := formatSelectClause(clause, level)
	if err != nil {
		return "", err
	}
	parts = append(parts, body)

	if len(sel.OrderBy) > 0 {
		parts = append(parts, "\n"+indentText(level)+verbatimFragment(&sel.OrderBy))
	}
	if sel.Limit != nil {
		parts = append(parts, "\n"+indentText(level)+verbatimFragment(sel.Limit))
	}

	return strings.Join(parts, ""), nil
}

// formatWith renders a WITH clause. Each CTE is emitted as
// "<alias> AS (", the body one level deeper, and a closing parenthesis at
// the enclosing level; definitions are joined by ",\n" and the fragment ends
// with the line break separating it from the main body.
func formatWith(with *tree.With, level int) (string, error) {
	entries := make([]string, 0, len(with.CTEList))
	for _, cte := range with.CTEList {
		if cte == nil {
			return "", &UnsupportedError{Kind: "empty WITH entry"}
		}
		body, ok := cte.Stmt.(*tree.Select)
		if !ok {
			// A WITH entry whose body is not a SELECT cannot be laid
			// out here; surface it by kind rather than guessing.
			return "", &UnsupportedError{Kind: cte.Stmt.StatementTag()}
		}

		inner, err := formatSelect(body, level+1)
		if err != nil {
			return "", err
		}

		var b strings.Builder
		b.WriteString(verbatimFragment(&cte.Name))
		b.WriteString(" AS (\n")
		b.WriteString(inner)
		b.WriteString("\n")
		b.WriteString(indentText(level))
		b.WriteString(")")
		entries = append(entries, b.String())
	}

	sep := ",\n" + indentText(level)
	return indentText(level) + "WITH " + strings.Join(entries, sep) + "\n", nil
}

// formatSelectClause renders the SELECT body: projection, FROM, joins, and
// the remaining clauses each on their own line at the statement's indent.
func formatSelectClause(sc *tree.SelectClause, level int) (string, error) {
	if sc.TableSelect {
		return "", &UnsupportedError{Kind: "TABLE"}
	}

	var b strings.Builder
	b.WriteString(indentText(level))
	b.WriteString("SELECT")
	if sc.Distinct {
		if len(sc.DistinctOn) > 0 {
			b.WriteString(" ")
			b.WriteString(verbatimFragment(&sc.DistinctOn))
		} else {
			b.WriteString(" DISTINCT")
		}
	}

	cols := make([]string, len(sc.Exprs))
	for i := range sc.Exprs {
		cols[i] = tree.AsString(&sc.Exprs[i])
	}
	switch {
	case len(cols) == 1:
		// A single projection stays on the SELECT line.
		b.WriteString(" ")
		b.WriteString(cols[0])
	case len(cols) > 1:
		// Two or more projections each get their own line, one level
		// deeper than SELECT, with the separator leading the line.
		b.WriteString("\n")
		b.WriteString(indentText(level + 1))
		b.WriteString(strings.Join(cols, columnSeparator(level+1, ",")))
	}
	// A zero-column projection joins to nothing; not expected from a
	// well-formed SELECT but not worth a special case.

	if len(sc.From.Tables) > 0 {
		from, joins, err := flattenFrom(sc.From)
		if err != nil {
			return "", err
		}
		b.WriteString("\n")
		b.WriteString(indentText(level))
		b.WriteString(from)
		for _, join := range joins {
			b.WriteString("\n")
			b.WriteString(indentText(level))
			b.WriteString(join)
		}
	}

	if sc.Where != nil {
		b.WriteString("\n")
		b.WriteString(indentText(level))
		b.WriteString(verbatimFragment(sc.Where))
	}
	if len(sc.GroupBy) > 0 {
		b.WriteString("\n")
		b.WriteString(indentText(level))
		b.WriteString(verbatimFragment(&sc.GroupBy))
	}
	if sc.Having != nil {
		b.WriteString("\n")
		b.WriteString(indentText(level))
		b.WriteString(verbatimFragment(sc.Having))
	}
	if len(sc.Window) > 0 {
		b.WriteString("\n")
		b.WriteString(indentText(level))
		b.WriteString(verbatimFragment(&sc.Window))
	}

	return b.String(), nil
}

// flattenFrom splits a FROM clause into its base text and one fragment per
// join, in source order. Joins nest left-deep in the AST, so the left spine
// is unwound first. A FROM clause that is not a single join chain (comma
// joins, AS OF) is rendered verbatim with no join lines.
func flattenFrom(from tree.From) (string, []string, error) {
	if len(from.Tables) != 1 || from.AsOf.Expr != nil {
		return verbatimFragment(&from), nil, nil
	}

	var joins []string
	base := from.Tables[0]
	for {
		jt, ok := base.(*tree.JoinTableExpr)
		if !ok {
			break
		}
		line, err := joinLine(jt)
		if err != nil {
			return "", nil, err
		}
		joins = append([]string{line}, joins...)
		base = jt.Left
	}

	return "FROM " + tree.AsString(base), joins, nil
}

// joinLine renders one join step: keywords, the joined table, and its
// condition, all on a single line. The table and condition come from the
// parser library's serializer.
func joinLine(jt *tree.JoinTableExpr) (string, error) {
	var b strings.Builder
	if _, natural := jt.Cond.(tree.NaturalJoinCond); natural {
		b.WriteString("NATURAL ")
	}
	if jt.JoinType != "" {
		b.WriteString(jt.JoinType)
		b.WriteString(" ")
	}
	if jt.Hint != "" {
		b.WriteString(jt.Hint)
		b.WriteString(" ")
	}
	b.WriteString("JOIN ")
	b.WriteString(tree.AsString(jt.Right))

	switch cond := jt.Cond.(type) {
	case nil, tree.NaturalJoinCond:
		// CROSS and NATURAL joins carry no condition here.
	case *tree.OnJoinCond:
		b.WriteString(" ON ")
		b.WriteString(tree.AsString(cond.Expr))
	case *tree.UsingJoinCond:
		b.WriteString(" USING (")
		b.WriteString(tree.AsString(&cond.Cols))
		b.WriteString(")")
	default:
		return "", &UnsupportedError{Kind: "JOIN condition"}
	}

	return b.String(), nil
}

// verbatimFragment serializes a node through the parser library and strips
// surrounding whitespace, since some node serializers assume inline context.
func verbatimFragment(node tree.NodeFormatter) string {
	return strings.TrimSpace(tree.AsString(node))
}
