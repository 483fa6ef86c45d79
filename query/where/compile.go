package where

import (
	"fmt"
	"strings"
)

// Dialect is the slice of a SQL dialect the predicate compiler needs:
// identifier quoting, placeholder rendering and the LIKE escape clause.
type Dialect interface {
	// Quote quotes one identifier.
	Quote(ident string) string
	// Placeholder renders the n-th (1-based) parameter placeholder.
	Placeholder(n int) string
	// EscapeClause is the ESCAPE suffix appended to LIKE predicates.
	EscapeClause() string
}

// ColumnResolver maps model field names to SQL columns. A non-empty
// table qualifies the column, which select statements with joins need
// to stay unambiguous.
type ColumnResolver interface {
	ResolveColumn(field string) (table, column string, err error)
}

// Compile renders the predicate to a SQL fragment plus its bound
// parameters. Parameters appear in left-to-right tree order, matching
// placeholder order exactly. All and Empty compile to the always-true
// and always-false fragments so that a fragment is never silently
// omitted inside an enclosing expression.
func Compile(n Node, res ColumnResolver, d Dialect) (string, []interface{}, error) {
	return CompileFrom(n, res, d, 1)
}

// CompileFrom compiles with placeholder numbering starting at start,
// for statements that bind parameters ahead of the WHERE clause (such
// as UPDATE ... SET).
func CompileFrom(n Node, res ColumnResolver, d Dialect, start int) (string, []interface{}, error) {
	argIndex := start
	return compile(n, res, d, &argIndex)
}

func compile(n Node, res ColumnResolver, d Dialect, argIndex *int) (string, []interface{}, error) {
	switch n.kind {
	case kindAll:
		return "1 = 1", nil, nil
	case kindEmpty:
		return "1 = 0", nil, nil
	case kindLeaf:
		return compileLeaf(n, res, d, argIndex)
	case kindNot:
		child, args, err := compile(*n.left, res, d, argIndex)
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + child + ")", args, nil
	case kindAnd, kindOr:
		op := " AND "
		if n.kind == kindOr {
			op = " OR "
		}
		left, leftArgs, err := compile(*n.left, res, d, argIndex)
		if err != nil {
			return "", nil, err
		}
		right, rightArgs, err := compile(*n.right, res, d, argIndex)
		if err != nil {
			return "", nil, err
		}
		return "(" + left + ")" + op + "(" + right + ")", append(leftArgs, rightArgs...), nil
	default:
		return "", nil, fmt.Errorf("where: malformed node kind %d", n.kind)
	}
}

func compileLeaf(n Node, res ColumnResolver, d Dialect, argIndex *int) (string, []interface{}, error) {
	table, column, err := res.ResolveColumn(n.field)
	if err != nil {
		return "", nil, err
	}
	ident := d.Quote(column)
	if table != "" {
		ident = d.Quote(table) + "." + ident
	}

	next := func() string {
		p := d.Placeholder(*argIndex)
		*argIndex++
		return p
	}

	switch n.op {
	case Eq, Ne, Gt, Gte, Lt, Lte:
		return fmt.Sprintf("%s %s %s", ident, n.op, next()), []interface{}{n.value}, nil

	case In, NotIn:
		values, ok := n.value.([]interface{})
		if !ok {
			return "", nil, fmt.Errorf("where: %s on %q needs a value list, got %T", n.op, n.field, n.value)
		}
		if len(values) == 0 {
			// IN () is not valid SQL; an empty membership test is
			// vacuously false, its negation vacuously true.
			if n.op == In {
				return "1 = 0", nil, nil
			}
			return "1 = 1", nil, nil
		}
		placeholders := make([]string, len(values))
		for i := range values {
			placeholders[i] = next()
		}
		return fmt.Sprintf("%s %s (%s)", ident, n.op, strings.Join(placeholders, ", ")), values, nil

	case IsNull, IsNotNull:
		return fmt.Sprintf("%s %s", ident, n.op), nil, nil

	case Between:
		bounds, ok := n.value.([2]interface{})
		if !ok {
			return "", nil, fmt.Errorf("where: BETWEEN on %q needs two bounds, got %T", n.field, n.value)
		}
		lo := next()
		hi := next()
		return fmt.Sprintf("%s BETWEEN %s AND %s", ident, lo, hi), []interface{}{bounds[0], bounds[1]}, nil

	case Contains, StartsWith, EndsWith:
		s, ok := n.value.(string)
		if !ok {
			return "", nil, fmt.Errorf("where: %s on %q needs a string, got %T", n.op, n.field, n.value)
		}
		pattern := escapeLike(s)
		switch n.op {
		case Contains:
			pattern = "%" + pattern + "%"
		case StartsWith:
			pattern += "%"
		case EndsWith:
			pattern = "%" + pattern
		}
		return fmt.Sprintf("%s LIKE %s%s", ident, next(), d.EscapeClause()), []interface{}{pattern}, nil

	default:
		return "", nil, fmt.Errorf("where: unsupported operator %s", n.op)
	}
}

// escapeLike neutralizes LIKE wildcards in a user-supplied fragment so
// that Contains("10%") matches a literal percent sign.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
