package sqlgen

import (
	"strings"

	"github.com/quillorm/quill/query/where"
)

// Query is a compiled SQL statement with its bound parameters. The
// positional correspondence between placeholders and Args is an
// invariant every generator preserves.
type Query struct {
	SQL  string
	Args []interface{}
}

// Col is a selected column, qualified by table when the statement
// involves joins.
type Col struct {
	Table string
	Name  string
}

// Order is one ORDER BY key.
type Order struct {
	Table  string
	Column string
	Desc   bool
}

// Join is a LEFT OUTER JOIN following a foreign key.
type Join struct {
	Table      string // joined table
	Column     string // joined table's key column
	FromTable  string
	FromColumn string // referencing column on FromTable
}

// Assign is one column assignment of an INSERT or UPDATE.
type Assign struct {
	Column string
	Value  interface{}
}

// Select renders a SELECT over the given columns. A limit of -1 means
// unbounded from offset. The predicate's parameters are the only bound
// arguments; the window is rendered inline from validated integers.
func Select(d Dialect, table string, cols []Col, joins []Join, w where.Node, res where.ColumnResolver, order []Order, limit, offset int) (*Query, error) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(cols) == 0 {
		b.WriteString("*")
	} else {
		for i, c := range cols {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(qualify(d, c.Table, c.Name))
		}
	}
	b.WriteString(" FROM ")
	b.WriteString(d.Quote(table))

	for _, j := range joins {
		b.WriteString(" LEFT OUTER JOIN ")
		b.WriteString(d.Quote(j.Table))
		b.WriteString(" ON ")
		b.WriteString(qualify(d, j.FromTable, j.FromColumn))
		b.WriteString(" = ")
		b.WriteString(qualify(d, j.Table, j.Column))
	}

	args, err := appendWhere(&b, d, w, res, 1)
	if err != nil {
		return nil, err
	}

	if len(order) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range order {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(qualify(d, o.Table, o.Column))
			if o.Desc {
				b.WriteString(" DESC")
			} else {
				b.WriteString(" ASC")
			}
		}
	}

	b.WriteString(d.LimitOffset(limit, offset))
	return &Query{SQL: b.String(), Args: args}, nil
}

// SelectCount renders the COUNT(*) variant. Ordering is irrelevant and
// dropped; a row window still constrains the count, so a windowed query
// counts over a derived table.
func SelectCount(d Dialect, table string, w where.Node, res where.ColumnResolver, limit, offset int) (*Query, error) {
	var b strings.Builder
	windowed := limit >= 0 || offset > 0

	b.WriteString("SELECT COUNT(*) FROM ")
	if windowed {
		b.WriteString("(SELECT 1 FROM ")
	}
	b.WriteString(d.Quote(table))

	args, err := appendWhere(&b, d, w, res, 1)
	if err != nil {
		return nil, err
	}

	if windowed {
		b.WriteString(d.LimitOffset(limit, offset))
		b.WriteString(") AS ")
		b.WriteString(d.Quote("window"))
	}
	return &Query{SQL: b.String(), Args: args}, nil
}

// Insert renders an INSERT of the given assignments, in order.
func Insert(d Dialect, table string, assigns []Assign) *Query {
	var b strings.Builder
	args := make([]interface{}, 0, len(assigns))

	b.WriteString("INSERT INTO ")
	b.WriteString(d.Quote(table))
	b.WriteString(" (")
	for i, a := range assigns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.Quote(a.Column))
	}
	b.WriteString(") VALUES (")
	for i, a := range assigns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.Placeholder(i + 1))
		args = append(args, a.Value)
	}
	b.WriteString(")")
	return &Query{SQL: b.String(), Args: args}
}

// Update renders an UPDATE ... SET over the assignments, in order. SET
// parameters bind ahead of the predicate's, and placeholder numbering
// continues across the two.
func Update(d Dialect, table string, assigns []Assign, w where.Node, res where.ColumnResolver) (*Query, error) {
	var b strings.Builder
	args := make([]interface{}, 0, len(assigns))

	b.WriteString("UPDATE ")
	b.WriteString(d.Quote(table))
	b.WriteString(" SET ")
	for i, a := range assigns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.Quote(a.Column))
		b.WriteString(" = ")
		b.WriteString(d.Placeholder(i + 1))
		args = append(args, a.Value)
	}

	whereArgs, err := appendWhere(&b, d, w, res, len(assigns)+1)
	if err != nil {
		return nil, err
	}
	return &Query{SQL: b.String(), Args: append(args, whereArgs...)}, nil
}

// Delete renders a DELETE constrained by the predicate.
func Delete(d Dialect, table string, w where.Node, res where.ColumnResolver) (*Query, error) {
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(d.Quote(table))

	args, err := appendWhere(&b, d, w, res, 1)
	if err != nil {
		return nil, err
	}
	return &Query{SQL: b.String(), Args: args}, nil
}

// appendWhere writes the WHERE clause unless the predicate matches
// everything, in which case the clause is redundant at statement level
// and omitted.
func appendWhere(b *strings.Builder, d Dialect, w where.Node, res where.ColumnResolver, start int) ([]interface{}, error) {
	if w.IsAll() {
		return nil, nil
	}
	sql, args, err := where.CompileFrom(w, res, d, start)
	if err != nil {
		return nil, err
	}
	b.WriteString(" WHERE ")
	b.WriteString(sql)
	return args, nil
}
