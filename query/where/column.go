package where

// Column names a model field for fluent predicate construction:
//
//	where.Column("age").Gt(18).And(where.Column("status").Eq("active"))
type Column string

// C is shorthand for Column.
func C(name string) Column { return Column(name) }

// Eq builds field = value.
func (c Column) Eq(v interface{}) Node { return Leaf(string(c), Eq, v) }

// Ne builds field != value.
func (c Column) Ne(v interface{}) Node { return Leaf(string(c), Ne, v) }

// Gt builds field > value.
func (c Column) Gt(v interface{}) Node { return Leaf(string(c), Gt, v) }

// Gte builds field >= value.
func (c Column) Gte(v interface{}) Node { return Leaf(string(c), Gte, v) }

// Lt builds field < value.
func (c Column) Lt(v interface{}) Node { return Leaf(string(c), Lt, v) }

// Lte builds field <= value.
func (c Column) Lte(v interface{}) Node { return Leaf(string(c), Lte, v) }

// In builds field IN (values...). An empty list matches no rows.
func (c Column) In(values ...interface{}) Node { return Leaf(string(c), In, values) }

// NotIn builds field NOT IN (values...). An empty list matches all rows.
func (c Column) NotIn(values ...interface{}) Node { return Leaf(string(c), NotIn, values) }

// IsNull builds field IS NULL.
func (c Column) IsNull() Node { return Leaf(string(c), IsNull, nil) }

// IsNotNull builds field IS NOT NULL.
func (c Column) IsNotNull() Node { return Leaf(string(c), IsNotNull, nil) }

// Between builds field BETWEEN lo AND hi.
func (c Column) Between(lo, hi interface{}) Node {
	return Leaf(string(c), Between, [2]interface{}{lo, hi})
}

// Contains builds a LIKE %substring% match with wildcards escaped.
func (c Column) Contains(s string) Node { return Leaf(string(c), Contains, s) }

// StartsWith builds a LIKE prefix% match with wildcards escaped.
func (c Column) StartsWith(s string) Node { return Leaf(string(c), StartsWith, s) }

// EndsWith builds a LIKE %suffix match with wildcards escaped.
func (c Column) EndsWith(s string) Node { return Leaf(string(c), EndsWith, s) }
