// Package where implements the predicate algebra behind WHERE clauses:
// immutable expression trees built from field comparisons and combined
// with And, Or and Not, compiled to SQL text plus ordered bound
// parameters.
package where

import "fmt"

// Op is a leaf comparison operator.
type Op int

const (
	Eq Op = iota
	Ne
	Gt
	Gte
	Lt
	Lte
	In
	NotIn
	IsNull
	IsNotNull
	Between
	Contains
	StartsWith
	EndsWith
)

func (op Op) String() string {
	switch op {
	case Eq:
		return "="
	case Ne:
		return "!="
	case Gt:
		return ">"
	case Gte:
		return ">="
	case Lt:
		return "<"
	case Lte:
		return "<="
	case In:
		return "IN"
	case NotIn:
		return "NOT IN"
	case IsNull:
		return "IS NULL"
	case IsNotNull:
		return "IS NOT NULL"
	case Between:
		return "BETWEEN"
	case Contains:
		return "CONTAINS"
	case StartsWith:
		return "STARTS WITH"
	case EndsWith:
		return "ENDS WITH"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

type kind int

const (
	kindAll kind = iota // zero value: matches everything
	kindEmpty
	kindLeaf
	kindAnd
	kindOr
	kindNot
)

// Node is an immutable predicate expression. The zero Node matches
// everything, so an unfiltered query set needs no special casing.
// Combinators return new trees and never mutate their operands; nodes
// are safe to copy and to share across query sets.
type Node struct {
	kind  kind
	field string
	op    Op
	value interface{}
	left  *Node
	right *Node
}

// All returns the predicate matching every row. It is the identity
// element of And.
func All() Node { return Node{kind: kindAll} }

// Empty returns the predicate matching no rows. It is the identity
// element of Or and absorbs under And.
func Empty() Node { return Node{kind: kindEmpty} }

// Leaf builds a single field comparison. In and NotIn expect a
// []interface{} value; Between expects [2]interface{}; IsNull and
// IsNotNull ignore the value.
func Leaf(field string, op Op, value interface{}) Node {
	return Node{kind: kindLeaf, field: field, op: op, value: value}
}

// IsAll reports whether the predicate matches every row.
func (n Node) IsAll() bool { return n.kind == kindAll }

// IsEmpty reports whether the predicate matches no rows.
func (n Node) IsEmpty() bool { return n.kind == kindEmpty }

// And combines two predicates conjunctively. All is the identity and
// Empty absorbs, so exclusion chains collapse instead of growing.
func (n Node) And(other Node) Node {
	if n.IsEmpty() || other.IsEmpty() {
		return Empty()
	}
	if n.IsAll() {
		return other
	}
	if other.IsAll() {
		return n
	}
	return Node{kind: kindAnd, left: &n, right: &other}
}

// Or combines two predicates disjunctively. Empty is the identity and
// All absorbs.
func (n Node) Or(other Node) Node {
	if n.IsAll() || other.IsAll() {
		return All()
	}
	if n.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return n
	}
	return Node{kind: kindOr, left: &n, right: &other}
}

// negations maps each leaf operator to its direct negation where one
// exists in SQL.
var negations = map[Op]Op{
	Eq:        Ne,
	Ne:        Eq,
	Gt:        Lte,
	Gte:       Lt,
	Lt:        Gte,
	Lte:       Gt,
	In:        NotIn,
	NotIn:     In,
	IsNull:    IsNotNull,
	IsNotNull: IsNull,
}

// Not negates the predicate. Leaves flip to their dual operator where
// SQL has one; everything else is wrapped in NOT (...). Double negation
// cancels.
func (n Node) Not() Node {
	switch n.kind {
	case kindAll:
		return Empty()
	case kindEmpty:
		return All()
	case kindNot:
		return *n.left
	case kindLeaf:
		if neg, ok := negations[n.op]; ok {
			out := n
			out.op = neg
			return out
		}
	}
	return Node{kind: kindNot, left: &n}
}
